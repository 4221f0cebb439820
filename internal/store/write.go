package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/emshower/internal/canon"
	"github.com/roach88/emshower/internal/shower"
)

// Run is a stored shower: its inputs, its seed and its full output.
type Run struct {
	ID      string
	BatchID string
	Seq     int64

	// Material is a display label; the physics lives in Params.
	Material string

	Params shower.Params
	Seed   int64
	Result *shower.Result

	// ParamsHash and ResultHash are filled in by SaveRun.
	ParamsHash string
	ResultHash string
}

// SaveRun inserts a run and its steps in one transaction.
// Uses ON CONFLICT(id) DO NOTHING for idempotency - saving the same run
// twice is silently ignored. A different run reusing (batch_id, seq) is an
// error.
//
// The hashes on run are computed from Params and Result.
func (s *Store) SaveRun(ctx context.Context, run *Run) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save run: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	if err := saveRun(ctx, tx, run); err != nil {
		return fmt.Errorf("save run: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save run: commit: %w", err)
	}
	return nil
}

// SaveBatch stores the results of one analysis batch in a single
// transaction. Result i gets sequence number i and seed base+i; ids come
// from gen. It returns the stored runs.
func (s *Store) SaveBatch(ctx context.Context, gen IDGenerator, batchID, mat string, p shower.Params, base int64, results []*shower.Result) ([]*Run, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("save batch: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	runs := make([]*Run, len(results))
	for i, res := range results {
		runs[i] = &Run{
			ID:       gen.Generate(),
			BatchID:  batchID,
			Seq:      int64(i),
			Material: mat,
			Params:   p,
			Seed:     base + int64(i),
			Result:   res,
		}
		if err := saveRun(ctx, tx, runs[i]); err != nil {
			return nil, fmt.Errorf("save batch: run %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("save batch: commit: %w", err)
	}
	return runs, nil
}

func saveRun(ctx context.Context, tx *sql.Tx, run *Run) error {
	if run.ID == "" || run.BatchID == "" {
		return fmt.Errorf("run id and batch id are required")
	}
	if run.Result == nil {
		return fmt.Errorf("run %s has no result", run.ID)
	}

	paramsJSON, err := marshalParams(run.Params)
	if err != nil {
		return err
	}
	if run.ParamsHash, err = canon.ParamsHash(run.Params); err != nil {
		return err
	}
	if run.ResultHash, err = canon.ResultHash(run.Result); err != nil {
		return err
	}

	peak, _ := run.Result.PeakPopulation()
	res, err := tx.ExecContext(ctx, `
		INSERT INTO runs
		(id, batch_id, seq, material, params_hash, params, seed, generations, peak_population, total_energy, result_hash)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		run.ID,
		run.BatchID,
		run.Seq,
		run.Material,
		run.ParamsHash,
		paramsJSON,
		run.Seed,
		run.Result.Generations(),
		peak,
		run.Result.TotalEnergy,
		run.ResultHash,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert run: rows affected: %w", err)
	}
	if n == 0 {
		// Already stored.
		return nil
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO run_steps (run_id, step, energy, population)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare steps: %w", err)
	}
	defer stmt.Close()

	for i, e := range run.Result.EnergyPerStep {
		if _, err := stmt.ExecContext(ctx, run.ID, i, e, run.Result.PopulationPerStep[i]); err != nil {
			return fmt.Errorf("insert step %d: %w", i, err)
		}
	}
	return nil
}
