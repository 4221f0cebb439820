package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/emshower/internal/shower"
)

// ErrRunNotFound is returned when no run has the requested id.
var ErrRunNotFound = errors.New("run not found")

// RunSummary is a row of the run history without per-step data.
type RunSummary struct {
	ID             string  `json:"id"`
	BatchID        string  `json:"batch_id"`
	Seq            int64   `json:"seq"`
	Material       string  `json:"material,omitempty"`
	ParamsHash     string  `json:"params_hash"`
	InitialKind    string  `json:"initial_kind"`
	E0             float64 `json:"e0"`
	Seed           int64   `json:"seed"`
	Generations    int     `json:"generations"`
	PeakPopulation int     `json:"peak_population"`
	TotalEnergy    float64 `json:"total_energy"`
}

// RunFilter narrows ListRuns and CountRuns. Zero fields match everything.
type RunFilter struct {
	BatchID    string
	ParamsHash string
	Material   string

	// Limit caps the number of rows returned by ListRuns (0 = no limit).
	Limit int
}

func (f RunFilter) where() (string, []any) {
	var (
		clauses []string
		args    []any
	)
	if f.BatchID != "" {
		clauses = append(clauses, "batch_id = ?")
		args = append(args, f.BatchID)
	}
	if f.ParamsHash != "" {
		clauses = append(clauses, "params_hash = ?")
		args = append(args, f.ParamsHash)
	}
	if f.Material != "" {
		clauses = append(clauses, "material = ?")
		args = append(args, f.Material)
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// GetRun loads a run with its parameters and per-step output.
// Returns an error wrapping ErrRunNotFound if the id is unknown.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	var (
		run        Run
		paramsJSON string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, batch_id, seq, material, params_hash, params, seed, result_hash
		FROM runs
		WHERE id = ?
	`, id).Scan(
		&run.ID,
		&run.BatchID,
		&run.Seq,
		&run.Material,
		&run.ParamsHash,
		&paramsJSON,
		&run.Seed,
		&run.ResultHash,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get run %s: %w", id, ErrRunNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get run %s: %w", id, err)
	}

	if run.Params, err = unmarshalParams(paramsJSON); err != nil {
		return nil, fmt.Errorf("get run %s: %w", id, err)
	}

	if run.Result, err = s.readSteps(ctx, id); err != nil {
		return nil, fmt.Errorf("get run %s: %w", id, err)
	}
	return &run, nil
}

// readSteps rebuilds a Result from run_steps, ordered by step.
// TotalEnergy is re-summed in step order, which reproduces the value the
// engine computed.
func (s *Store) readSteps(ctx context.Context, runID string) (*shower.Result, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT step, energy, population
		FROM run_steps
		WHERE run_id = ?
		ORDER BY step ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query steps: %w", err)
	}
	defer rows.Close()

	res := &shower.Result{
		EnergyPerStep:     []float64{},
		PopulationPerStep: []int{},
	}
	for rows.Next() {
		var (
			step       int
			energy     float64
			population int
		)
		if err := rows.Scan(&step, &energy, &population); err != nil {
			return nil, fmt.Errorf("scan step: %w", err)
		}
		if step != len(res.EnergyPerStep) {
			return nil, fmt.Errorf("step %d missing", len(res.EnergyPerStep))
		}
		res.EnergyPerStep = append(res.EnergyPerStep, energy)
		res.PopulationPerStep = append(res.PopulationPerStep, population)
		res.TotalEnergy += energy
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate steps: %w", err)
	}
	return res, nil
}

// ListRuns returns run summaries matching f.
// Results are ordered deterministically: ORDER BY batch_id ASC, seq ASC,
// id ASC COLLATE BINARY.
//
// Returns an empty slice (not nil) if nothing matches.
func (s *Store) ListRuns(ctx context.Context, f RunFilter) ([]RunSummary, error) {
	where, args := f.where()
	query := `
		SELECT id, batch_id, seq, material, params_hash, params, seed, generations, peak_population, total_energy
		FROM runs` + where + `
		ORDER BY batch_id ASC, seq ASC, id COLLATE BINARY ASC`
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	runs := []RunSummary{}
	for rows.Next() {
		var (
			sum        RunSummary
			paramsJSON string
		)
		if err := rows.Scan(
			&sum.ID,
			&sum.BatchID,
			&sum.Seq,
			&sum.Material,
			&sum.ParamsHash,
			&paramsJSON,
			&sum.Seed,
			&sum.Generations,
			&sum.PeakPopulation,
			&sum.TotalEnergy,
		); err != nil {
			return nil, fmt.Errorf("list runs: scan: %w", err)
		}
		p, err := unmarshalParams(paramsJSON)
		if err != nil {
			return nil, fmt.Errorf("list runs: %s: %w", sum.ID, err)
		}
		sum.E0 = p.E0
		sum.InitialKind = p.Initial.String()
		runs = append(runs, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: iterate: %w", err)
	}
	return runs, nil
}

// CountRuns returns the number of runs matching f. Limit is ignored.
func (s *Store) CountRuns(ctx context.Context, f RunFilter) (int, error) {
	where, args := f.where()
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM runs"+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count runs: %w", err)
	}
	return n, nil
}
