package store

import (
	"context"
	"fmt"

	"github.com/roach88/emshower/internal/canon"
	"github.com/roach88/emshower/internal/shower"
)

// ReplayResult reports whether a stored run reproduced.
type ReplayResult struct {
	RunID        string `json:"run_id"`
	StoredHash   string `json:"stored_hash"`
	ReplayedHash string `json:"replayed_hash"`
	Match        bool   `json:"match"`

	// Intact reports whether the stored steps still hash to StoredHash.
	Intact bool `json:"intact"`

	// Divergence is the first step where stored and replayed output differ,
	// or -1 when they match.
	Divergence int `json:"divergence"`
}

// Replay re-simulates a stored run with its stored parameters and seed and
// compares the output hash with the stored one.
func (s *Store) Replay(ctx context.Context, id string, eng *shower.Engine) (*ReplayResult, error) {
	run, err := s.GetRun(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("replay: %w", err)
	}

	replayed, err := eng.Simulate(ctx, run.Params, shower.NewSource(run.Seed))
	if err != nil {
		return nil, fmt.Errorf("replay %s: %w", id, err)
	}

	hash, err := canon.ResultHash(replayed)
	if err != nil {
		return nil, fmt.Errorf("replay %s: %w", id, err)
	}
	storedSteps, err := canon.ResultHash(run.Result)
	if err != nil {
		return nil, fmt.Errorf("replay %s: %w", id, err)
	}

	out := &ReplayResult{
		RunID:        id,
		StoredHash:   run.ResultHash,
		ReplayedHash: hash,
		Match:        hash == run.ResultHash,
		Intact:       storedSteps == run.ResultHash,
		Divergence:   -1,
	}
	if !out.Match {
		out.Divergence = firstDivergence(run.Result, replayed)
	}
	return out, nil
}

// firstDivergence returns the first step at which a and b differ. Results
// whose steps all agree but whose hashes differ diverge at the shorter
// length.
func firstDivergence(a, b *shower.Result) int {
	n := min(len(a.EnergyPerStep), len(b.EnergyPerStep))
	for i := 0; i < n; i++ {
		if a.EnergyPerStep[i] != b.EnergyPerStep[i] || a.PopulationPerStep[i] != b.PopulationPerStep[i] {
			return i
		}
	}
	return n
}
