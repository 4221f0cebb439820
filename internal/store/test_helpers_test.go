package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/emshower/internal/shower"
)

// createTestStore creates a new store in a temp directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testParams() shower.Params {
	return shower.Params{
		E0:               1000,
		CriticalElectron: 13.37,
		CriticalPositron: 12.94,
		LossPerX0:        4.785,
		RadiationLength:  2.588,
		StepFraction:     0.1,
		Initial:          shower.KindElectron,
	}
}

// createTestRun simulates a real run so stored values are realistic floats.
func createTestRun(t *testing.T, id, batchID string, seq, seed int64) *Run {
	t.Helper()
	p := testParams()
	res, err := shower.Simulate(p, shower.NewSource(seed))
	if err != nil {
		t.Fatalf("Simulate() failed: %v", err)
	}
	return &Run{
		ID:       id,
		BatchID:  batchID,
		Seq:      seq,
		Material: "NaI",
		Params:   p,
		Seed:     seed,
		Result:   res,
	}
}
