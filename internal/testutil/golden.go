package testutil

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/emshower/internal/canon"
)

// AssertGolden serializes v as canonical JSON and compares it against
// testdata/golden/{name}.golden.
//
// To regenerate golden files, run the package tests with -update:
//
//	go test ./internal/shower -update
//
// v must be encodable by canon.Marshal.
func AssertGolden(t *testing.T, name string, v any) {
	t.Helper()

	data, err := canon.Marshal(v)
	if err != nil {
		t.Fatalf("AssertGolden: canonical marshal: %v", err)
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)
}
