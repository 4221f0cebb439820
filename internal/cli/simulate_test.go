package cli

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/emshower/internal/canon"
	"github.com/roach88/emshower/internal/material"
	"github.com/roach88/emshower/internal/shower"
	"github.com/roach88/emshower/internal/store"
)

func TestSimulate_MatchesEngine(t *testing.T) {
	out, err := execute(t, NewSimulateCommand(&RootOptions{Format: "json"}),
		"--energy", "1000", "--kind", "electron", "--step", "0.1", "--seed", "42")
	require.NoError(t, err)

	var got SimulateOutput
	decodeData(t, out, &got)

	p := material.NaI.Params(1000, 0.1, shower.KindElectron)
	want, err := shower.Simulate(p, shower.NewSource(42))
	require.NoError(t, err)

	assert.Equal(t, "NaI", got.Material)
	assert.Equal(t, int64(42), got.Seed)
	assert.Equal(t, p, got.Params)
	assert.Equal(t, want, got.Result)
	assert.Empty(t, got.RunID, "nothing recorded without --db")

	wantHash, err := canon.ResultHash(want)
	require.NoError(t, err)
	assert.Equal(t, wantHash, got.ResultHash)
}

func TestSimulate_TextOutput(t *testing.T) {
	out, err := execute(t, NewSimulateCommand(&RootOptions{Format: "text"}),
		"--material", "standard rock", "--kind", "photon", "--energy", "200", "--seed", "7")
	require.NoError(t, err)

	assert.Contains(t, out, "Material:  Standard rock")
	assert.Contains(t, out, "Primary:   photon, 200 MeV")
	assert.Contains(t, out, "Seed:      7")
	assert.Contains(t, out, "DEPTH[X0]")
	assert.Contains(t, out, "Total energy:")
	assert.NotContains(t, out, "Run ID:")
}

func TestSimulate_Overrides(t *testing.T) {
	out, err := execute(t, NewSimulateCommand(&RootOptions{Format: "json"}),
		"--seed", "1", "--energy", "50",
		"--critical-electron", "9.5", "--critical-positron", "9.2", "--loss", "7.6", "--x0", "1.76")
	require.NoError(t, err)

	var got SimulateOutput
	decodeData(t, out, &got)
	assert.Equal(t, shower.Params{
		E0:               50,
		CriticalElectron: 9.5,
		CriticalPositron: 9.2,
		LossPerX0:        7.6,
		RadiationLength:  1.76,
		StepFraction:     0.1,
		Initial:          shower.KindElectron,
	}, got.Params)
}

func TestSimulate_RecordsRun(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "showers.db")
	rootOpts := &RootOptions{Format: "json", IDs: store.NewFixedGenerator("run-1", "batch-1")}

	out, err := execute(t, NewSimulateCommand(rootOpts), "--seed", "42", "--db", dbPath)
	require.NoError(t, err)

	var got SimulateOutput
	decodeData(t, out, &got)
	assert.Equal(t, "run-1", got.RunID)

	st, err := store.Open(dbPath)
	require.NoError(t, err)
	defer st.Close()

	run, err := st.GetRun(context.Background(), "run-1")
	require.NoError(t, err)
	assert.Equal(t, "batch-1", run.BatchID)
	assert.Equal(t, "NaI", run.Material)
	assert.Equal(t, int64(42), run.Seed)
	assert.Equal(t, got.Result, run.Result)
	assert.Equal(t, got.ResultHash, run.ResultHash)
	assert.Equal(t, got.ParamsHash, run.ParamsHash)
}

func TestSimulate_EnvironmentSeed(t *testing.T) {
	rootOpts := &RootOptions{Format: "json"}
	rootOpts.Env.Seed = 99
	rootOpts.Env.SeedSet = true

	out, err := execute(t, NewSimulateCommand(rootOpts), "--energy", "20")
	require.NoError(t, err)
	var got SimulateOutput
	decodeData(t, out, &got)
	assert.Equal(t, int64(99), got.Seed)

	out, err = execute(t, NewSimulateCommand(rootOpts), "--energy", "20", "--seed", "5")
	require.NoError(t, err)
	decodeData(t, out, &got)
	assert.Equal(t, int64(5), got.Seed, "flag wins over environment")
}

func TestSimulate_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code int
		msg  string
	}{
		{"unknown material", []string{"--material", "Unobtainium"}, ExitCommandError, "unknown material"},
		{"unknown kind", []string{"--kind", "muon"}, ExitCommandError, "invalid kind"},
		{"step too large", []string{"--step", "1.5"}, ExitCommandError, "step_fraction"},
		{"negative energy", []string{"--energy=-1"}, ExitCommandError, "e0"},
		{"zero radiation length", []string{"--x0", "0"}, ExitCommandError, "radiation_length"},
		{"generation limit", []string{"--max-generations", "2"}, ExitFailure, "GENERATION_LIMIT"},
		{"missing catalog", []string{"--catalog", "/nonexistent/catalog"}, ExitCommandError, "material catalog"},
		{"positional argument", []string{"extra"}, ExitFailure, "unknown command"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"--seed", "1"}, tt.args...)
			_, err := execute(t, NewSimulateCommand(&RootOptions{Format: "text"}), args...)
			requireExitCode(t, err, tt.code)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}
