package cli

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/emshower/internal/store"
)

// recordRun simulates one shower into a fresh database and returns its path.
func recordRun(t *testing.T, runID string) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "showers.db")
	rootOpts := &RootOptions{Format: "text", IDs: store.NewFixedGenerator(runID, "batch-1")}
	_, err := execute(t, NewSimulateCommand(rootOpts), "--seed", "42", "--energy", "300", "--db", dbPath)
	require.NoError(t, err)
	return dbPath
}

func TestReplay_Match(t *testing.T) {
	dbPath := recordRun(t, "run-1")

	out, err := execute(t, NewReplayCommand(&RootOptions{Format: "json"}), "run-1", "--db", dbPath)
	require.NoError(t, err)

	var got store.ReplayResult
	decodeData(t, out, &got)
	assert.Equal(t, "run-1", got.RunID)
	assert.True(t, got.Match)
	assert.True(t, got.Intact)
	assert.Equal(t, -1, got.Divergence)
	assert.Equal(t, got.StoredHash, got.ReplayedHash)
}

func TestReplay_TextOutput(t *testing.T) {
	dbPath := recordRun(t, "run-1")

	out, err := execute(t, NewReplayCommand(&RootOptions{Format: "text"}), "run-1", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Run:            run-1")
	assert.Contains(t, out, "Result:         MATCH")
}

func TestReplay_DatabaseFromEnvironment(t *testing.T) {
	dbPath := recordRun(t, "run-1")
	rootOpts := &RootOptions{Format: "text"}
	rootOpts.Env.DB = dbPath

	_, err := execute(t, NewReplayCommand(rootOpts), "run-1")
	require.NoError(t, err)
}

func TestReplay_TamperedSteps(t *testing.T) {
	dbPath := recordRun(t, "run-1")

	db, err := sql.Open("sqlite3", dbPath)
	require.NoError(t, err)
	_, err = db.Exec(`UPDATE run_steps SET energy = energy + 1 WHERE run_id = ? AND step = 1`, "run-1")
	require.NoError(t, err)
	require.NoError(t, db.Close())

	out, err := execute(t, NewReplayCommand(&RootOptions{Format: "text"}), "run-1", "--db", dbPath)
	requireExitCode(t, err, ExitFailure)
	assert.Contains(t, err.Error(), "do not match the recorded hash")
	assert.Contains(t, out, "CORRUPT")
}

func TestReplay_DivergedSeed(t *testing.T) {
	dbPath := recordRun(t, "run-1")

	db, err := sql.Open("sqlite3", dbPath)
	require.NoError(t, err)
	_, err = db.Exec(`UPDATE runs SET seed = seed + 1 WHERE id = ?`, "run-1")
	require.NoError(t, err)
	require.NoError(t, db.Close())

	out, err := execute(t, NewReplayCommand(&RootOptions{Format: "text"}), "run-1", "--db", dbPath)
	requireExitCode(t, err, ExitFailure)
	assert.Contains(t, err.Error(), "replay diverged at step")
	assert.Contains(t, out, "DIVERGED")
}

func TestReplay_Errors(t *testing.T) {
	dbPath := recordRun(t, "run-1")

	t.Run("missing db flag", func(t *testing.T) {
		_, err := execute(t, NewReplayCommand(&RootOptions{Format: "text"}), "run-1")
		requireExitCode(t, err, ExitCommandError)
		assert.Contains(t, err.Error(), "--db is required")
	})

	t.Run("database not found", func(t *testing.T) {
		_, err := execute(t, NewReplayCommand(&RootOptions{Format: "text"}), "run-1", "--db", filepath.Join(t.TempDir(), "missing.db"))
		requireExitCode(t, err, ExitCommandError)
		assert.Contains(t, err.Error(), "database not found")
	})

	t.Run("unknown run", func(t *testing.T) {
		_, err := execute(t, NewReplayCommand(&RootOptions{Format: "text"}), "run-2", "--db", dbPath)
		requireExitCode(t, err, ExitCommandError)
		assert.Contains(t, err.Error(), `no run "run-2"`)
	})
}
