package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/emshower/internal/canon"
	"github.com/roach88/emshower/internal/shower"
)

func TestSaveRun(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	run := createTestRun(t, "run-1", "batch-1", 0, 42)

	require.NoError(t, s.SaveRun(ctx, run))

	wantParams, err := canon.ParamsHash(run.Params)
	require.NoError(t, err)
	wantResult, err := canon.ResultHash(run.Result)
	require.NoError(t, err)
	assert.Equal(t, wantParams, run.ParamsHash)
	assert.Equal(t, wantResult, run.ResultHash)

	var steps int
	require.NoError(t, s.db.QueryRow("SELECT COUNT(*) FROM run_steps WHERE run_id = ?", "run-1").Scan(&steps))
	assert.Equal(t, len(run.Result.EnergyPerStep), steps)

	var params string
	require.NoError(t, s.db.QueryRow("SELECT params FROM runs WHERE id = ?", "run-1").Scan(&params))
	expected, err := canon.Marshal(canon.ParamsObject(run.Params))
	require.NoError(t, err)
	assert.Equal(t, string(expected), params)
}

func TestSaveRun_Idempotent(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	run := createTestRun(t, "run-1", "batch-1", 0, 42)

	require.NoError(t, s.SaveRun(ctx, run))
	require.NoError(t, s.SaveRun(ctx, run))

	n, err := s.CountRuns(ctx, RunFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	var steps int
	require.NoError(t, s.db.QueryRow("SELECT COUNT(*) FROM run_steps").Scan(&steps))
	assert.Equal(t, len(run.Result.EnergyPerStep), steps)
}

func TestSaveRun_DuplicateSeqRejected(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveRun(ctx, createTestRun(t, "run-1", "batch-1", 0, 1)))
	err := s.SaveRun(ctx, createTestRun(t, "run-2", "batch-1", 0, 2))
	require.Error(t, err)

	n, err := s.CountRuns(ctx, RunFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, n, "failed transaction must not leave partial rows")
}

func TestSaveRun_Validation(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	run := createTestRun(t, "", "batch-1", 0, 1)
	assert.Error(t, s.SaveRun(ctx, run))

	run = createTestRun(t, "run-1", "batch-1", 0, 1)
	run.Result = nil
	assert.Error(t, s.SaveRun(ctx, run))
}

func TestSaveBatch(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	p := testParams()
	p.E0 = 100

	var results []*shower.Result
	for i := int64(0); i < 3; i++ {
		res, err := shower.Simulate(p, shower.NewSource(10+i))
		require.NoError(t, err)
		results = append(results, res)
	}

	gen := NewFixedGenerator("r-0", "r-1", "r-2")
	runs, err := s.SaveBatch(ctx, gen, "batch-x", "NaI", p, 10, results)
	require.NoError(t, err)
	require.Len(t, runs, 3)

	for i, run := range runs {
		assert.Equal(t, int64(i), run.Seq)
		assert.Equal(t, int64(10+i), run.Seed)
		assert.NotEmpty(t, run.ResultHash)
	}

	n, err := s.CountRuns(ctx, RunFilter{BatchID: "batch-x"})
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	got, err := s.GetRun(ctx, "r-2")
	require.NoError(t, err)
	assert.Equal(t, results[2], got.Result)
}
