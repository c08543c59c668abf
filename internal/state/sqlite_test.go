package state

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store := NewSQLiteStore(nil)
	require.NoError(t, store.Open(filepath.Join(t.TempDir(), "state.db")))
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLiteStore_RunLifecycle(t *testing.T) {
	store := newTestStore(t)

	run, err := store.CreateRun("dev")
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, RunStatusRunning, run.Status)
	assert.Equal(t, "dev", run.Environment)

	require.NoError(t, store.CompleteRun(run.ID, RunStatusCompleted, "", ""))

	got, err := store.GetRun(run.ID)
	require.NoError(t, err)
	assert.Equal(t, RunStatusCompleted, got.Status)
	assert.NotNil(t, got.CompletedAt)
	assert.Empty(t, got.FailedStage)
}

func TestSQLiteStore_FailedRun(t *testing.T) {
	store := newTestStore(t)

	run, err := store.CreateRun("dev")
	require.NoError(t, err)

	require.NoError(t, store.CompleteRun(run.ID, RunStatusFailed, "cleanse.sales", "bad extract"))

	got, err := store.GetRun(run.ID)
	require.NoError(t, err)
	assert.Equal(t, RunStatusFailed, got.Status)
	assert.Equal(t, "cleanse.sales", got.FailedStage)
	assert.Equal(t, "bad extract", got.Error)
}

func TestSQLiteStore_GetRunNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetRun("does-not-exist")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run not found")
}

func TestSQLiteStore_GetLatestRun(t *testing.T) {
	store := newTestStore(t)

	latest, err := store.GetLatestRun("dev")
	require.NoError(t, err)
	assert.Nil(t, latest, "no runs yet")

	first, err := store.CreateRun("dev")
	require.NoError(t, err)
	require.NoError(t, store.CompleteRun(first.ID, RunStatusCompleted, "", ""))

	_, err = store.CreateRun("prod")
	require.NoError(t, err)

	latest, err = store.GetLatestRun("dev")
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, first.ID, latest.ID)
}

func TestSQLiteStore_ListRuns(t *testing.T) {
	store := newTestStore(t)

	var ids []string
	for range 3 {
		run, err := store.CreateRun("dev")
		require.NoError(t, err)
		ids = append(ids, run.ID)
	}

	runs, err := store.ListRuns(2)
	require.NoError(t, err)
	assert.Len(t, runs, 2)

	runs, err = store.ListRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 3)

	var gotIDs []string
	for _, r := range runs {
		gotIDs = append(gotIDs, r.ID)
	}
	assert.ElementsMatch(t, ids, gotIDs)
}

func TestSQLiteStore_StageRuns(t *testing.T) {
	store := newTestStore(t)

	run, err := store.CreateRun("dev")
	require.NoError(t, err)

	started := time.Date(2026, 2, 3, 10, 0, 0, 0, time.UTC)
	completed := started.Add(120 * time.Millisecond)
	require.NoError(t, store.RecordStage(run.ID, StageRun{
		Stage: "cleanse.customers", Status: StageStatusSuccess, Rows: 18484,
		StartedAt: started, CompletedAt: &completed, ElapsedMS: 120,
	}))
	require.NoError(t, store.RecordStage(run.ID, StageRun{
		Stage: "mart.dim_customers", Status: StageStatusFailed, Error: "connection lost",
	}))
	require.NoError(t, store.RecordStage(run.ID, StageRun{
		Stage: "mart.fact_sales", Status: StageStatusSkipped,
	}))

	stages, err := store.ListStageRuns(run.ID)
	require.NoError(t, err)
	require.Len(t, stages, 3)

	assert.Equal(t, "cleanse.customers", stages[0].Stage)
	assert.Equal(t, StageStatusSuccess, stages[0].Status)
	assert.Equal(t, int64(18484), stages[0].Rows)
	assert.True(t, started.Equal(stages[0].StartedAt))
	require.NotNil(t, stages[0].CompletedAt)
	assert.True(t, completed.Equal(*stages[0].CompletedAt))

	assert.Equal(t, StageStatusFailed, stages[1].Status)
	assert.Equal(t, "connection lost", stages[1].Error)

	assert.Equal(t, StageStatusSkipped, stages[2].Status)
	assert.False(t, stages[2].StartedAt.IsZero(), "skipped stages still carry a timestamp")
	assert.Nil(t, stages[2].CompletedAt, "skipped stages never completed")
}

func TestSQLiteStore_NotOpened(t *testing.T) {
	store := NewSQLiteStore(nil)

	_, err := store.CreateRun("dev")
	assert.Error(t, err)

	assert.Error(t, store.CompleteRun("x", RunStatusCompleted, "", ""))
	assert.Error(t, store.RecordStage("x", StageRun{}))

	_, err = store.ListRuns(5)
	assert.Error(t, err)
}

func TestSQLiteStore_ReopenKeepsHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")

	store := NewSQLiteStore(nil)
	require.NoError(t, store.Open(path))
	run, err := store.CreateRun("dev")
	require.NoError(t, err)
	require.NoError(t, store.Close())

	reopened := NewSQLiteStore(nil)
	require.NoError(t, reopened.Open(path))
	defer func() { _ = reopened.Close() }()

	got, err := reopened.GetRun(run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.ID, got.ID)
}
