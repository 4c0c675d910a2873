package model_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/spendfolio/src/database"
	"github.com/username/spendfolio/src/model"
)

func TestCompileRunRoundTrip(t *testing.T) {
	db, err := database.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	started := time.Date(2024, 5, 1, 8, 30, 0, 0, time.UTC)
	run := &model.CompileRun{
		RunID:         "run-1",
		SessionID:     "session-1",
		StartedAt:     started,
		FinishedAt:    started.Add(2 * time.Second),
		FileCount:     3,
		RecordCount:   40,
		ErrorCount:    2,
		FailurePolicy: "isolate",
		FileErrors: []model.CompileFileError{
			{FileName: "venmo.csv", Message: "venmo header row not found"},
			{FileName: "bank.csv", Message: "unknown format"},
		},
	}
	require.NoError(t, model.CreateCompileRun(db, run))

	got, err := model.GetCompileRun(db, "run-1")
	require.NoError(t, err)
	assert.Equal(t, "session-1", got.SessionID)
	assert.Equal(t, 40, got.RecordCount)
	assert.True(t, got.StartedAt.Equal(started))
	assert.Equal(t, run.FileErrors, got.FileErrors, "file errors keep insertion order")

	_, err = model.GetCompileRun(db, "missing")
	assert.ErrorIs(t, err, model.ErrCompileRunNotFound)
}

func TestGetCompileRunsBySession(t *testing.T) {
	db, err := database.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"a", "b", "c"} {
		at := base.Add(time.Duration(i) * time.Hour)
		require.NoError(t, model.CreateCompileRun(db, &model.CompileRun{
			RunID: id, SessionID: "s", StartedAt: at, FinishedAt: at, FailurePolicy: "isolate",
		}))
	}

	runs, err := model.GetCompileRunsBySession(db, "s", 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "c", runs[0].RunID)
	assert.Equal(t, "b", runs[1].RunID)
	assert.Nil(t, runs[0].FileErrors)
}
