package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/spendfolio/src/database"
	"github.com/username/spendfolio/src/models"
)

func TestAuditService_RecordAndList(t *testing.T) {
	db, err := database.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	auditor := NewAuditService(db)
	started := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	first := &models.CompileResult{
		RunID:      "run-1",
		Records:    sampleResult().Records,
		FileErrors: []models.FileError{{File: "venmo.csv", Message: "venmo header row not found"}},
		FileCount:  2,
		StartedAt:  started,
		FinishedAt: started.Add(time.Second),
		Policy:     models.PerFileIsolation,
	}
	second := &models.CompileResult{
		RunID:      "run-2",
		FileCount:  1,
		StartedAt:  started.Add(time.Hour),
		FinishedAt: started.Add(time.Hour + time.Second),
		Policy:     models.AllOrNothing,
	}
	require.NoError(t, auditor.RecordRun("s1", first))
	require.NoError(t, auditor.RecordRun("s1", second))
	require.NoError(t, auditor.RecordRun("s2", &models.CompileResult{RunID: "run-3", StartedAt: started, FinishedAt: started}))

	runs, err := auditor.ListRuns("s1", 0)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-2", runs[0].RunID, "newest first")
	assert.Equal(t, 2, runs[1].RecordCount)
	assert.Equal(t, 1, runs[1].ErrorCount)
	assert.Equal(t, "all-or-nothing", runs[0].FailurePolicy)

	stored, err := auditor.GetRun("s1", "run-1")
	require.NoError(t, err)
	require.Len(t, stored.FileErrors, 1)
	assert.Equal(t, "venmo.csv", stored.FileErrors[0].FileName)

	clean, err := auditor.GetRun("s1", "run-2")
	require.NoError(t, err)
	assert.NotNil(t, clean.FileErrors)
	assert.Empty(t, clean.FileErrors)

	_, err = auditor.GetRun("s2", "run-1")
	assert.ErrorIs(t, err, ErrRunNotFound, "runs are scoped to their session")
	_, err = auditor.GetRun("s1", "missing")
	assert.ErrorIs(t, err, ErrRunNotFound)

	limited, err := auditor.ListRuns("s1", 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	none, err := auditor.ListRuns("nobody", 10)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestAuditService_DuplicateRunID(t *testing.T) {
	db, err := database.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	auditor := NewAuditService(db)
	run := &models.CompileResult{RunID: "run-1", StartedAt: time.Now(), FinishedAt: time.Now()}
	require.NoError(t, auditor.RecordRun("s1", run))
	assert.Error(t, auditor.RecordRun("s1", run))
}
