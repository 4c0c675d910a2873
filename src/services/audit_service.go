package services

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/username/spendfolio/src/logger"
	"github.com/username/spendfolio/src/model"
	"github.com/username/spendfolio/src/models"
)

type auditServiceImpl struct {
	db *sql.DB
}

func NewAuditService(db *sql.DB) RunAuditor {
	return &auditServiceImpl{db: db}
}

func (s *auditServiceImpl) RecordRun(sessionID string, result *models.CompileResult) error {
	run := &model.CompileRun{
		RunID:         result.RunID,
		SessionID:     sessionID,
		StartedAt:     result.StartedAt,
		FinishedAt:    result.FinishedAt,
		FileCount:     result.FileCount,
		RecordCount:   len(result.Records),
		ErrorCount:    len(result.FileErrors),
		FailurePolicy: string(result.Policy),
	}
	for _, fe := range result.FileErrors {
		run.FileErrors = append(run.FileErrors, model.CompileFileError{FileName: fe.File, Message: fe.Message})
	}

	if err := model.CreateCompileRun(s.db, run); err != nil {
		logger.L.Error("Failed to record compile run", "runID", result.RunID, "sessionID", sessionID, "error", err)
		return err
	}
	return nil
}

func (s *auditServiceImpl) ListRuns(sessionID string, limit int) ([]model.CompileRun, error) {
	return model.GetCompileRunsBySession(s.db, sessionID, limit)
}

// GetRun loads one run with its file errors. Runs of other sessions are reported as not found.
func (s *auditServiceImpl) GetRun(sessionID, runID string) (*model.CompileRun, error) {
	run, err := model.GetCompileRun(s.db, runID)
	if err != nil {
		if errors.Is(err, model.ErrCompileRunNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	if run.SessionID != sessionID {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	if run.FileErrors == nil {
		run.FileErrors = []model.CompileFileError{}
	}
	return run, nil
}
