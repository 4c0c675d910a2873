package services

import (
	"context"
	"errors"
	"io"

	"github.com/username/spendfolio/src/model"
	"github.com/username/spendfolio/src/models"
)

var (
	ErrRunNotFound     = errors.New("no compiled run for this session")
	ErrRecordNotFound  = errors.New("record not found in the current run")
	ErrInvalidCategory = errors.New("category is not one of the supported categories")
)

// CompileService runs the normalization pipeline over a batch of files.
type CompileService interface {
	Compile(ctx context.Context, files []models.FileInput, opts models.CompileOptions) (*models.CompileResult, error)
}

// RunStore keeps the latest run of each session in memory.
type RunStore interface {
	Save(sessionID string, result *models.CompileResult)
	Get(sessionID string) (*models.CompileResult, error)
	OverrideCategory(sessionID, recordID, category string) (*models.NormalizedRecord, error)
	Clear(sessionID string)
}

// RunAuditor persists run metadata. Records themselves are never written.
type RunAuditor interface {
	RecordRun(sessionID string, result *models.CompileResult) error
	ListRuns(sessionID string, limit int) ([]model.CompileRun, error)
	GetRun(sessionID, runID string) (*model.CompileRun, error)
}

// ExportService renders records as the compiled spending CSV.
type ExportService interface {
	WriteCSV(w io.Writer, records []models.NormalizedRecord) error
}
