// src/services/compile_service.go
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/username/spendfolio/src/logger"
	"github.com/username/spendfolio/src/models"
	"github.com/username/spendfolio/src/parsers"
	"github.com/username/spendfolio/src/processors"
)

type compileServiceImpl struct {
	reader parsers.RowReader
}

func NewCompileService(reader parsers.RowReader) CompileService {
	return &compileServiceImpl{reader: reader}
}

// Compile processes files strictly in order and concatenates their records.
// File-level failures are returned as data in the result. The returned error
// is non-nil only when ctx is cancelled, in which case the partial result is
// returned alongside it and no further file is started.
func (s *compileServiceImpl) Compile(ctx context.Context, files []models.FileInput, opts models.CompileOptions) (*models.CompileResult, error) {
	lg := logger.FromContext(ctx)
	policy := opts.FailurePolicy
	if policy == "" {
		policy = models.PerFileIsolation
	}

	result := &models.CompileResult{
		RunID:      uuid.NewString(),
		Records:    []models.NormalizedRecord{},
		FileErrors: []models.FileError{},
		StartedAt:  time.Now().UTC(),
		Policy:     policy,
	}
	lg.Info("Compile START", "runID", result.RunID, "files", len(files), "failurePolicy", policy)

	ids := processors.NewRecordProcessor()
	parseOpts := models.ParseOptions{DefaultSpender: opts.DefaultSpender}

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			result.FinishedAt = time.Now().UTC()
			lg.Warn("Compile cancelled before next file", "runID", result.RunID, "file", file.Meta.Name, "error", err)
			return result, err
		}
		result.FileCount++

		records, err := s.compileFile(file, parseOpts)
		if err != nil {
			lg.Warn("File failed to compile", "runID", result.RunID, "file", file.Meta.Name, "format", file.Meta.Format, "error", err)
			result.FileErrors = append(result.FileErrors, models.FileError{File: file.Meta.Name, Message: err.Error()})
			if policy == models.AllOrNothing {
				result.Records = []models.NormalizedRecord{}
				break
			}
			continue
		}

		result.Records = append(result.Records, ids.Process(file.Meta, records)...)
		lg.Debug("File compiled", "runID", result.RunID, "file", file.Meta.Name, "records", len(records))
	}

	result.FinishedAt = time.Now().UTC()
	lg.Info("Compile END", "runID", result.RunID, "records", len(result.Records), "fileErrors", len(result.FileErrors), "duration", result.FinishedAt.Sub(result.StartedAt))
	return result, nil
}

// compileFile turns one file into records. A panic inside a parser is reported
// as a file error so the rest of the batch is unaffected.
func (s *compileServiceImpl) compileFile(file models.FileInput, opts models.ParseOptions) (records []models.NormalizedRecord, err error) {
	defer func() {
		if r := recover(); r != nil {
			records = nil
			err = fmt.Errorf("unexpected failure while parsing %s: %v", file.Meta.Name, r)
		}
	}()

	parser, err := parsers.GetParser(file.Meta.Format)
	if err != nil {
		return nil, err
	}

	if file.Reader == nil {
		return nil, fmt.Errorf("%w: no content for file %s", parsers.ErrMalformedCSV, file.Meta.Name)
	}
	rows, err := s.reader.ReadRows(file.Reader)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	return parser.Parse(rows, file.Meta, opts)
}
