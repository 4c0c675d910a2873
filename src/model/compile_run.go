package model

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

var ErrCompileRunNotFound = errors.New("compile run not found")

// CompileRun is the audit row for one pipeline run. Record contents are never stored.
type CompileRun struct {
	RunID         string             `json:"run_id"`
	SessionID     string             `json:"-"`
	StartedAt     time.Time          `json:"started_at"`
	FinishedAt    time.Time          `json:"finished_at"`
	FileCount     int                `json:"file_count"`
	RecordCount   int                `json:"record_count"`
	ErrorCount    int                `json:"error_count"`
	FailurePolicy string             `json:"failure_policy"`
	FileErrors    []CompileFileError `json:"errors,omitempty"`
}

type CompileFileError struct {
	FileName string `json:"file"`
	Message  string `json:"message"`
}

// CreateCompileRun inserts the run and its file errors in one transaction.
func CreateCompileRun(db *sql.DB, run *CompileRun) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
	INSERT INTO compile_runs (run_id, session_id, started_at, finished_at, file_count, record_count, error_count, failure_policy)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.RunID, run.SessionID, run.StartedAt.UTC(), run.FinishedAt.UTC(),
		run.FileCount, run.RecordCount, run.ErrorCount, run.FailurePolicy)
	if err != nil {
		return fmt.Errorf("insert compile run %s: %w", run.RunID, err)
	}

	if len(run.FileErrors) > 0 {
		stmt, err := tx.Prepare(`INSERT INTO compile_file_errors (run_id, file_name, message) VALUES (?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, fe := range run.FileErrors {
			if _, err := stmt.Exec(run.RunID, fe.FileName, fe.Message); err != nil {
				return fmt.Errorf("insert file error for run %s: %w", run.RunID, err)
			}
		}
	}
	return tx.Commit()
}

// GetCompileRun loads one run with its file errors.
func GetCompileRun(db *sql.DB, runID string) (*CompileRun, error) {
	var run CompileRun
	err := db.QueryRow(`
	SELECT run_id, session_id, started_at, finished_at, file_count, record_count, error_count, failure_policy
	FROM compile_runs WHERE run_id = ?`, runID).Scan(
		&run.RunID, &run.SessionID, &run.StartedAt, &run.FinishedAt,
		&run.FileCount, &run.RecordCount, &run.ErrorCount, &run.FailurePolicy)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrCompileRunNotFound
		}
		return nil, err
	}

	run.FileErrors, err = getFileErrors(db, runID)
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// GetCompileRunsBySession lists a session's runs, newest first, without file errors.
func GetCompileRunsBySession(db *sql.DB, sessionID string, limit int) ([]CompileRun, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.Query(`
	SELECT run_id, session_id, started_at, finished_at, file_count, record_count, error_count, failure_policy
	FROM compile_runs WHERE session_id = ?
	ORDER BY started_at DESC LIMIT ?`, sessionID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := []CompileRun{}
	for rows.Next() {
		var run CompileRun
		if err := rows.Scan(&run.RunID, &run.SessionID, &run.StartedAt, &run.FinishedAt,
			&run.FileCount, &run.RecordCount, &run.ErrorCount, &run.FailurePolicy); err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func getFileErrors(db *sql.DB, runID string) ([]CompileFileError, error) {
	rows, err := db.Query(`SELECT file_name, message FROM compile_file_errors WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CompileFileError
	for rows.Next() {
		var fe CompileFileError
		if err := rows.Scan(&fe.FileName, &fe.Message); err != nil {
			return nil, err
		}
		out = append(out, fe)
	}
	return out, rows.Err()
}
