package models

import (
	"io"
	"time"
)

// FailurePolicy decides what a file-level error does to the rest of a run.
type FailurePolicy string

const (
	// PerFileIsolation keeps the records of every good file and reports each bad one.
	PerFileIsolation FailurePolicy = "isolate"
	// AllOrNothing voids the whole run at the first file error.
	AllOrNothing FailurePolicy = "all-or-nothing"
)

// ParseFailurePolicy maps a configuration string to a policy, defaulting to isolation.
func ParseFailurePolicy(s string) FailurePolicy {
	switch FailurePolicy(s) {
	case AllOrNothing:
		return AllOrNothing
	default:
		return PerFileIsolation
	}
}

// FileInput is one file handed to the pipeline together with its declared metadata.
type FileInput struct {
	Meta   FileMeta
	Reader io.Reader
}

// CompileOptions are the run-wide settings of a compilation.
type CompileOptions struct {
	DefaultSpender string
	FailurePolicy  FailurePolicy
}

// FileError is a file-scoped failure reported alongside the run's records.
type FileError struct {
	File    string `json:"file"`
	Message string `json:"message"`
}

func (e FileError) Error() string {
	return e.File + ": " + e.Message
}

// CompileResult is the output of one compilation run.
type CompileResult struct {
	RunID      string             `json:"run_id"`
	Records    []NormalizedRecord `json:"records"`
	FileErrors []FileError        `json:"errors"`
	FileCount  int                `json:"file_count"`
	StartedAt  time.Time          `json:"started_at"`
	FinishedAt time.Time          `json:"finished_at"`
	Policy     FailurePolicy      `json:"failure_policy"`
}

// HasErrors reports whether any file failed.
func (r *CompileResult) HasErrors() bool {
	return len(r.FileErrors) > 0
}
