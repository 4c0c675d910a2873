// src/parsers/parser.go
package parsers

import (
	"github.com/username/spendfolio/src/models"
)

// Parser turns the rows of one file into normalized records. Implementations
// leave NormalizedRecord.ID empty; the orchestrator assigns identifiers.
type Parser interface {
	Parse(rows [][]string, meta models.FileMeta, opts models.ParseOptions) ([]models.NormalizedRecord, error)
}
