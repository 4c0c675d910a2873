// src/processors/record_processor.go
package processors

import (
	"fmt"

	"github.com/username/spendfolio/src/logger"
	"github.com/username/spendfolio/src/models"
)

// RecordProcessor finishes parser output for one run. It owns the run-wide
// identifier counter, so a single instance must not be shared between runs.
type RecordProcessor struct {
	counter int
}

func NewRecordProcessor() *RecordProcessor { return &RecordProcessor{} }

// Process assigns identifiers to one file's records and guards the category invariant.
// Identifiers are "<label>__<file name>__<counter>" with the counter continuing across files.
func (p *RecordProcessor) Process(meta models.FileMeta, records []models.NormalizedRecord) []models.NormalizedRecord {
	label := meta.Label()
	processed := make([]models.NormalizedRecord, 0, len(records))
	for _, rec := range records {
		rec.ID = fmt.Sprintf("%s__%s__%d", label, meta.Name, p.counter)
		p.counter++

		if !rec.Category.Valid() {
			logger.L.Warn("Record category outside the closed set, using Other", "id", rec.ID, "category", rec.Category)
			rec.Category = models.CategoryOther
		}
		processed = append(processed, rec)
	}
	return processed
}

// Assigned returns how many identifiers have been handed out.
func (p *RecordProcessor) Assigned() int {
	return p.counter
}
