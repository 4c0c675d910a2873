package processors

import (
	"github.com/username/spendfolio/src/models"
)

// Classifier maps raw item and category text to a member of the closed category set.
type Classifier interface {
	Classify(item, rawCategory string) models.Category
	Explain(item, rawCategory string) (models.Category, string)
}

// RecordFinisher stamps run-scoped data onto one file's parsed records.
type RecordFinisher interface {
	Process(meta models.FileMeta, records []models.NormalizedRecord) []models.NormalizedRecord
}

var (
	_ Classifier     = (*CategoryProcessor)(nil)
	_ RecordFinisher = (*RecordProcessor)(nil)
)
