// src/services/export_service.go
package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/username/spendfolio/src/models"
	"github.com/username/spendfolio/src/security/validation"
	"github.com/username/spendfolio/src/utils"
)

// ExportFilename is the attachment name of the compiled CSV.
const ExportFilename = "compiled-card-spending.csv"

// ExportHeader is the fixed header row of the compiled CSV.
var ExportHeader = []string{"Source", "Purchase Date", "Item", "Amount", "Category", "Spender"}

type exportServiceImpl struct {
	sanitizeFormulas bool
}

// NewExportService returns an exporter. With sanitizeFormulas set, text cells
// that a spreadsheet would evaluate are prefixed with a quote.
func NewExportService(sanitizeFormulas bool) ExportService {
	return &exportServiceImpl{sanitizeFormulas: sanitizeFormulas}
}

// WriteCSV writes the header and one row per record, in the order given.
func (s *exportServiceImpl) WriteCSV(w io.Writer, records []models.NormalizedRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ExportHeader); err != nil {
		return fmt.Errorf("error writing export header: %w", err)
	}
	for _, r := range records {
		row := []string{
			s.text(r.Source),
			s.text(r.Date),
			s.text(r.Item),
			r.Amount.String(),
			string(r.Category),
			s.text(r.Spender),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("error writing export row %s: %w", r.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func (s *exportServiceImpl) text(v string) string {
	if s.sanitizeFormulas {
		return validation.SanitizeForFormulaInjection(v)
	}
	return v
}

// SortKey names a column records can be ordered by.
type SortKey string

const (
	SortBySource   SortKey = "source"
	SortByDate     SortKey = "date"
	SortByItem     SortKey = "item"
	SortByAmount   SortKey = "amount"
	SortByCategory SortKey = "category"
	SortBySpender  SortKey = "spender"
)

// ParseSortKey reads a key such as "date" or "-amount"; a leading "-" means descending.
func ParseSortKey(s string) (SortKey, bool, error) {
	s = strings.TrimSpace(s)
	desc := strings.HasPrefix(s, "-")
	key := SortKey(strings.ToLower(strings.TrimPrefix(s, "-")))
	switch key {
	case SortBySource, SortByDate, SortByItem, SortByAmount, SortByCategory, SortBySpender:
		return key, desc, nil
	default:
		return "", false, fmt.Errorf("unknown sort key %q", s)
	}
}

// SortRecords returns a stably sorted copy. Dates compare chronologically when
// both sides parse and fall back to case-insensitive text otherwise.
func SortRecords(records []models.NormalizedRecord, key SortKey, desc bool) []models.NormalizedRecord {
	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, func(a, b models.NormalizedRecord) int {
		c := compareRecords(a, b, key)
		if desc {
			return -c
		}
		return c
	})
	return sorted
}

func compareRecords(a, b models.NormalizedRecord, key SortKey) int {
	switch key {
	case SortByAmount:
		return a.Amount.Cmp(b.Amount)
	case SortByDate:
		ta, okA := utils.ParseAnyDate(a.Date)
		tb, okB := utils.ParseAnyDate(b.Date)
		if okA && okB {
			return ta.Compare(tb)
		}
		return compareText(a.Date, b.Date)
	case SortBySource:
		return compareText(a.Source, b.Source)
	case SortByItem:
		return compareText(a.Item, b.Item)
	case SortByCategory:
		return compareText(string(a.Category), string(b.Category))
	case SortBySpender:
		return compareText(a.Spender, b.Spender)
	default:
		return 0
	}
}

func compareText(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}
