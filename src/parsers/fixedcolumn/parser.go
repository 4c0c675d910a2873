// src/parsers/fixedcolumn/parser.go
package fixedcolumn

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/username/spendfolio/src/logger"
	"github.com/username/spendfolio/src/models"
	"github.com/username/spendfolio/src/utils"
)

// Classifier resolves a category from raw item and category text and names the deciding rule.
type Classifier interface {
	Explain(item, rawCategory string) (models.Category, string)
}

// paymentMarkers flag a repayment line when found in the item or category text.
var paymentMarkers = []string{"Payment", "ONLINE PAYMENT", "ONLINE PYMT"}

// FixedColumnParser handles card exports whose fields sit at fixed column positions.
type FixedColumnParser struct {
	profile    Profile
	classifier Classifier
}

func NewParser(profile Profile, classifier Classifier) *FixedColumnParser {
	return &FixedColumnParser{profile: profile, classifier: classifier}
}

// Parse skips the header row and emits at most one record per data row.
func (p *FixedColumnParser) Parse(rows [][]string, meta models.FileMeta, opts models.ParseOptions) ([]models.NormalizedRecord, error) {
	if len(rows) == 0 {
		return nil, nil
	}

	source := meta.Label()
	var records []models.NormalizedRecord
	for lineNo, row := range rows[1:] {
		rawDate := cell(row, p.profile.DateIndex)
		rawCategory := cell(row, p.profile.CategoryIndex)
		rawItem := cell(row, p.profile.ItemIndex)
		rawAmount := cell(row, p.profile.AmountIndex)

		if p.profile.FilterPayments && IsPayment(rawItem, rawCategory) {
			logger.L.Debug("Skipping payment line", "file", meta.Name, "row", lineNo+1, "item", rawItem)
			continue
		}

		amount, ok := p.parseAmount(rawAmount)
		if !ok {
			logger.L.Debug("Skipping row with unparseable amount", "file", meta.Name, "row", lineNo+1, "amount", rawAmount)
			continue
		}

		category := p.profile.FixedCategory
		if category == "" {
			var rule string
			category, rule = p.classifier.Explain(rawItem, rawCategory)
			logger.L.Debug("Classified row", "file", meta.Name, "row", lineNo+1, "item", rawItem, "rule", rule, "category", category)
		}

		spender := cell(row, p.profile.SpenderIndex)
		if spender == "" {
			spender = opts.DefaultSpender
		}

		records = append(records, models.NormalizedRecord{
			Source:   source,
			Date:     utils.NormalizeDate(rawDate),
			Item:     rawItem,
			Amount:   amount,
			Category: category,
			Spender:  spender,
		})
	}
	return records, nil
}

func (p *FixedColumnParser) parseAmount(raw string) (decimal.Decimal, bool) {
	if p.profile.InvertSign {
		return utils.InvertAmount(raw)
	}
	return utils.ParseAmount(raw)
}

// IsPayment reports whether a row is the cardholder paying down the balance.
// Matching is case-sensitive, following the exporters' own spelling.
func IsPayment(rawItem, rawCategory string) bool {
	for _, marker := range paymentMarkers {
		if strings.Contains(rawItem, marker) || strings.Contains(rawCategory, marker) {
			return true
		}
	}
	return strings.Contains(rawCategory, "PAYMENT")
}

func cell(row []string, index int) string {
	if index < 0 || index >= len(row) {
		return ""
	}
	return row[index]
}
