// src/parsers/venmo/parser.go
package venmo

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/username/spendfolio/src/logger"
	"github.com/username/spendfolio/src/models"
	"github.com/username/spendfolio/src/utils"
)

// ErrHeaderNotFound means no row carried the required statement columns.
var ErrHeaderNotFound = errors.New("venmo header row not found")

const (
	colDatetime = "Datetime"
	colAmount   = "Amount (total)"
	colStatus   = "Status"
	colType     = "Type"
	colNote     = "Note"

	// ItemPlaceholder stands in for an empty note.
	ItemPlaceholder = "(Venmo)"
)

// RequiredColumns must all appear in the header row.
var RequiredColumns = []string{colDatetime, colAmount, colStatus, colType, colNote}

// VenmoParser implements parsers.Parser for Venmo statement exports.
type VenmoParser struct{}

func NewParser() *VenmoParser {
	return &VenmoParser{}
}

// Parse locates the header row (statements prepend account metadata), keeps
// completed transactions only and re-signs amounts by transaction type.
func (p *VenmoParser) Parse(rows [][]string, meta models.FileMeta, opts models.ParseOptions) ([]models.NormalizedRecord, error) {
	if len(rows) == 0 {
		return nil, nil
	}

	headerRow := FindHeaderRow(rows)
	if headerRow < 0 {
		return nil, fmt.Errorf("%w in file: %s", ErrHeaderNotFound, meta.Name)
	}
	header := utils.NewHeaderIndex(rows[headerRow])
	sign := meta.SignOptions()
	source := meta.Label()

	var records []models.NormalizedRecord
	for i := headerRow + 1; i < len(rows); i++ {
		row := rows[i]
		if len(row) == 0 {
			continue
		}

		status := strings.ToLower(header.Get(row, colStatus))
		if !strings.HasPrefix(status, "complete") {
			continue
		}

		rawAmount := header.Get(row, colAmount)
		parsed, ok := utils.ParseAmount(rawAmount)
		if !ok {
			logger.L.Debug("Skipping Venmo row with unparseable amount", "file", meta.Name, "row", i, "amount", rawAmount)
			continue
		}

		item := header.Get(row, colNote)
		if item == "" {
			item = ItemPlaceholder
		}

		records = append(records, models.NormalizedRecord{
			Source:   source,
			Date:     utils.NormalizeDate(header.Get(row, colDatetime)),
			Item:     item,
			Amount:   ApplySign(parsed.Abs(), header.Get(row, colType), sign),
			Category: models.CategoryOther,
			Spender:  opts.DefaultSpender,
		})
	}
	return records, nil
}

// FindHeaderRow returns the index of the first row holding every required column, or -1.
func FindHeaderRow(rows [][]string) int {
	for i, row := range rows {
		if utils.NewHeaderIndex(row).Has(RequiredColumns...) {
			return i
		}
	}
	return -1
}

// ApplySign signs an absolute amount by transaction type. The export's own sign
// is not trusted. Types other than payment and charge stay positive.
func ApplySign(abs decimal.Decimal, txType string, sign models.SignOptions) decimal.Decimal {
	a := abs.Abs()
	switch strings.ToLower(strings.TrimSpace(txType)) {
	case "payment":
		if sign.NegatePayments {
			return a.Neg()
		}
		return a
	case "charge":
		if sign.NegateCharges {
			return a.Neg()
		}
		return a
	default:
		return a
	}
}
