package fidelity

import (
	"strings"

	"github.com/username/spendfolio/src/logger"
	"github.com/username/spendfolio/src/models"
	"github.com/username/spendfolio/src/utils"
)

const (
	colRunDate        = "Run Date"
	colSettlementDate = "Settlement Date"
	colAction         = "Action"
	colType           = "Type"
	colSymbol         = "Symbol"
	colDescription    = "Description"
	colAmount         = "Amount ($)"

	// ItemPlaceholder is used when a contribution has neither description nor symbol.
	ItemPlaceholder = "(Fidelity Contribution)"
)

// FidelityParser implements parsers.Parser for brokerage activity exports.
// Only contributions are kept; trades, dividends and fees are not spending.
type FidelityParser struct{}

// NewParser creates a new instance of the FidelityParser.
func NewParser() *FidelityParser {
	return &FidelityParser{}
}

// Parse reads the header from the first row and emits one record per contribution.
func (p *FidelityParser) Parse(rows [][]string, meta models.FileMeta, opts models.ParseOptions) ([]models.NormalizedRecord, error) {
	if len(rows) == 0 {
		return nil, nil
	}

	header := utils.NewHeaderIndex(rows[0])
	source := meta.Label()

	var records []models.NormalizedRecord
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if len(row) == 0 {
			continue
		}

		if !IsContribution(header.Get(row, colType), header.Get(row, colAction)) {
			continue
		}

		rawAmount := header.Get(row, colAmount)
		amount, ok := utils.ParseAmount(rawAmount)
		if !ok {
			logger.L.Debug("Skipping contribution with unparseable amount", "file", meta.Name, "row", i, "amount", rawAmount)
			continue
		}

		date := header.Get(row, colSettlementDate)
		if date == "" {
			date = header.Get(row, colRunDate)
		}

		records = append(records, models.NormalizedRecord{
			Source:   source,
			Date:     utils.NormalizeDate(date),
			Item:     firstNonEmpty(header.Get(row, colDescription), header.Get(row, colSymbol), ItemPlaceholder),
			Amount:   amount.Abs(),
			Category: models.CategoryInvestments,
			Spender:  opts.DefaultSpender,
		})
	}
	return records, nil
}

// IsContribution accepts a "Contributions" type or any action mentioning a contribution.
func IsContribution(txType, action string) bool {
	return utils.NormalizeHeaderKey(txType) == "contributions" ||
		strings.Contains(utils.NormalizeHeaderKey(action), "contribution")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
