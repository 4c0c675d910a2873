package fixedcolumn

import (
	"github.com/username/spendfolio/src/models"
)

// NoColumn marks a field the export does not carry.
const NoColumn = -1

// Profile describes where one card export keeps each field and which quirks apply.
type Profile struct {
	Format        models.Format
	DateIndex     int
	ItemIndex     int
	CategoryIndex int
	AmountIndex   int
	SpenderIndex  int

	// InvertSign negates amounts for exports that report spend as positive.
	InvertSign bool
	// FixedCategory, when set, replaces classification for every row.
	FixedCategory models.Category
	// FilterPayments drops balance repayment lines.
	FilterPayments bool
}

var profiles = map[models.Format]Profile{
	models.FormatAmex: {
		Format:         models.FormatAmex,
		DateIndex:      0,
		ItemIndex:      1,
		CategoryIndex:  12,
		AmountIndex:    4,
		SpenderIndex:   2,
		FilterPayments: true,
	},
	models.FormatCapitalOne: {
		Format:         models.FormatCapitalOne,
		DateIndex:      0,
		ItemIndex:      3,
		CategoryIndex:  4,
		AmountIndex:    5,
		SpenderIndex:   NoColumn,
		FilterPayments: true,
	},
	models.FormatChase: {
		Format:         models.FormatChase,
		DateIndex:      0,
		ItemIndex:      2,
		CategoryIndex:  3,
		AmountIndex:    5,
		SpenderIndex:   NoColumn,
		InvertSign:     true,
		FilterPayments: true,
	},
	models.FormatChaseBusiness: {
		Format:         models.FormatChaseBusiness,
		DateIndex:      1,
		ItemIndex:      3,
		CategoryIndex:  5,
		AmountIndex:    6,
		SpenderIndex:   NoColumn,
		InvertSign:     true,
		FilterPayments: true,
	},
	models.FormatDiscover: {
		Format:         models.FormatDiscover,
		DateIndex:      0,
		ItemIndex:      2,
		CategoryIndex:  4,
		AmountIndex:    3,
		SpenderIndex:   NoColumn,
		FilterPayments: true,
	},
	models.FormatOldNavy: {
		Format:         models.FormatOldNavy,
		DateIndex:      0,
		ItemIndex:      1,
		CategoryIndex:  NoColumn,
		AmountIndex:    3,
		SpenderIndex:   NoColumn,
		InvertSign:     true,
		FixedCategory:  models.CategoryShopping,
		FilterPayments: true,
	},
}

// ProfileFor returns the profile of a fixed-column format.
func ProfileFor(format models.Format) (Profile, bool) {
	p, ok := profiles[format]
	return p, ok
}
