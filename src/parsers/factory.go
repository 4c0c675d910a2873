// src/parsers/factory.go
package parsers

import (
	"fmt"

	"github.com/username/spendfolio/src/models"
	"github.com/username/spendfolio/src/parsers/fidelity"
	"github.com/username/spendfolio/src/parsers/fixedcolumn"
	"github.com/username/spendfolio/src/parsers/venmo"
	"github.com/username/spendfolio/src/processors"
)

// ErrHeaderNotFound is returned when a header-driven export lacks its required columns.
var ErrHeaderNotFound = venmo.ErrHeaderNotFound

func GetParser(format models.Format) (Parser, error) {
	switch format.Family() {
	case models.FamilyFixedColumn:
		profile, ok := fixedcolumn.ProfileFor(format)
		if !ok {
			return nil, fmt.Errorf("no column profile for format %s: %w", format, models.ErrUnknownFormat)
		}
		return fixedcolumn.NewParser(profile, processors.NewCategoryProcessor()), nil
	case models.FamilyPeerPayment:
		return venmo.NewParser(), nil
	case models.FamilyContribution:
		return fidelity.NewParser(), nil
	default:
		return nil, fmt.Errorf("no parser available for format %q: %w", format, models.ErrUnknownFormat)
	}
}
