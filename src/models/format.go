package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownFormat is returned for a format tag outside the supported set.
var ErrUnknownFormat = errors.New("unknown format")

// Format tags the export layout of an input file.
type Format string

const (
	FormatAmex          Format = "AMEX"
	FormatCapitalOne    Format = "CAPITAL_ONE"
	FormatChase         Format = "CHASE"
	FormatChaseBusiness Format = "CHASE_BUSINESS"
	FormatDiscover      Format = "DISCOVER"
	FormatOldNavy       Format = "OLD_NAVY"
	FormatVenmo         Format = "VENMO"
	FormatFidelity      Format = "FIDELITY"
)

// AllFormats lists every supported format tag.
var AllFormats = []Format{
	FormatAmex,
	FormatCapitalOne,
	FormatChase,
	FormatChaseBusiness,
	FormatDiscover,
	FormatOldNavy,
	FormatVenmo,
	FormatFidelity,
}

// Family is the row transformation strategy a format belongs to.
type Family string

const (
	FamilyFixedColumn  Family = "fixed-column"
	FamilyPeerPayment  Family = "peer-payment"
	FamilyContribution Family = "brokerage-contribution"
)

// Family returns the transformer family for f, or "" for an unknown tag.
func (f Format) Family() Family {
	switch f {
	case FormatAmex, FormatCapitalOne, FormatChase, FormatChaseBusiness, FormatDiscover, FormatOldNavy:
		return FamilyFixedColumn
	case FormatVenmo:
		return FamilyPeerPayment
	case FormatFidelity:
		return FamilyContribution
	default:
		return ""
	}
}

// DefaultLabel is the source label used when a file is declared without one.
func (f Format) DefaultLabel() string {
	switch f {
	case FormatAmex:
		return "Amex"
	case FormatCapitalOne:
		return "Capital One"
	case FormatChase:
		return "Chase"
	case FormatChaseBusiness:
		return "Chase Business"
	case FormatDiscover:
		return "Discover"
	case FormatOldNavy:
		return "Old Navy"
	case FormatVenmo:
		return "Venmo"
	case FormatFidelity:
		return "Fidelity"
	default:
		return string(f)
	}
}

// Valid reports whether f is a supported tag.
func (f Format) Valid() bool {
	return f.Family() != ""
}

// ParseFormat accepts a tag case-insensitively; dashes and spaces are read as underscores.
func ParseFormat(s string) (Format, error) {
	normalized := strings.ToUpper(strings.TrimSpace(s))
	normalized = strings.NewReplacer("-", "_", " ", "_").Replace(normalized)
	f := Format(normalized)
	if !f.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
	return f, nil
}
