// src/models/canonical.go
package models

import (
	"github.com/shopspring/decimal"
)

// NormalizedRecord is the unified output row of a compilation run.
// Parsers populate everything except ID, which the orchestrator assigns once the
// record's position in the run is known.
type NormalizedRecord struct {
	ID       string          `json:"id"`
	Source   string          `json:"source"`
	Date     string          `json:"date"` // MM/DD/YYYY, or the raw text when unparseable
	Item     string          `json:"item"`
	Amount   decimal.Decimal `json:"amount"` // negative = outflow, positive = inflow
	Category Category        `json:"category"`
	Spender  string          `json:"spender"`
}

// SignOptions flips the polarity of peer-payment rows per file.
type SignOptions struct {
	NegatePayments bool `json:"negatePayments"`
	NegateCharges  bool `json:"negateCharges"`
}

// DefaultSignOptions keeps payments positive and turns charges negative.
func DefaultSignOptions() SignOptions {
	return SignOptions{NegatePayments: false, NegateCharges: true}
}

// FileMeta is what the caller declares about a single input file.
type FileMeta struct {
	Name      string       `json:"filename"`
	Source    string       `json:"source"`
	Format    Format       `json:"format"`
	VenmoSign *SignOptions `json:"venmoSign,omitempty"`
}

// Label returns the declared source label, or the format's default label when none was given.
func (m FileMeta) Label() string {
	if m.Source != "" {
		return m.Source
	}
	return m.Format.DefaultLabel()
}

// SignOptions returns the declared peer-payment toggles or the defaults.
func (m FileMeta) SignOptions() SignOptions {
	if m.VenmoSign != nil {
		return *m.VenmoSign
	}
	return DefaultSignOptions()
}

// ParseOptions carries run-wide settings every parser needs.
type ParseOptions struct {
	DefaultSpender string
}
