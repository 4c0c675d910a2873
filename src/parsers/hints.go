package parsers

import (
	"path/filepath"
	"strings"

	"github.com/username/spendfolio/src/models"
)

type filenameHint struct {
	fragment string
	label    string
	format   models.Format
}

// filenameHints are checked in order against the lower-cased file name.
var filenameHints = []filenameHint{
	{"amex-gold", "Amex - Gold", models.FormatAmex},
	{"amex-blue-cash", "Amex - Blue Cash", models.FormatAmex},
	{"capital1-quicksilver", "Capital One - Quick Silver", models.FormatCapitalOne},
	{"capital1-venture", "Capital One - Venture Rewards", models.FormatCapitalOne},
	{"chase-freedom-flex", "Chase - Freedom Flex", models.FormatChase},
	{"chase-ink-preferred", "Chase - Ink Preferred", models.FormatChaseBusiness},
	{"chase-sapphire-preferred", "Chase - Sapphire Preferred", models.FormatChase},
	{"discover", "Discover", models.FormatDiscover},
	{"old-navy", "Old Navy", models.FormatOldNavy},
	{"venmo", "Venmo", models.FormatVenmo},
	{"fidelity", "Fidelity", models.FormatFidelity},
}

// InferMetaFromFilename suggests a label and format from well-known export names.
// Unrecognized files are labelled with their own name and read as Chase exports.
func InferMetaFromFilename(name string) models.FileMeta {
	lower := strings.ToLower(filepath.Base(name))
	for _, h := range filenameHints {
		if strings.Contains(lower, h.fragment) {
			meta := models.FileMeta{Name: name, Source: h.label, Format: h.format}
			if h.format == models.FormatVenmo {
				sign := models.DefaultSignOptions()
				meta.VenmoSign = &sign
			}
			return meta
		}
	}
	return models.FileMeta{Name: name, Source: name, Format: models.FormatChase}
}

// ApplyDeclaredFormat switches meta to a declared format. The existing label
// is kept except for Fidelity, whose records are always labelled as such.
// Venmo sign toggles are reset to the defaults of the new format.
func ApplyDeclaredFormat(meta models.FileMeta, format models.Format) models.FileMeta {
	if format == meta.Format {
		return meta
	}
	meta.Format = format
	if format == models.FormatFidelity {
		meta.Source = ""
	}
	meta.VenmoSign = nil
	if format == models.FormatVenmo {
		sign := models.DefaultSignOptions()
		meta.VenmoSign = &sign
	}
	return meta
}
