package validation

import (
	"strings"
	"unicode"
)

// formulaPrefixes make spreadsheet software evaluate a cell.
const formulaPrefixes = "=+-@"

// controlPrefixes are dangerous as the very first character, before any trimming.
const controlPrefixes = "\t\r"

// SanitizeForFormulaInjection prepends a single quote if the text starts with a
// formula character, or with a tab or carriage return.
// Numeric text such as "-54.12" is left alone so amounts stay numbers.
func SanitizeForFormulaInjection(s string) string {
	if s != "" && strings.ContainsRune(controlPrefixes, rune(s[0])) {
		return "'" + s
	}
	trimmed := strings.TrimSpace(s)
	if trimmed == "" || !strings.ContainsRune(formulaPrefixes, rune(trimmed[0])) {
		return s
	}
	if looksNumeric(trimmed) {
		return s
	}
	return "'" + s
}

// StripUnprintable removes non-printable characters, keeping tab, newline and carriage return.
func StripUnprintable(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) || r == '\t' || r == '\n' || r == '\r' {
			return r
		}
		return -1
	}, s)
}

// SanitizeLabel cleans a user-supplied source label or spender name.
func SanitizeLabel(s string, maxLen int) string {
	s = strings.TrimSpace(StripUnprintable(s))
	s = strings.NewReplacer("\t", " ", "\n", " ", "\r", " ").Replace(s)
	if maxLen > 0 && len([]rune(s)) > maxLen {
		s = string([]rune(s)[:maxLen])
	}
	return s
}

func looksNumeric(s string) bool {
	digits := 0
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case (r == '-' || r == '+') && i == 0:
		case r == '.' || r == ',':
		default:
			return false
		}
	}
	return digits > 0
}
