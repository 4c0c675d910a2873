package utils

import (
	"regexp"
	"strings"
)

const byteOrderMark = "\uFEFF"

var whitespaceRunRe = regexp.MustCompile(`\s+`)

// NormalizeHeaderKey makes header names comparable: no BOM, trimmed,
// inner whitespace collapsed, lower-cased.
func NormalizeHeaderKey(s string) string {
	s = strings.TrimSpace(strings.ReplaceAll(s, byteOrderMark, ""))
	return strings.ToLower(whitespaceRunRe.ReplaceAllString(s, " "))
}

// NormalizeCell strips a BOM and surrounding whitespace from a data cell.
func NormalizeCell(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, byteOrderMark, ""))
}

// HeaderIndex maps normalized header names to their column. When a name
// repeats, the right-most column wins.
type HeaderIndex map[string]int

// NewHeaderIndex builds the lookup for a header row, ignoring blank names.
func NewHeaderIndex(headerRow []string) HeaderIndex {
	idx := make(HeaderIndex, len(headerRow))
	for i, cell := range headerRow {
		if key := NormalizeHeaderKey(cell); key != "" {
			idx[key] = i
		}
	}
	return idx
}

// Has reports whether every name is present in the header.
func (h HeaderIndex) Has(names ...string) bool {
	for _, name := range names {
		if _, ok := h[NormalizeHeaderKey(name)]; !ok {
			return false
		}
	}
	return true
}

// Get returns the normalized cell under the named column, or "" when the
// column or cell is missing.
func (h HeaderIndex) Get(row []string, name string) string {
	i, ok := h[NormalizeHeaderKey(name)]
	if !ok || i >= len(row) {
		return ""
	}
	return NormalizeCell(row[i])
}
