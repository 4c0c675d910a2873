package utils

import (
	"math"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	// "+ 89.00", "-20", "- .5": an explicit sign, optional whitespace, then the magnitude.
	signedAmountRe = regexp.MustCompile(`^([+-])\s*(\d+(?:\.\d+)?|\.\d+)$`)
	// Longest numeric prefix, the way a lenient float parser reads "12.50 USD".
	leadingNumberRe = regexp.MustCompile(`^([+-]?)(\d+(?:\.\d*)?|\.\d+)((?:[eE][+-]?\d+)?)`)

	amountNoise = strings.NewReplacer(`"`, "", "'", "", "$", "", ",", "")
)

// maxAmountExponent bounds the decimal exponent of a parsed amount to the float64 range.
const maxAmountExponent = 308

// ParseAmount converts an exported amount cell into a signed decimal.
// It understands currency symbols, thousands separators, surrounding quotes,
// "(12.00)" negatives and a sign separated from the digits by whitespace.
// The second return value is false when the cell holds no number at all;
// callers skip such rows rather than treating them as zero.
func ParseAmount(raw string) (decimal.Decimal, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero, false
	}

	parenNegative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") && len(s) >= 2 {
		parenNegative = true
		s = strings.TrimSpace(s[1 : len(s)-1])
	}

	s = strings.TrimSpace(amountNoise.Replace(s))

	var (
		value decimal.Decimal
		ok    bool
	)
	if m := signedAmountRe.FindStringSubmatch(s); m != nil {
		value, ok = parseMagnitude(m[1], m[2])
	} else if m := leadingNumberRe.FindStringSubmatch(s); m != nil {
		value, ok = parseMagnitude(m[1], strings.TrimSuffix(m[2], ".")+m[3])
	}
	if !ok {
		return decimal.Zero, false
	}

	if parenNegative {
		value = value.Abs().Neg()
	}
	return value, true
}

// InvertAmount parses like ParseAmount and negates the result. It is used for
// exports that report spend as a positive number.
func InvertAmount(raw string) (decimal.Decimal, bool) {
	value, ok := ParseAmount(raw)
	if !ok {
		return decimal.Zero, false
	}
	return value.Neg(), true
}

func parseMagnitude(sign, digits string) (decimal.Decimal, bool) {
	magnitude, err := decimal.NewFromString(digits)
	if err != nil {
		return decimal.Zero, false
	}
	if !withinFloatRange(magnitude) {
		return decimal.Zero, false
	}
	if sign == "-" {
		magnitude = magnitude.Neg()
	}
	return magnitude, true
}

// withinFloatRange rejects values such as "1e50000000" whose text form would
// expand to millions of digits. The exponent is checked before any conversion.
func withinFloatRange(d decimal.Decimal) bool {
	exp := d.Exponent()
	if exp > maxAmountExponent || exp < -maxAmountExponent {
		return false
	}
	return !math.IsInf(d.InexactFloat64(), 0)
}
