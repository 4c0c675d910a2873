package utils

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DefaultDateFormat is the canonical purchase date layout (MM/DD/YYYY).
const DefaultDateFormat = "01/02/2006"

var usDateTimeRe = regexp.MustCompile(
	`^(\d{1,2})/(\d{1,2})/(\d{2,4})(?:\s+(\d{1,2}):(\d{2})(?::(\d{2}))?\s*(AM|PM|am|pm)?)?$`,
)

// fallbackDateLayouts are tried in order once the US form fails.
var fallbackDateLayouts = []string{
	"2006-01-02",
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006/01/02",
	time.RFC1123Z,
	time.RFC1123,
	"Jan 2, 2006",
	"January 2, 2006",
	"Jan 2 2006",
	"2 Jan 2006",
	"2 January 2006",
	"Mon Jan 2 2006",
}

// ParseUSDateTime reads "M/D/YY[YY]" optionally followed by "H:MM[:SS] [AM|PM]".
// Two-digit years land in 20YY. Out-of-range parts roll over the way
// time.Date normalizes them.
func ParseUSDateTime(s string) (time.Time, bool) {
	str := strings.TrimSpace(s)
	if str == "" {
		return time.Time{}, false
	}

	m := usDateTimeRe.FindStringSubmatch(str)
	if m == nil {
		return time.Time{}, false
	}

	month, _ := strconv.Atoi(m[1])
	day, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	if year < 100 {
		year += 2000
	}

	hour := atoiOrZero(m[4])
	minute := atoiOrZero(m[5])
	second := atoiOrZero(m[6])
	switch strings.ToLower(m[7]) {
	case "pm":
		if hour < 12 {
			hour += 12
		}
	case "am":
		if hour == 12 {
			hour = 0
		}
	}

	return time.Date(year, time.Month(month), day, hour, minute, second, 0, time.UTC), true
}

// ParseAnyDate tries the US form first and then the generic layouts.
func ParseAnyDate(s string) (time.Time, bool) {
	if t, ok := ParseUSDateTime(s); ok {
		return t, true
	}
	str := strings.TrimSpace(s)
	for _, layout := range fallbackDateLayouts {
		if t, err := time.Parse(layout, str); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// NormalizeDate renders a date cell as MM/DD/YYYY, dropping the time of day.
// Text that is not a recognizable date is returned unchanged (after trimming),
// so a blank cell stays blank.
func NormalizeDate(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	if t, ok := ParseAnyDate(s); ok {
		return t.Format(DefaultDateFormat)
	}
	return s
}

func atoiOrZero(s string) int {
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
