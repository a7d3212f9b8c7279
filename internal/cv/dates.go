package cv

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateParseError is returned when none of the supported formats match.
type DateParseError struct {
	Input string
}

func (e *DateParseError) Error() string {
	return fmt.Sprintf("cannot parse date %q", e.Input)
}

// DateFormat is a single parse attempt in the fallback chain.
type DateFormat struct {
	Name  string
	Parse func(s string) (time.Time, bool)
}

var monthNames = map[string]time.Month{
	"jan": time.January, "january": time.January,
	"feb": time.February, "february": time.February,
	"mar": time.March, "march": time.March,
	"apr": time.April, "april": time.April,
	"may": time.May,
	"jun": time.June, "june": time.June,
	"jul": time.July, "july": time.July,
	"aug": time.August, "august": time.August,
	"sep": time.September, "september": time.September,
	"oct": time.October, "october": time.October,
	"nov": time.November, "november": time.November,
	"dec": time.December, "december": time.December,
}

// DateFormats returns the supported formats in the order ParseDate tries them.
func DateFormats() []DateFormat {
	return []DateFormat{
		// month and day take one or two digits
		{Name: "full", Parse: layout("2006-1-2")},
		{Name: "year-month", Parse: layout("2006-1")},
		{Name: "year", Parse: layout("2006")},
		{Name: "month-year", Parse: parseMonthYear},
	}
}

// ParseDate parses a free-form date, returning the first format that matches.
// Missing day and month default to 1.
func ParseDate(text string) (time.Time, error) {
	s := strings.TrimSpace(text)
	for _, f := range DateFormats() {
		if t, ok := f.Parse(s); ok {
			return t, nil
		}
	}

	return time.Time{}, &DateParseError{Input: text}
}

func layout(l string) func(string) (time.Time, bool) {
	return func(s string) (time.Time, bool) {
		t, err := time.Parse(l, s)
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	}
}

// parseMonthYear accepts "Sep 2024", "September 2024" and "Sep, 2024".
func parseMonthYear(s string) (time.Time, bool) {
	parts := strings.Fields(s)
	if len(parts) != 2 {
		return time.Time{}, false
	}

	month, ok := monthNames[strings.Trim(strings.ToLower(parts[0]), ",")]
	if !ok {
		return time.Time{}, false
	}

	yearText := parts[1]
	if len(yearText) != 4 || strings.IndexFunc(yearText, notDigit) != -1 {
		return time.Time{}, false
	}
	year, err := strconv.Atoi(yearText)
	if err != nil || year < 1 {
		return time.Time{}, false
	}

	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC), true
}

func notDigit(r rune) bool {
	return r < '0' || r > '9'
}
