package cv

import (
	"errors"
	"math"
	"strings"
	"time"
)

const (
	daysPerYear   = 365.25
	secondsPerDay = 24 * 60 * 60
)

// ErrNonPositiveDuration marks an entry whose end date is not after its start date.
var ErrNonPositiveDuration = errors.New("end date is not after start date")

var openEnded = map[string]struct{}{
	"present": {},
	"current": {},
	"ongoing": {},
	"now":     {},
}

// IsOpenEnded reports whether the end date is one of the "still employed" sentinels.
func IsOpenEnded(endDate string) bool {
	_, ok := openEnded[strings.ToLower(strings.TrimSpace(endDate))]
	return ok
}

// EntryDays returns the number of whole days covered by a single entry.
// Open-ended entries are measured against now.
func EntryDays(entry WorkExperience, now time.Time) (int, error) {
	start, err := ParseDate(entry.StartDate)
	if err != nil {
		return 0, err
	}

	var end time.Time
	if IsOpenEnded(entry.EndDate) {
		end = wallClockUTC(now)
	} else if end, err = ParseDate(entry.EndDate); err != nil {
		return 0, err
	}

	// Sub saturates past ~292 years
	days := int((end.Unix() - start.Unix()) / secondsPerDay)
	if days <= 0 {
		return 0, ErrNonPositiveDuration
	}

	return days, nil
}

// ExperienceYears sums the duration of every usable entry and converts it to
// years rounded to one decimal. Overlapping entries are not merged.
func ExperienceYears(entries []WorkExperience, now time.Time) float64 {
	total := 0
	for _, entry := range entries {
		days, err := EntryDays(entry, now)
		if err != nil {
			continue
		}
		total += days
	}

	return math.Round(float64(total)/daysPerYear*10) / 10
}

// wallClockUTC keeps the calendar reading of t but moves it to UTC, the
// location ParseDate produces.
func wallClockUTC(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}
