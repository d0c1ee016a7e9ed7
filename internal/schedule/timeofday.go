package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/clinicflow/agenda-api/pkg/errors"
)

// ClockTime is a time of day normalized to minutes since midnight. All
// interval and instant comparisons in this package operate on ClockTime;
// the three accepted input shapes (clock strings, full timestamps,
// time.Time values) are converted exactly once, at ingestion.
type ClockTime int

// String renders the canonical "HH:MM" form.
func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

// ClockOf truncates a timestamp to the minute and returns its time of day.
func ClockOf(t time.Time) ClockTime {
	return ClockTime(t.Hour()*60 + t.Minute())
}

// timestampLayouts are tried in order for inputs that carry a date part.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

// ParseClock normalizes a textual time field to ClockTime. Accepted shapes
// are "HH:MM", "HH:MM:SS" and full timestamps (with or without zone).
// Anything else yields a MalformedWindow error; callers skip the record
// rather than failing the computation.
func ParseClock(s string) (ClockTime, error) {
	v := strings.TrimSpace(s)
	if v == "" {
		return 0, apperrors.NewMalformedWindow(s, fmt.Errorf("empty time value"))
	}

	if parts := strings.Split(v, ":"); !strings.ContainsAny(v, "T -") && (len(parts) == 2 || len(parts) == 3) {
		hour, err := strconv.Atoi(parts[0])
		if err != nil {
			return 0, apperrors.NewMalformedWindow(s, err)
		}
		minute, err := strconv.Atoi(parts[1])
		if err != nil {
			return 0, apperrors.NewMalformedWindow(s, err)
		}
		if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
			return 0, apperrors.NewMalformedWindow(s, fmt.Errorf("clock value out of range"))
		}
		return ClockTime(hour*60 + minute), nil
	}

	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return ClockOf(t), nil
		}
	}
	return 0, apperrors.NewMalformedWindow(s, fmt.Errorf("no known layout matched"))
}

// DateOf strips the time portion, keeping the calendar day in t's location.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameDate reports calendar-day equality, ignoring the time portion.
func SameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// At composes a calendar date with a time of day into an instant.
func At(date time.Time, c ClockTime) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), int(c)/60, int(c)%60, 0, 0, date.Location())
}
