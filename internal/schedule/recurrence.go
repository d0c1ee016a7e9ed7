package schedule

import (
	"time"

	"github.com/clinicflow/agenda-api/internal/model"
)

// ExpandRecurrence generates the ordered, strictly increasing sequence of
// dates a recurring series occupies, starting at start's calendar day. The
// sequence is never empty: the start date itself is always the first
// element. Expansion stops at the tightest of the rule's occurrence count,
// its inclusive end date, and the default ceiling of 52 occurrences, so it
// always terminates.
func ExpandRecurrence(start time.Time, rule model.RecurrenceRule) []time.Time {
	limit := model.DefaultOccurrenceCeiling
	if rule.OccurrenceCount > 0 && rule.OccurrenceCount < limit {
		limit = rule.OccurrenceCount
	}

	first := DateOf(start)
	dates := make([]time.Time, 0, limit)
	dates = append(dates, first)

	for step := 1; len(dates) < limit; step++ {
		next := advance(first, rule.Frequency, step)
		if rule.Until != nil && next.After(DateOf(*rule.Until)) {
			break
		}
		dates = append(dates, next)
	}
	return dates
}

// advance computes the step'th occurrence after the anchor date. Weekly and
// biweekly steps are plain day arithmetic. Monthly steps keep the anchor's
// day-of-month, clamping to the last day of shorter months, so an
// anchor on the 31st lands on Feb 29/28 rather than spilling into March.
func advance(anchor time.Time, freq model.Frequency, step int) time.Time {
	switch freq {
	case model.FrequencyWeekly:
		return anchor.AddDate(0, 0, 7*step)
	case model.FrequencyBiweekly:
		return anchor.AddDate(0, 0, 14*step)
	case model.FrequencyMonthly:
		return addMonthsClamped(anchor, step)
	default:
		return anchor.AddDate(0, 0, 7*step)
	}
}

func addMonthsClamped(anchor time.Time, months int) time.Time {
	year, month, day := anchor.Date()
	target := time.Date(year, month+time.Month(months), 1, 0, 0, 0, 0, anchor.Location())
	if last := daysInMonth(target.Year(), target.Month()); day > last {
		day = last
	}
	return time.Date(target.Year(), target.Month(), day, 0, 0, 0, 0, anchor.Location())
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
