package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicflow/agenda-api/internal/model"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestExpandWeeklyWithCount(t *testing.T) {
	dates := ExpandRecurrence(date(2024, 3, 4), model.RecurrenceRule{
		Frequency:       model.FrequencyWeekly,
		OccurrenceCount: 5,
	})

	require.Len(t, dates, 5)
	for i, d := range dates {
		assert.Equal(t, date(2024, 3, 4).AddDate(0, 0, 7*i), d)
	}
}

func TestExpandBiweeklyWithUntil(t *testing.T) {
	until := date(2024, 4, 1)
	dates := ExpandRecurrence(date(2024, 3, 4), model.RecurrenceRule{
		Frequency: model.FrequencyBiweekly,
		Until:     &until,
	})

	// 04-01 is inclusive; 04-15 exceeds the bound.
	assert.Equal(t, []time.Time{date(2024, 3, 4), date(2024, 3, 18), date(2024, 4, 1)}, dates)
}

func TestExpandMonthlyDefaultCeiling(t *testing.T) {
	dates := ExpandRecurrence(date(2024, 3, 4), model.RecurrenceRule{
		Frequency: model.FrequencyMonthly,
	})
	assert.Len(t, dates, model.DefaultOccurrenceCeiling)
}

func TestExpandCountCappedByCeiling(t *testing.T) {
	dates := ExpandRecurrence(date(2024, 3, 4), model.RecurrenceRule{
		Frequency:       model.FrequencyWeekly,
		OccurrenceCount: 500,
	})
	assert.Len(t, dates, model.DefaultOccurrenceCeiling)
}

func TestExpandMonthlyClampsDayOfMonth(t *testing.T) {
	dates := ExpandRecurrence(date(2024, 1, 31), model.RecurrenceRule{
		Frequency:       model.FrequencyMonthly,
		OccurrenceCount: 4,
	})

	// 2024 is a leap year; the 31st clamps to each month's last day and
	// never spills into the following month.
	assert.Equal(t, []time.Time{
		date(2024, 1, 31),
		date(2024, 2, 29),
		date(2024, 3, 31),
		date(2024, 4, 30),
	}, dates)
}

func TestExpandAlwaysContainsStart(t *testing.T) {
	until := date(2024, 3, 4)
	dates := ExpandRecurrence(date(2024, 3, 4), model.RecurrenceRule{
		Frequency: model.FrequencyWeekly,
		Until:     &until,
	})
	assert.Equal(t, []time.Time{date(2024, 3, 4)}, dates)
}

func TestExpandStripsTimePortion(t *testing.T) {
	start := time.Date(2024, 3, 4, 10, 30, 0, 0, time.UTC)
	dates := ExpandRecurrence(start, model.RecurrenceRule{
		Frequency:       model.FrequencyWeekly,
		OccurrenceCount: 2,
	})
	assert.Equal(t, []time.Time{date(2024, 3, 4), date(2024, 3, 11)}, dates)
}

func TestExpandStrictlyIncreasing(t *testing.T) {
	for _, freq := range []model.Frequency{model.FrequencyWeekly, model.FrequencyBiweekly, model.FrequencyMonthly} {
		dates := ExpandRecurrence(date(2024, 1, 31), model.RecurrenceRule{Frequency: freq, OccurrenceCount: 24})
		for i := 1; i < len(dates); i++ {
			assert.True(t, dates[i].After(dates[i-1]), "freq=%s i=%d", freq, i)
		}
	}
}
