package model

import "time"

type Frequency string

const (
	FrequencyWeekly   Frequency = "WEEKLY"
	FrequencyBiweekly Frequency = "BIWEEKLY"
	FrequencyMonthly  Frequency = "MONTHLY"
)

// DefaultOccurrenceCeiling bounds recurrence expansion when the rule gives
// neither an occurrence count nor an end date, guaranteeing termination.
const DefaultOccurrenceCeiling = 52

// RecurrenceRule describes how a series of future dates is generated from a
// starting slot. OccurrenceCount of zero means "unset"; a nil Until means
// "unset". When both are unset, expansion stops at
// DefaultOccurrenceCeiling dates.
type RecurrenceRule struct {
	Frequency       Frequency  `json:"frequency"`
	OccurrenceCount int        `json:"occurrence_count,omitempty"`
	Until           *time.Time `json:"until,omitempty"`
}
