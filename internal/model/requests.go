package model

import (
	"time"

	"github.com/google/uuid"
)

// RecurrenceCheckRequest asks for the conflict report of a recurring
// series before the caller commits it.
type RecurrenceCheckRequest struct {
	ProfessionalID  uuid.UUID  `json:"professional_id" binding:"required"`
	ResourceID      *uuid.UUID `json:"resource_id"`
	StartTime       time.Time  `json:"start_time" binding:"required"`
	Frequency       Frequency  `json:"frequency" binding:"required,frequency"`
	OccurrenceCount int        `json:"occurrence_count" binding:"omitempty,gt=0"`
	Until           *time.Time `json:"until"`
}

// Rule converts the request's recurrence fields into a RecurrenceRule.
func (r *RecurrenceCheckRequest) Rule() RecurrenceRule {
	return RecurrenceRule{
		Frequency:       r.Frequency,
		OccurrenceCount: r.OccurrenceCount,
		Until:           r.Until,
	}
}

// DatesCheckRequest asks for the conflict report of an explicit list of
// candidate date-times, e.g. a series with holidays already skipped.
type DatesCheckRequest struct {
	ProfessionalID uuid.UUID   `json:"professional_id" binding:"required"`
	ResourceID     *uuid.UUID  `json:"resource_id"`
	Dates          []time.Time `json:"dates" binding:"required,min=1"`
}
