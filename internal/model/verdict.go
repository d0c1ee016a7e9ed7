package model

import (
	"time"

	"github.com/google/uuid"
)

type VerdictStatus string

const (
	VerdictAvailable   VerdictStatus = "AVAILABLE"
	VerdictBooked      VerdictStatus = "BOOKED"
	VerdictUnavailable VerdictStatus = "UNAVAILABLE"
)

type AttendanceMode string

const (
	ModeInPerson AttendanceMode = "in_person"
	ModeRemote   AttendanceMode = "remote"
)

// Stable reason strings. The booking UI renders these as tooltips and the
// tests assert on them, so changing one is a breaking change.
const (
	ReasonAvailableInPerson = "Available for in-person attendance"
	ReasonAvailableRemote   = "Available for remote attendance"
	ReasonBookedInPerson    = "Slot already has an in-person appointment"
	ReasonBookedRemote      = "Slot already has a remote appointment"
	ReasonOffDuty           = "Professional is off duty"
	ReasonUnconfigured      = "Professional does not see patients at this time"
	ReasonVerifyError       = "error verifying availability"
)

// ConflictDetail carries enough of the conflicting booking to render a
// user-facing explanation without another lookup.
type ConflictDetail struct {
	BookingID        uuid.UUID `json:"booking_id"`
	PatientName      string    `json:"patient_name,omitempty"`
	ProfessionalName string    `json:"professional_name,omitempty"`
	ServiceName      string    `json:"service_name,omitempty"`
	StartTime        time.Time `json:"start_time"`
}

// SlotVerdict is the engine's sole output type: the three-way
// classification of one (professional, resource?, date, time-of-day) slot.
type SlotVerdict struct {
	Status   VerdictStatus   `json:"status"`
	Reason   string          `json:"reason"`
	Mode     AttendanceMode  `json:"mode,omitempty"`
	Conflict *ConflictDetail `json:"conflict,omitempty"`
}

// SlotCheck pairs a time-of-day with its verdict inside a day sweep.
type SlotCheck struct {
	Time    string      `json:"time"`
	Verdict SlotVerdict `json:"verdict"`
}

type ConflictKind string

const (
	ConflictBooked      ConflictKind = "BOOKED"
	ConflictUnavailable ConflictKind = "UNAVAILABLE"
)

// DateConflict is one non-available occurrence inside a series sweep.
type DateConflict struct {
	Date     time.Time       `json:"date"`
	Display  string          `json:"display"`
	Kind     ConflictKind    `json:"kind"`
	Reason   string          `json:"reason"`
	Conflict *ConflictDetail `json:"conflict,omitempty"`
}

// SeriesReport summarizes a recurring-series or explicit-list sweep. It is
// advisory only; nothing is booked or mutated by producing it.
type SeriesReport struct {
	Conflicts      []DateConflict `json:"conflicts"`
	TotalConflicts int            `json:"total_conflicts"`
	TotalDates     int            `json:"total_dates"`
}

// ProfessionalSlot is one professional's verdict inside a
// "who is free at time T" batch query.
type ProfessionalSlot struct {
	ProfessionalID uuid.UUID   `json:"professional_id"`
	Verdict        SlotVerdict `json:"verdict"`
}
