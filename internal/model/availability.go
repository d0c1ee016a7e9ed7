package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type WindowKind string

const (
	WindowKindInPerson WindowKind = "in_person"
	WindowKindRemote   WindowKind = "remote"
	WindowKindOff      WindowKind = "off"
)

// NormalizeWindowKind maps the stored kind value, including the legacy
// "disponivel" spelling, onto a WindowKind. Unknown values map to
// WindowKindOff so a corrupt record never opens a slot.
func NormalizeWindowKind(s string) WindowKind {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "in_person", "presencial", "disponivel":
		return WindowKindInPerson
	case "remote", "remoto", "online":
		return WindowKindRemote
	default:
		return WindowKindOff
	}
}

// AvailabilityWindow is a declared block of time during which a professional
// is in a particular attendance mode. Exactly one of RecurrenceDay or
// SpecificDate is set: a weekly window repeats on that weekday, a
// specific-date window applies to that date only and overrides any weekly
// window for the same professional and time.
//
// StartTime and EndTime are stored as text and may arrive as "HH:MM",
// "HH:MM:SS" or a full timestamp; they are normalized by the schedule
// package before any comparison.
type AvailabilityWindow struct {
	ID             uuid.UUID  `db:"id" json:"id"`
	ProfessionalID uuid.UUID  `db:"professional_id" json:"professional_id"`
	Kind           WindowKind `db:"kind" json:"kind"`
	StartTime      string     `db:"start_time" json:"start_time"`
	EndTime        string     `db:"end_time" json:"end_time"`
	RecurrenceDay  *int       `db:"recurrence_day" json:"recurrence_day,omitempty"`
	SpecificDate   *time.Time `db:"specific_date" json:"specific_date,omitempty"`
}

// IsSpecific reports whether the window is a date-specific override rather
// than a weekly recurring entry.
func (w *AvailabilityWindow) IsSpecific() bool {
	return w.SpecificDate != nil
}

// AppliesToWeekday reports whether a weekly window recurs on the given
// weekday. Specific-date windows never match here.
func (w *AvailabilityWindow) AppliesToWeekday(day time.Weekday) bool {
	return w.SpecificDate == nil && w.RecurrenceDay != nil && *w.RecurrenceDay == int(day)
}
