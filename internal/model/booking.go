package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusScheduled BookingStatus = "AGENDADO"
	BookingStatusConfirmed BookingStatus = "CONFIRMADO"
	BookingStatusCompleted BookingStatus = "REALIZADO"
	BookingStatusCancelled BookingStatus = "CANCELADO"
	BookingStatusNoShow    BookingStatus = "FALTOU"
)

// cancelledSpellings covers every spelling the upstream data has been seen
// to carry; comparison is case-insensitive.
var cancelledSpellings = map[string]struct{}{
	"cancelado": {},
	"cancelada": {},
	"cancelled": {},
	"canceled":  {},
}

// IsCancelled reports whether the status is any accepted cancelled variant.
// A cancelled booking is logically absent from overlap detection.
func (s BookingStatus) IsCancelled() bool {
	_, ok := cancelledSpellings[strings.ToLower(strings.TrimSpace(string(s)))]
	return ok
}

// Booking is the read projection of an appointment that the engine consumes.
// It is an immutable fact at query time; the engine never writes it.
type Booking struct {
	ID               uuid.UUID     `db:"id" json:"id"`
	ProfessionalID   uuid.UUID     `db:"professional_id" json:"professional_id"`
	ResourceID       uuid.UUID     `db:"resource_id" json:"resource_id"`
	PatientID        *uuid.UUID    `db:"patient_id" json:"patient_id,omitempty"`
	PatientName      string        `db:"patient_name" json:"patient_name,omitempty"`
	ProfessionalName string        `db:"professional_name" json:"professional_name,omitempty"`
	ServiceName      string        `db:"service_name" json:"service_name,omitempty"`
	StartTime        time.Time     `db:"start_time" json:"start_time"`
	Status           BookingStatus `db:"status" json:"status"`
}

// BookingFilter narrows a booking fetch. Zero values mean "no filter on
// this axis".
type BookingFilter struct {
	ProfessionalID uuid.UUID
	ResourceID     uuid.UUID
	DateFrom       time.Time
	DateTo         time.Time
}
