package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/clinicflow/agenda-api/internal/model"
)

// The availability engine's only boundary with the surrounding system: two
// read-only fetches. The engine never writes through these.
type (
	// AvailabilityRepository returns every declared window, weekly and
	// specific-date, for one professional.
	AvailabilityRepository interface {
		FetchForProfessional(ctx context.Context, professionalID uuid.UUID) ([]model.AvailabilityWindow, error)
	}

	// BookingRepository returns booking read projections matching the
	// filter. All filter axes are optional.
	BookingRepository interface {
		Fetch(ctx context.Context, filter model.BookingFilter) ([]model.Booking, error)
	}
)
