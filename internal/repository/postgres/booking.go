package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/clinicflow/agenda-api/internal/model"
	apperrors "github.com/clinicflow/agenda-api/pkg/errors"
)

func (r *bookingRepository) Fetch(ctx context.Context, filter model.BookingFilter) ([]model.Booking, error) {
	query := `
		SELECT a.id, a.professional_id, a.resource_id, a.patient_id,
		       a.start_time, a.status,
		       COALESCE(p.name, '') AS patient_name,
		       COALESCE(pr.name, '') AS professional_name,
		       COALESCE(s.name, '') AS service_name
		FROM appointments a
		LEFT JOIN patients p ON p.id = a.patient_id
		LEFT JOIN professionals pr ON pr.id = a.professional_id
		LEFT JOIN services s ON s.id = a.service_id
		WHERE 1 = 1
	`
	args := []interface{}{}
	argCount := 1

	if filter.ProfessionalID != uuid.Nil {
		query += fmt.Sprintf(" AND a.professional_id = $%d", argCount)
		args = append(args, filter.ProfessionalID)
		argCount++
	}

	if filter.ResourceID != uuid.Nil {
		query += fmt.Sprintf(" AND a.resource_id = $%d", argCount)
		args = append(args, filter.ResourceID)
		argCount++
	}

	if !filter.DateFrom.IsZero() {
		query += fmt.Sprintf(" AND a.start_time >= $%d", argCount)
		args = append(args, filter.DateFrom)
		argCount++
	}

	if !filter.DateTo.IsZero() {
		query += fmt.Sprintf(" AND a.start_time < $%d", argCount)
		args = append(args, filter.DateTo)
		argCount++
	}

	query += " ORDER BY a.start_time ASC"

	start := time.Now()
	var bookings []model.Booking
	err := r.db.SelectContext(ctx, &bookings, query, args...)
	observe(r.metrics, "fetch_bookings", start, err)
	if err != nil {
		return nil, apperrors.NewDataFetch(fmt.Errorf("failed to fetch bookings: %w", err))
	}
	return bookings, nil
}
