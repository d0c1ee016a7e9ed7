package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/clinicflow/agenda-api/internal/model"
	apperrors "github.com/clinicflow/agenda-api/pkg/errors"
)

func (r *availabilityRepository) FetchForProfessional(ctx context.Context, professionalID uuid.UUID) ([]model.AvailabilityWindow, error) {
	query := `
		SELECT id, professional_id, kind, start_time, end_time,
		       recurrence_day, specific_date
		FROM availability_windows
		WHERE professional_id = $1
		ORDER BY specific_date NULLS LAST, recurrence_day, start_time
	`
	start := time.Now()
	var windows []model.AvailabilityWindow
	err := r.db.SelectContext(ctx, &windows, query, professionalID)
	observe(r.metrics, "fetch_availability", start, err)
	if err != nil {
		return nil, apperrors.NewDataFetch(fmt.Errorf("failed to fetch availability windows: %w", err))
	}

	for i := range windows {
		windows[i].Kind = model.NormalizeWindowKind(string(windows[i].Kind))
	}
	return windows, nil
}
