package postgres

import (
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/clinicflow/agenda-api/internal/repository"
	"github.com/clinicflow/agenda-api/pkg/metrics"
)

type availabilityRepository struct {
	db      *sqlx.DB
	metrics *metrics.Metrics
}

type bookingRepository struct {
	db      *sqlx.DB
	metrics *metrics.Metrics
}

func NewAvailabilityRepository(db *sqlx.DB, m *metrics.Metrics) repository.AvailabilityRepository {
	return &availabilityRepository{db: db, metrics: m}
}

func NewBookingRepository(db *sqlx.DB, m *metrics.Metrics) repository.BookingRepository {
	return &bookingRepository{db: db, metrics: m}
}

// observe records one query against the database metrics. Metrics are
// optional; a nil receiver set records nothing.
func observe(m *metrics.Metrics, operation string, start time.Time, err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	m.DatabaseOperations.WithLabelValues(operation, status).Inc()
	m.DatabaseLatency.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
