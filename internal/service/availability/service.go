package availability

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/clinicflow/agenda-api/internal/model"
	"github.com/clinicflow/agenda-api/internal/repository"
	"github.com/clinicflow/agenda-api/internal/schedule"
	apperrors "github.com/clinicflow/agenda-api/pkg/errors"
	"github.com/clinicflow/agenda-api/pkg/logger"
	"github.com/clinicflow/agenda-api/pkg/metrics"
)

// Day-grid bounds: half-hour slots from 06:00 to 22:00 inclusive, 33 slots.
const (
	GridStart = schedule.ClockTime(6 * 60)
	GridEnd   = schedule.ClockTime(22 * 60)
	GridStep  = schedule.ClockTime(30)
)

// displayDateLayout formats conflict dates for the booking UI.
const displayDateLayout = "02/01/2006"

// Service runs the batch availability verifications. It is read-only:
// snapshots of windows and bookings are fetched once per call and every
// verdict is a pure function of those snapshots. Repository failures never
// escape; they degrade to the fail-closed "everything unavailable" result
// so the caller's UI can always render something.
type Service struct {
	windows   repository.AvailabilityRepository
	bookings  repository.BookingRepository
	snapshots *cache.Cache
	logger    *logger.Logger
	metrics   *metrics.Metrics
}

// NewService wires the verifier. The snapshot cache and metrics may be nil;
// both are optimizations with no effect on verdicts.
func NewService(windows repository.AvailabilityRepository, bookings repository.BookingRepository, snapshots *cache.Cache, l *logger.Logger, m *metrics.Metrics) *Service {
	return &Service{
		windows:   windows,
		bookings:  bookings,
		snapshots: snapshots,
		logger:    l,
		metrics:   m,
	}
}

// VerifyDay sweeps the fixed half-hour grid for one professional on one
// day and returns a verdict per slot, in grid order.
func (s *Service) VerifyDay(ctx context.Context, professionalID uuid.UUID, date time.Time) []model.SlotCheck {
	defer s.observeSweep("day", time.Now())

	windows, err := s.fetchWindows(ctx, professionalID)
	if err != nil {
		s.logFetchFailure(err, "failed to fetch availability, degrading day sweep")
		return s.degradedDay("day")
	}

	day := schedule.DateOf(date)
	bookings, err := s.bookings.Fetch(ctx, model.BookingFilter{
		ProfessionalID: professionalID,
		DateFrom:       day,
		DateTo:         day.AddDate(0, 0, 1),
	})
	if err != nil {
		s.logFetchFailure(err, "failed to fetch bookings, degrading day sweep")
		return s.degradedDay("day")
	}

	checks := make([]model.SlotCheck, 0, int((GridEnd-GridStart)/GridStep)+1)
	for at := GridStart; at <= GridEnd; at += GridStep {
		verdict := schedule.Evaluate(professionalID, uuid.Nil, day, at, windows, bookings)
		s.countVerdict(verdict)
		checks = append(checks, model.SlotCheck{Time: at.String(), Verdict: verdict})
	}
	return checks
}

// VerifyRecurrence expands the rule from start's date, holds start's time
// of day fixed across the series, and reports every occurrence that is not
// AVAILABLE. Advisory only: nothing is booked.
func (s *Service) VerifyRecurrence(ctx context.Context, professionalID, resourceID uuid.UUID, start time.Time, rule model.RecurrenceRule) *model.SeriesReport {
	defer s.observeSweep("recurrence", time.Now())

	dates := schedule.ExpandRecurrence(start, rule)
	if s.metrics != nil {
		s.metrics.RecurrenceExpanded.Observe(float64(len(dates)))
	}

	at := schedule.ClockOf(start)
	instants := make([]time.Time, len(dates))
	for i, d := range dates {
		instants[i] = schedule.At(d, at)
	}
	return s.sweepInstants(ctx, "recurrence", professionalID, resourceID, instants)
}

// VerifyDates is the explicit-list variant of VerifyRecurrence, for
// callers that computed irregular dates themselves.
func (s *Service) VerifyDates(ctx context.Context, professionalID, resourceID uuid.UUID, dateTimes []time.Time) *model.SeriesReport {
	defer s.observeSweep("dates", time.Now())
	return s.sweepInstants(ctx, "dates", professionalID, resourceID, dateTimes)
}

// VerifyProfessionals answers "which of these professionals are free at
// instant at" with one verdict per professional, preserving input order.
// Bookings are fetched once for the whole day; windows per professional,
// through the snapshot cache.
func (s *Service) VerifyProfessionals(ctx context.Context, professionalIDs []uuid.UUID, at time.Time) []model.ProfessionalSlot {
	defer s.observeSweep("professionals", time.Now())

	day := schedule.DateOf(at)
	clock := schedule.ClockOf(at)

	bookings, err := s.bookings.Fetch(ctx, model.BookingFilter{
		DateFrom: day,
		DateTo:   day.AddDate(0, 0, 1),
	})
	if err != nil {
		s.logFetchFailure(err, "failed to fetch bookings, degrading batch check")
		return s.degradedProfessionals("professionals", professionalIDs)
	}

	slots := make([]model.ProfessionalSlot, 0, len(professionalIDs))
	for _, id := range professionalIDs {
		windows, err := s.fetchWindows(ctx, id)
		if err != nil {
			s.logFetchFailure(err, "failed to fetch availability for professional", "professional_id", id.String())
			slots = append(slots, model.ProfessionalSlot{ProfessionalID: id, Verdict: degradedVerdict()})
			continue
		}
		verdict := schedule.Evaluate(id, uuid.Nil, day, clock, windows, bookings)
		s.countVerdict(verdict)
		slots = append(slots, model.ProfessionalSlot{ProfessionalID: id, Verdict: verdict})
	}
	return slots
}

func (s *Service) sweepInstants(ctx context.Context, kind string, professionalID, resourceID uuid.UUID, instants []time.Time) *model.SeriesReport {
	if len(instants) == 0 {
		return &model.SeriesReport{Conflicts: []model.DateConflict{}}
	}

	windows, err := s.fetchWindows(ctx, professionalID)
	if err != nil {
		s.logFetchFailure(err, "failed to fetch availability, degrading series sweep")
		return s.degradedSeries(kind)
	}

	filter := model.BookingFilter{
		ProfessionalID: professionalID,
		ResourceID:     resourceID,
		DateFrom:       schedule.DateOf(instants[0]),
		DateTo:         schedule.DateOf(instants[len(instants)-1]).AddDate(0, 0, 1),
	}
	bookings, err := s.bookings.Fetch(ctx, filter)
	if err != nil {
		s.logFetchFailure(err, "failed to fetch bookings, degrading series sweep")
		return s.degradedSeries(kind)
	}

	report := &model.SeriesReport{
		Conflicts:  []model.DateConflict{},
		TotalDates: len(instants),
	}
	for _, instant := range instants {
		date := schedule.DateOf(instant)
		verdict := schedule.Evaluate(professionalID, resourceID, date, schedule.ClockOf(instant), windows, bookings)
		s.countVerdict(verdict)
		if verdict.Status == model.VerdictAvailable {
			continue
		}

		conflictKind := model.ConflictUnavailable
		if verdict.Status == model.VerdictBooked {
			conflictKind = model.ConflictBooked
		}
		report.Conflicts = append(report.Conflicts, model.DateConflict{
			Date:     date,
			Display:  date.Format(displayDateLayout),
			Kind:     conflictKind,
			Reason:   verdict.Reason,
			Conflict: verdict.Conflict,
		})
	}
	report.TotalConflicts = len(report.Conflicts)
	return report
}

// fetchWindows reads a professional's windows through the snapshot cache.
func (s *Service) fetchWindows(ctx context.Context, professionalID uuid.UUID) ([]model.AvailabilityWindow, error) {
	key := professionalID.String()
	if s.snapshots != nil {
		if cached, ok := s.snapshots.Get(key); ok {
			if s.metrics != nil {
				s.metrics.CacheHits.Inc()
			}
			return cached.([]model.AvailabilityWindow), nil
		}
		if s.metrics != nil {
			s.metrics.CacheMisses.Inc()
		}
	}

	windows, err := s.windows.FetchForProfessional(ctx, professionalID)
	if err != nil {
		return nil, err
	}
	if s.snapshots != nil {
		s.snapshots.SetDefault(key, windows)
	}
	return windows, nil
}

// InvalidateProfessional drops a professional's cached snapshot.
func (s *Service) InvalidateProfessional(professionalID uuid.UUID) {
	if s.snapshots != nil {
		s.snapshots.Delete(professionalID.String())
	}
}

// logFetchFailure records the cause of a degraded sweep, tagging upstream
// query failures with their error code so they are separable from
// programming errors in the logs.
func (s *Service) logFetchFailure(err error, msg string, fields ...interface{}) {
	if apperrors.HasCode(err, apperrors.ErrDataFetch) {
		fields = append(fields, "code", "data_fetch")
	}
	s.logger.Error(err, msg, fields...)
}

func degradedVerdict() model.SlotVerdict {
	return model.SlotVerdict{
		Status: model.VerdictUnavailable,
		Reason: model.ReasonVerifyError,
	}
}

func (s *Service) degradedDay(kind string) []model.SlotCheck {
	s.countDegradation(kind)
	checks := make([]model.SlotCheck, 0, int((GridEnd-GridStart)/GridStep)+1)
	for at := GridStart; at <= GridEnd; at += GridStep {
		checks = append(checks, model.SlotCheck{Time: at.String(), Verdict: degradedVerdict()})
	}
	return checks
}

func (s *Service) degradedSeries(kind string) *model.SeriesReport {
	s.countDegradation(kind)
	return &model.SeriesReport{Conflicts: []model.DateConflict{}}
}

func (s *Service) degradedProfessionals(kind string, ids []uuid.UUID) []model.ProfessionalSlot {
	s.countDegradation(kind)
	slots := make([]model.ProfessionalSlot, 0, len(ids))
	for _, id := range ids {
		slots = append(slots, model.ProfessionalSlot{ProfessionalID: id, Verdict: degradedVerdict()})
	}
	return slots
}

func (s *Service) countVerdict(v model.SlotVerdict) {
	if s.metrics != nil {
		s.metrics.VerdictsTotal.WithLabelValues(string(v.Status)).Inc()
	}
}

func (s *Service) countDegradation(kind string) {
	if s.metrics != nil {
		s.metrics.SweepDegradations.WithLabelValues(kind).Inc()
	}
}

func (s *Service) observeSweep(kind string, start time.Time) {
	if s.metrics != nil {
		s.metrics.SweepDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
	}
}
