package availability

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicflow/agenda-api/internal/model"
	apperrors "github.com/clinicflow/agenda-api/pkg/errors"
	"github.com/clinicflow/agenda-api/pkg/logger"
)

var (
	proID  = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	roomID = uuid.MustParse("33333333-3333-3333-3333-333333333333")

	// 2024-03-04 is a Monday.
	monday = time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
)

type stubWindows struct {
	windows []model.AvailabilityWindow
	err     error
	calls   int
}

func (s *stubWindows) FetchForProfessional(_ context.Context, _ uuid.UUID) ([]model.AvailabilityWindow, error) {
	s.calls++
	return s.windows, s.err
}

type stubBookings struct {
	bookings []model.Booking
	err      error
}

func (s *stubBookings) Fetch(_ context.Context, _ model.BookingFilter) ([]model.Booking, error) {
	return s.bookings, s.err
}

func testLogger() *logger.Logger {
	return logger.NewLogger(&logger.Config{
		Level:      logger.ErrorLevel,
		TimeFormat: time.RFC3339,
		Output:     io.Discard,
	})
}

func newTestService(w *stubWindows, b *stubBookings, snapshots *cache.Cache) *Service {
	return NewService(w, b, snapshots, testLogger(), nil)
}

func weeklyMonday(kind model.WindowKind, start, end string) model.AvailabilityWindow {
	day := int(time.Monday)
	return model.AvailabilityWindow{
		ID:             uuid.New(),
		ProfessionalID: proID,
		Kind:           kind,
		StartTime:      start,
		EndTime:        end,
		RecurrenceDay:  &day,
	}
}

func offOverride(date time.Time, start, end string) model.AvailabilityWindow {
	return model.AvailabilityWindow{
		ID:             uuid.New(),
		ProfessionalID: proID,
		Kind:           model.WindowKindOff,
		StartTime:      start,
		EndTime:        end,
		SpecificDate:   &date,
	}
}

func scheduledBooking(start time.Time) model.Booking {
	return model.Booking{
		ID:             uuid.New(),
		ProfessionalID: proID,
		ResourceID:     roomID,
		StartTime:      start,
		Status:         model.BookingStatusScheduled,
	}
}

func TestVerifyDayGrid(t *testing.T) {
	svc := newTestService(
		&stubWindows{windows: []model.AvailabilityWindow{weeklyMonday(model.WindowKindInPerson, "09:00", "12:00")}},
		&stubBookings{bookings: []model.Booking{scheduledBooking(monday.Add(10 * time.Hour))}},
		nil,
	)

	checks := svc.VerifyDay(context.Background(), proID, monday)
	require.Len(t, checks, 33)

	assert.Equal(t, "06:00", checks[0].Time)
	assert.Equal(t, "22:00", checks[32].Time)

	byTime := map[string]model.SlotVerdict{}
	for _, c := range checks {
		byTime[c.Time] = c.Verdict
	}

	assert.Equal(t, model.VerdictUnavailable, byTime["06:00"].Status)
	assert.Equal(t, model.ReasonUnconfigured, byTime["06:00"].Reason)
	assert.Equal(t, model.VerdictAvailable, byTime["09:00"].Status)
	assert.Equal(t, model.ModeInPerson, byTime["09:00"].Mode)
	assert.Equal(t, model.VerdictBooked, byTime["10:00"].Status)
	// End of window is exclusive.
	assert.Equal(t, model.VerdictUnavailable, byTime["12:00"].Status)
}

func TestVerifyDayFailClosed(t *testing.T) {
	svc := newTestService(
		&stubWindows{err: errors.New("connection refused")},
		&stubBookings{},
		nil,
	)

	checks := svc.VerifyDay(context.Background(), proID, monday)
	require.Len(t, checks, 33)
	for _, c := range checks {
		assert.Equal(t, model.VerdictUnavailable, c.Verdict.Status)
		assert.Equal(t, model.ReasonVerifyError, c.Verdict.Reason)
	}
}

// Repository adapters report upstream query failures with the data-fetch
// error code; the verifier still degrades to the fail-closed grid and the
// code survives to the caller of fetchWindows.
func TestVerifyDayFailClosedOnDataFetchError(t *testing.T) {
	windows := &stubWindows{err: apperrors.NewDataFetch(errors.New("connection refused"))}
	svc := newTestService(windows, &stubBookings{}, nil)

	checks := svc.VerifyDay(context.Background(), proID, monday)
	require.Len(t, checks, 33)
	for _, c := range checks {
		assert.Equal(t, model.VerdictUnavailable, c.Verdict.Status)
		assert.Equal(t, model.ReasonVerifyError, c.Verdict.Reason)
	}

	_, err := svc.fetchWindows(context.Background(), proID)
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrDataFetch))
}

// A 4-occurrence weekly series where occurrence #3 collides with a booking
// and #4 falls on a declared OFF day: 2 conflicts out of 4 dates, tagged
// BOOKED and UNAVAILABLE respectively.
func TestVerifyRecurrenceMixedConflicts(t *testing.T) {
	thirdMonday := monday.AddDate(0, 0, 14)
	fourthMonday := monday.AddDate(0, 0, 21)

	svc := newTestService(
		&stubWindows{windows: []model.AvailabilityWindow{
			weeklyMonday(model.WindowKindInPerson, "09:00", "12:00"),
			offOverride(fourthMonday, "09:00", "12:00"),
		}},
		&stubBookings{bookings: []model.Booking{scheduledBooking(thirdMonday.Add(10 * time.Hour))}},
		nil,
	)

	start := monday.Add(10 * time.Hour)
	report := svc.VerifyRecurrence(context.Background(), proID, uuid.Nil, start, model.RecurrenceRule{
		Frequency:       model.FrequencyWeekly,
		OccurrenceCount: 4,
	})

	assert.Equal(t, 4, report.TotalDates)
	assert.Equal(t, 2, report.TotalConflicts)
	require.Len(t, report.Conflicts, 2)

	assert.Equal(t, thirdMonday, report.Conflicts[0].Date)
	assert.Equal(t, model.ConflictBooked, report.Conflicts[0].Kind)
	assert.Equal(t, "18/03/2024", report.Conflicts[0].Display)
	require.NotNil(t, report.Conflicts[0].Conflict)

	assert.Equal(t, fourthMonday, report.Conflicts[1].Date)
	assert.Equal(t, model.ConflictUnavailable, report.Conflicts[1].Kind)
	assert.Equal(t, model.ReasonOffDuty, report.Conflicts[1].Reason)
}

// Adding a real booking to the fixtures never decreases the conflict count
// of an otherwise identical series.
func TestVerifyRecurrenceConflictCountMonotonic(t *testing.T) {
	windows := &stubWindows{windows: []model.AvailabilityWindow{weeklyMonday(model.WindowKindInPerson, "09:00", "12:00")}}
	start := monday.Add(10 * time.Hour)
	rule := model.RecurrenceRule{Frequency: model.FrequencyWeekly, OccurrenceCount: 6}

	free := newTestService(windows, &stubBookings{}, nil)
	baseline := free.VerifyRecurrence(context.Background(), proID, uuid.Nil, start, rule)

	occupied := newTestService(windows, &stubBookings{bookings: []model.Booking{
		scheduledBooking(monday.AddDate(0, 0, 7).Add(10 * time.Hour)),
	}}, nil)
	withBooking := occupied.VerifyRecurrence(context.Background(), proID, uuid.Nil, start, rule)

	assert.Equal(t, baseline.TotalDates, withBooking.TotalDates)
	assert.GreaterOrEqual(t, withBooking.TotalConflicts, baseline.TotalConflicts)
	assert.Equal(t, 0, baseline.TotalConflicts)
	assert.Equal(t, 1, withBooking.TotalConflicts)
}

func TestVerifyRecurrenceFailClosed(t *testing.T) {
	svc := newTestService(
		&stubWindows{windows: []model.AvailabilityWindow{weeklyMonday(model.WindowKindInPerson, "09:00", "12:00")}},
		&stubBookings{err: errors.New("timeout")},
		nil,
	)

	report := svc.VerifyRecurrence(context.Background(), proID, uuid.Nil, monday.Add(10*time.Hour), model.RecurrenceRule{
		Frequency:       model.FrequencyWeekly,
		OccurrenceCount: 4,
	})

	assert.Equal(t, 0, report.TotalDates)
	assert.Equal(t, 0, report.TotalConflicts)
	assert.Empty(t, report.Conflicts)
}

func TestVerifyDatesExplicitList(t *testing.T) {
	busy := monday.AddDate(0, 0, 7).Add(10 * time.Hour)
	svc := newTestService(
		&stubWindows{windows: []model.AvailabilityWindow{weeklyMonday(model.WindowKindInPerson, "09:00", "12:00")}},
		&stubBookings{bookings: []model.Booking{scheduledBooking(busy)}},
		nil,
	)

	// Irregular list: one free Monday, one booked Monday, one Saturday with
	// no window at all.
	dates := []time.Time{
		monday.Add(10 * time.Hour),
		busy,
		monday.AddDate(0, 0, 5).Add(10 * time.Hour),
	}
	report := svc.VerifyDates(context.Background(), proID, uuid.Nil, dates)

	assert.Equal(t, 3, report.TotalDates)
	assert.Equal(t, 2, report.TotalConflicts)
	assert.Equal(t, model.ConflictBooked, report.Conflicts[0].Kind)
	assert.Equal(t, model.ConflictUnavailable, report.Conflicts[1].Kind)
	assert.Equal(t, model.ReasonUnconfigured, report.Conflicts[1].Reason)
}

func TestVerifyProfessionals(t *testing.T) {
	at10 := monday.Add(10 * time.Hour)
	svc := newTestService(
		&stubWindows{windows: []model.AvailabilityWindow{weeklyMonday(model.WindowKindInPerson, "09:00", "12:00")}},
		&stubBookings{},
		nil,
	)

	// The stub returns the same windows for both IDs, but only proID's
	// windows mention proID; the other professional is unconfigured.
	slots := svc.VerifyProfessionals(context.Background(), []uuid.UUID{proID, uuid.MustParse("22222222-2222-2222-2222-222222222222")}, at10)
	require.Len(t, slots, 2)
	assert.Equal(t, proID, slots[0].ProfessionalID)
	assert.Equal(t, model.VerdictAvailable, slots[0].Verdict.Status)
	assert.Equal(t, model.VerdictUnavailable, slots[1].Verdict.Status)
	assert.Equal(t, model.ReasonUnconfigured, slots[1].Verdict.Reason)
}

func TestVerifyProfessionalsFailClosed(t *testing.T) {
	svc := newTestService(
		&stubWindows{},
		&stubBookings{err: errors.New("down")},
		nil,
	)

	slots := svc.VerifyProfessionals(context.Background(), []uuid.UUID{proID}, monday.Add(10*time.Hour))
	require.Len(t, slots, 1)
	assert.Equal(t, model.VerdictUnavailable, slots[0].Verdict.Status)
	assert.Equal(t, model.ReasonVerifyError, slots[0].Verdict.Reason)
}

func TestSnapshotCache(t *testing.T) {
	windows := &stubWindows{windows: []model.AvailabilityWindow{weeklyMonday(model.WindowKindInPerson, "09:00", "12:00")}}
	svc := newTestService(windows, &stubBookings{}, cache.New(time.Minute, time.Minute))

	svc.VerifyDay(context.Background(), proID, monday)
	svc.VerifyDay(context.Background(), proID, monday)
	assert.Equal(t, 1, windows.calls)

	svc.InvalidateProfessional(proID)
	svc.VerifyDay(context.Background(), proID, monday)
	assert.Equal(t, 2, windows.calls)
}
