package schedule

import (
	"time"

	"github.com/google/uuid"

	"github.com/clinicflow/agenda-api/internal/model"
)

// FindConflict scans bookings for one occupying the exact slot. The
// professional and resource filters are independent axes: pass uuid.Nil on
// either to skip that axis, so a caller may check professional-only,
// resource-only, or both. Cancelled bookings, in any accepted spelling,
// never count. When several bookings share the instant the first
// encountered is returned.
func FindConflict(professionalID, resourceID uuid.UUID, date time.Time, at ClockTime, bookings []model.Booking) *model.Booking {
	for i := range bookings {
		b := &bookings[i]
		if b.Status.IsCancelled() {
			continue
		}
		if professionalID != uuid.Nil && b.ProfessionalID != professionalID {
			continue
		}
		if resourceID != uuid.Nil && b.ResourceID != resourceID {
			continue
		}
		if occupiesInstant(b.StartTime, date, at) {
			return b
		}
	}
	return nil
}

// occupiesInstant compares the booking start, truncated to the minute,
// against the candidate date + time of day. The comparison decomposes both
// sides to calendar day and minute of day, so it agrees with callers that
// compare full timestamps truncated to the minute.
func occupiesInstant(start, date time.Time, at ClockTime) bool {
	return SameDate(start, date) && ClockOf(start) == at
}
