package schedule

import (
	"time"

	"github.com/google/uuid"

	"github.com/clinicflow/agenda-api/internal/model"
)

// Evaluate classifies one slot by composing window resolution with overlap
// detection. Occupancy is only consulted when the professional actually
// attends at that time: an OFF or unconfigured window short-circuits to
// UNAVAILABLE without touching the bookings at all.
func Evaluate(professionalID, resourceID uuid.UUID, date time.Time, at ClockTime, windows []model.AvailabilityWindow, bookings []model.Booking) model.SlotVerdict {
	switch ResolveWindow(professionalID, date, at, windows) {
	case CoverageInPerson:
		if conflict := FindConflict(professionalID, resourceID, date, at, bookings); conflict != nil {
			return bookedVerdict(model.ModeInPerson, model.ReasonBookedInPerson, conflict)
		}
		return model.SlotVerdict{
			Status: model.VerdictAvailable,
			Reason: model.ReasonAvailableInPerson,
			Mode:   model.ModeInPerson,
		}
	case CoverageRemote:
		if conflict := FindConflict(professionalID, resourceID, date, at, bookings); conflict != nil {
			return bookedVerdict(model.ModeRemote, model.ReasonBookedRemote, conflict)
		}
		return model.SlotVerdict{
			Status: model.VerdictAvailable,
			Reason: model.ReasonAvailableRemote,
			Mode:   model.ModeRemote,
		}
	case CoverageOff:
		return model.SlotVerdict{
			Status: model.VerdictUnavailable,
			Reason: model.ReasonOffDuty,
		}
	default:
		return model.SlotVerdict{
			Status: model.VerdictUnavailable,
			Reason: model.ReasonUnconfigured,
		}
	}
}

func bookedVerdict(mode model.AttendanceMode, reason string, conflict *model.Booking) model.SlotVerdict {
	return model.SlotVerdict{
		Status:   model.VerdictBooked,
		Reason:   reason,
		Mode:     mode,
		Conflict: conflictDetail(conflict),
	}
}

func conflictDetail(b *model.Booking) *model.ConflictDetail {
	return &model.ConflictDetail{
		BookingID:        b.ID,
		PatientName:      b.PatientName,
		ProfessionalName: b.ProfessionalName,
		ServiceName:      b.ServiceName,
		StartTime:        b.StartTime,
	}
}
