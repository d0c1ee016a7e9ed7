package schedule

import (
	"time"

	"github.com/google/uuid"

	"github.com/clinicflow/agenda-api/internal/model"
)

// Coverage is the Time-Window Resolver's answer for one instant.
type Coverage string

const (
	CoverageInPerson     Coverage = "IN_PERSON"
	CoverageRemote       Coverage = "REMOTE"
	CoverageOff          Coverage = "OFF"
	CoverageUnconfigured Coverage = "UNCONFIGURED"
)

func coverageOf(kind model.WindowKind) Coverage {
	switch kind {
	case model.WindowKindInPerson:
		return CoverageInPerson
	case model.WindowKindRemote:
		return CoverageRemote
	default:
		return CoverageOff
	}
}

// ResolveWindow decides which declared availability window covers the given
// instant for the given professional.
//
// The resolution is deliberately two-pass so the override rule is visible
// in code: specific-date windows are consulted first and win outright for
// their date, even when a weekly window would also match. Weekly windows
// are only consulted when no specific-date window claimed the instant.
// Windows whose time fields cannot be normalized are skipped, as if absent.
func ResolveWindow(professionalID uuid.UUID, date time.Time, at ClockTime, windows []model.AvailabilityWindow) Coverage {
	for i := range windows {
		w := &windows[i]
		if w.ProfessionalID != professionalID || !w.IsSpecific() {
			continue
		}
		if SameDate(*w.SpecificDate, date) && windowContains(w, at) {
			return coverageOf(w.Kind)
		}
	}

	weekday := date.Weekday()
	for i := range windows {
		w := &windows[i]
		if w.ProfessionalID != professionalID || !w.AppliesToWeekday(weekday) {
			continue
		}
		if windowContains(w, at) {
			return coverageOf(w.Kind)
		}
	}

	return CoverageUnconfigured
}

// windowContains tests half-open containment, start <= at < end, so two
// adjacent windows never both claim the boundary instant. Malformed time
// fields make the window never match.
func windowContains(w *model.AvailabilityWindow, at ClockTime) bool {
	start, err := ParseClock(w.StartTime)
	if err != nil {
		return false
	}
	end, err := ParseClock(w.EndTime)
	if err != nil {
		return false
	}
	return start <= at && at < end
}
