package scheduling

import (
	"math"

	"github.com/clinicdesk/scheduling/internal/appointments"
)

// DefaultMinutesPerUnit maps one drag unit to one minute of duration.
const DefaultMinutesPerUnit = 1.0

// SnapDuration converts a continuous resize delta into a discrete duration:
// the delta is scaled by minutesPerUnit, added to the original duration,
// rounded to the nearest 15-minute step and clamped to [15,480]. Out-of-range
// results are clamped silently rather than rejected.
func SnapDuration(originalMinutes int, deltaUnits, minutesPerUnit float64) int {
	if minutesPerUnit <= 0 {
		minutesPerUnit = DefaultMinutesPerUnit
	}
	raw := float64(originalMinutes) + deltaUnits*minutesPerUnit

	step := float64(appointments.DurationStepMinutes)
	snapped := int(math.Round(raw/step)) * appointments.DurationStepMinutes

	if snapped < appointments.MinDurationMinutes {
		return appointments.MinDurationMinutes
	}
	if snapped > appointments.MaxDurationMinutes {
		return appointments.MaxDurationMinutes
	}
	return snapped
}
