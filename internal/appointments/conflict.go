package appointments

import (
	"time"

	"github.com/google/uuid"
)

// ConflictResult reports overlapping appointments for a proposed interval.
type ConflictResult struct {
	HasConflict bool          `json:"hasConflict"`
	Conflicts   []Appointment `json:"conflicts"`
}

// Overlaps reports whether the half-open intervals [s1,e1) and [s2,e2)
// intersect. Touching boundaries do not conflict.
func Overlaps(s1, e1, s2, e2 time.Time) bool {
	return s1.Before(e2) && s2.Before(e1)
}

// CheckConflicts determines whether the proposed [start,end) interval for a
// doctor overlaps any blocking appointment in the supplied set. excludeID
// removes the appointment being moved or resized from the comparison so it
// cannot conflict with itself. The result is a pure function of the set at
// call time.
func CheckConflicts(existing []Appointment, doctorID uuid.UUID, start, end time.Time, excludeID uuid.UUID) ConflictResult {
	var conflicts []Appointment
	for _, a := range existing {
		if a.DoctorID != doctorID {
			continue
		}
		if excludeID != uuid.Nil && a.ID == excludeID {
			continue
		}
		if !a.Status.Blocking() {
			continue
		}
		if Overlaps(start, end, a.StartTime, a.EndTime) {
			conflicts = append(conflicts, a)
		}
	}
	return ConflictResult{HasConflict: len(conflicts) > 0, Conflicts: conflicts}
}
