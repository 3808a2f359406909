// Package scheduling implements the drag-and-drop scheduling engine: slot
// allocation, duration resizing, gesture tracking and the optimistic
// mutation coordinator over the shared appointment collection.
package scheduling

import (
	"sort"
	"time"

	"github.com/clinicdesk/scheduling/internal/appointments"
)

// WorkingHours bounds the allocator's search window within a day.
type WorkingHours struct {
	StartHour int
	EndHour   int
}

// DefaultWorkingHours covers a standard 08:00-18:00 clinic day.
var DefaultWorkingHours = WorkingHours{StartHour: 8, EndHour: 18}

// Valid reports whether the window is usable.
func (h WorkingHours) Valid() bool {
	return h.StartHour >= 0 && h.EndHour <= 24 && h.StartHour < h.EndHour
}

// FindSlot proposes a start time for an appointment of the given duration on
// the target day, walking the doctor's bookings first-fit from the start of
// working hours. Cancelled and no-show bookings do not occupy time. When no
// gap fits inside working hours the walked-to time is returned anyway; the
// allocator is a heuristic proposal and the conflict check has the final say.
func FindSlot(day time.Time, durationMinutes int, booked []appointments.Appointment, hours WorkingHours) time.Time {
	if !hours.Valid() {
		hours = DefaultWorkingHours
	}
	dur := time.Duration(durationMinutes) * time.Minute

	y, m, d := day.Date()
	candidate := time.Date(y, m, d, hours.StartHour, 0, 0, 0, day.Location())

	occupied := make([]appointments.Appointment, 0, len(booked))
	for _, a := range booked {
		if a.Status.Blocking() {
			occupied = append(occupied, a)
		}
	}
	sort.Slice(occupied, func(i, j int) bool {
		return occupied[i].StartTime.Before(occupied[j].StartTime)
	})

	for _, a := range occupied {
		if !candidate.Add(dur).After(a.StartTime) {
			return candidate
		}
		if a.EndTime.After(candidate) {
			candidate = a.EndTime
		}
	}

	return candidate
}
