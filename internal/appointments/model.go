// Package appointments holds the appointment entity, its validity rules and
// the authoritative persistence layer the scheduling engine talks to.
package appointments

import (
	"time"

	"github.com/google/uuid"
)

// Type classifies the clinical purpose of an appointment.
type Type string

const (
	TypeConsultation Type = "consultation"
	TypeFollowUp     Type = "follow_up"
	TypeProcedure    Type = "procedure"
	TypeEmergency    Type = "emergency"
)

// Status represents where an appointment sits in its lifecycle.
type Status string

const (
	StatusScheduled  Status = "scheduled"
	StatusConfirmed  Status = "confirmed"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
	StatusNoShow     Status = "no_show"
)

// Duration bounds and the resize snapping step, in minutes.
const (
	MinDurationMinutes  = 15
	MaxDurationMinutes  = 480
	DurationStepMinutes = 15
)

// Appointment represents a bookable slot on a practitioner's calendar.
// EndTime is always derived from StartTime + DurationMinutes; the engine
// never sets it independently.
type Appointment struct {
	ID              uuid.UUID `json:"id"`
	PatientID       uuid.UUID `json:"patientId"`
	DoctorID        uuid.UUID `json:"doctorId"`
	StartTime       time.Time `json:"startTime"`
	EndTime         time.Time `json:"endTime"`
	DurationMinutes int       `json:"durationMinutes"`
	Type            Type      `json:"type"`
	Status          Status    `json:"status"`
	Reason          string    `json:"reason,omitempty"`
	Notes           string    `json:"notes,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// Validate checks the entity invariants.
func (a Appointment) Validate() error {
	if a.DoctorID == uuid.Nil {
		return ErrMissingDoctor
	}
	if a.PatientID == uuid.Nil {
		return ErrMissingPatient
	}
	if !a.EndTime.After(a.StartTime) {
		return ErrInvalidInterval
	}
	if a.DurationMinutes < MinDurationMinutes || a.DurationMinutes > MaxDurationMinutes {
		return ErrInvalidDuration
	}
	switch a.Type {
	case TypeConsultation, TypeFollowUp, TypeProcedure, TypeEmergency:
	default:
		return ErrUnknownType
	}
	if !a.Status.Known() {
		return ErrUnknownStatus
	}
	return nil
}

// Day returns the calendar day the appointment starts on, truncated to
// midnight in the start time's location.
func (a Appointment) Day() time.Time {
	y, m, d := a.StartTime.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, a.StartTime.Location())
}

// Rescheduled returns a copy of the appointment moved to start, keeping the
// duration and deriving the end time.
func (a Appointment) Rescheduled(start time.Time) Appointment {
	a.StartTime = start
	a.EndTime = start.Add(time.Duration(a.DurationMinutes) * time.Minute)
	return a
}

// Resized returns a copy with a new duration. The start time never changes;
// only the end time is recomputed.
func (a Appointment) Resized(durationMinutes int) Appointment {
	a.DurationMinutes = durationMinutes
	a.EndTime = a.StartTime.Add(time.Duration(durationMinutes) * time.Minute)
	return a
}

// SameDay reports whether two instants fall on the same calendar day,
// compared in a's location.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.In(a.Location()).Date()
	return ay == by && am == bm && ad == bd
}
