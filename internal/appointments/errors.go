package appointments

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when an appointment does not exist
	ErrNotFound = errors.New("appointment not found")

	// ErrMissingDoctor is returned when the doctor reference is missing
	ErrMissingDoctor = errors.New("doctor id is required")

	// ErrMissingPatient is returned when the patient reference is missing
	ErrMissingPatient = errors.New("patient id is required")

	// ErrInvalidInterval is returned when the end time is not after the start time
	ErrInvalidInterval = errors.New("end time must be after start time")

	// ErrInvalidDuration is returned when the duration falls outside [15,480] minutes
	ErrInvalidDuration = errors.New("duration out of bounds")

	// ErrUnknownType is returned for an unrecognized appointment type
	ErrUnknownType = errors.New("unknown appointment type")

	// ErrUnknownStatus is returned for an unrecognized appointment status
	ErrUnknownStatus = errors.New("unknown appointment status")

	// ErrIneligibleStatus is returned when a gesture targets a terminal-status appointment
	ErrIneligibleStatus = errors.New("appointment status does not permit rescheduling")

	// ErrEmptyUpdate is returned when a partial update carries no fields
	ErrEmptyUpdate = errors.New("no fields to update")
)

// ConflictError is returned when a proposed interval overlaps existing
// non-cancelled appointments for the same doctor.
type ConflictError struct {
	Conflicts []Appointment
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("appointments: interval overlaps %d existing appointment(s)", len(e.Conflicts))
}

// IsConflict reports whether err carries a ConflictError.
func IsConflict(err error) (*ConflictError, bool) {
	var ce *ConflictError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}
