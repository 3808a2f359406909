package scheduling

import (
	"errors"
	"fmt"

	"github.com/clinicdesk/scheduling/internal/appointments"
)

var (
	// ErrGestureActive is returned when a gesture starts while another is in flight
	ErrGestureActive = errors.New("another gesture is already active")

	// ErrNoActiveGesture is returned when a gesture operation has no matching active gesture
	ErrNoActiveGesture = errors.New("no active gesture for this appointment")

	// ErrSameDayDrop is returned when a drag preview targets the appointment's current day
	ErrSameDayDrop = errors.New("appointment already occupies this day")

	// ErrInvalidGestureKind is returned when a gesture starts with a kind that is not drag or resize
	ErrInvalidGestureKind = errors.New("gesture kind must be dragging or resizing")
)

// ConflictDetectedError aborts a gesture whose proposed interval overlaps
// existing bookings. Nothing was committed remotely, so no rollback is
// required beyond reverting any local optimistic state.
type ConflictDetectedError struct {
	Conflicts []appointments.Appointment
}

func (e *ConflictDetectedError) Error() string {
	return fmt.Sprintf("scheduling: proposed time overlaps %d existing appointment(s)", len(e.Conflicts))
}

// UpdateFailedError wraps a remote update failure that occurred after a
// successful conflict check. The optimistic mutation has already been rolled
// back when this error is returned.
type UpdateFailedError struct {
	Err error
}

func (e *UpdateFailedError) Error() string {
	return fmt.Sprintf("scheduling: remote update failed: %v", e.Err)
}

func (e *UpdateFailedError) Unwrap() error {
	return e.Err
}
