package appointments

// Known reports whether the status is one of the recognized values.
func (s Status) Known() bool {
	switch s {
	case StatusScheduled, StatusConfirmed, StatusInProgress,
		StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

// IsTerminal reports whether the status ends the appointment's editable life.
// Terminal appointments are excluded from drag and resize gestures.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

// Blocking reports whether an appointment in this status occupies calendar
// time for conflict purposes. Cancelled and no-show slots never conflict.
func (s Status) Blocking() bool {
	return s != StatusCancelled && s != StatusNoShow
}

// CanTransitionTo reports whether moving from s to next is a legal status
// change. The happy path is forward-only: scheduled → confirmed →
// in_progress → completed. Cancelled and no_show are reachable from any
// non-terminal status.
func (s Status) CanTransitionTo(next Status) bool {
	if !s.Known() || !next.Known() || s == next {
		return false
	}
	if s.IsTerminal() {
		return false
	}
	switch next {
	case StatusCancelled, StatusNoShow:
		return true
	case StatusConfirmed:
		return s == StatusScheduled
	case StatusInProgress:
		return s == StatusConfirmed
	case StatusCompleted:
		return s == StatusInProgress
	}
	return false
}

// EligibleForGesture rejects drag/resize attempts on terminal-status
// appointments before any scheduling computation runs.
func (a Appointment) EligibleForGesture() error {
	if a.Status.IsTerminal() {
		return ErrIneligibleStatus
	}
	return nil
}
