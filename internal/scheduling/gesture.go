package scheduling

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// GestureKind tags the active gesture variant.
type GestureKind int

const (
	GestureIdle GestureKind = iota
	GestureDragging
	GestureResizing
)

func (k GestureKind) String() string {
	switch k {
	case GestureDragging:
		return "dragging"
	case GestureResizing:
		return "resizing"
	default:
		return "idle"
	}
}

// Gesture describes the in-flight drag or resize for the UI layer: which
// appointment is affected and the live candidate values for display.
type Gesture struct {
	Kind                     GestureKind `json:"kind"`
	AppointmentID            uuid.UUID   `json:"appointmentId,omitempty"`
	CandidateStart           time.Time   `json:"candidateStart,omitzero"`
	CandidateDurationMinutes int         `json:"candidateDurationMinutes,omitempty"`
}

// Tracker serializes gestures: at most one drag or resize may be active at a
// time, and a new gesture is rejected until the current one ends.
type Tracker struct {
	mu      sync.Mutex
	current Gesture
}

// NewTracker creates an idle tracker.
func NewTracker() *Tracker {
	return &Tracker{}
}

// Begin activates a gesture. It fails with ErrGestureActive unless the
// tracker is idle.
func (t *Tracker) Begin(kind GestureKind, appointmentID uuid.UUID, start time.Time, durationMinutes int) error {
	if kind != GestureDragging && kind != GestureResizing {
		return ErrInvalidGestureKind
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.current.Kind != GestureIdle {
		return ErrGestureActive
	}
	t.current = Gesture{
		Kind:                     kind,
		AppointmentID:            appointmentID,
		CandidateStart:           start,
		CandidateDurationMinutes: durationMinutes,
	}
	return nil
}

// SetCandidate records the live candidate values while a gesture is active.
func (t *Tracker) SetCandidate(appointmentID uuid.UUID, start time.Time, durationMinutes int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.current.Kind == GestureIdle || t.current.AppointmentID != appointmentID {
		return ErrNoActiveGesture
	}
	t.current.CandidateStart = start
	t.current.CandidateDurationMinutes = durationMinutes
	return nil
}

// End releases the active gesture for the given appointment.
func (t *Tracker) End(appointmentID uuid.UUID) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.current.Kind == GestureIdle || t.current.AppointmentID != appointmentID {
		return ErrNoActiveGesture
	}
	t.current = Gesture{}
	return nil
}

// Active reports whether the given gesture is in flight for the appointment.
func (t *Tracker) Active(kind GestureKind, appointmentID uuid.UUID) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current.Kind == kind && t.current.AppointmentID == appointmentID
}

// Current returns a snapshot of the gesture state.
func (t *Tracker) Current() Gesture {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current
}
