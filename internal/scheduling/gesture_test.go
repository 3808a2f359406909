package scheduling

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestTrackerSingleGesture(t *testing.T) {
	tr := NewTracker()
	first := uuid.New()
	second := uuid.New()
	start := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)

	if err := tr.Begin(GestureDragging, first, start, 60); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if err := tr.Begin(GestureResizing, second, start, 30); !errors.Is(err, ErrGestureActive) {
		t.Fatalf("second Begin = %v, want ErrGestureActive", err)
	}
	if err := tr.End(first); err != nil {
		t.Fatalf("End: %v", err)
	}
	if err := tr.Begin(GestureResizing, second, start, 30); err != nil {
		t.Fatalf("Begin after End: %v", err)
	}
}

func TestTrackerEndWrongAppointment(t *testing.T) {
	tr := NewTracker()
	id := uuid.New()
	start := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)

	if err := tr.End(id); !errors.Is(err, ErrNoActiveGesture) {
		t.Fatalf("End while idle = %v, want ErrNoActiveGesture", err)
	}

	if err := tr.Begin(GestureDragging, id, start, 60); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if err := tr.End(uuid.New()); !errors.Is(err, ErrNoActiveGesture) {
		t.Fatalf("End other id = %v, want ErrNoActiveGesture", err)
	}
}

func TestTrackerCandidate(t *testing.T) {
	tr := NewTracker()
	id := uuid.New()
	start := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)

	if err := tr.Begin(GestureResizing, id, start, 30); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if err := tr.SetCandidate(id, start, 45); err != nil {
		t.Fatalf("SetCandidate: %v", err)
	}

	g := tr.Current()
	if g.Kind != GestureResizing || g.AppointmentID != id || g.CandidateDurationMinutes != 45 {
		t.Fatalf("unexpected gesture: %+v", g)
	}

	if err := tr.SetCandidate(uuid.New(), start, 60); !errors.Is(err, ErrNoActiveGesture) {
		t.Fatalf("SetCandidate other id = %v, want ErrNoActiveGesture", err)
	}
}

func TestTrackerBeginRejectsInvalidKind(t *testing.T) {
	tr := NewTracker()
	if err := tr.Begin(GestureIdle, uuid.New(), time.Time{}, 0); !errors.Is(err, ErrInvalidGestureKind) {
		t.Fatalf("Begin(GestureIdle) = %v, want ErrInvalidGestureKind", err)
	}
	if err := tr.Begin(GestureKind(42), uuid.New(), time.Time{}, 0); !errors.Is(err, ErrInvalidGestureKind) {
		t.Fatalf("Begin(unknown kind) = %v, want ErrInvalidGestureKind", err)
	}
	// A rejected Begin leaves the tracker idle and usable.
	if g := tr.Current(); g.Kind != GestureIdle {
		t.Fatalf("tracker not idle after rejected Begin: %+v", g)
	}
}

func TestGestureKindString(t *testing.T) {
	if GestureIdle.String() != "idle" || GestureDragging.String() != "dragging" || GestureResizing.String() != "resizing" {
		t.Fatal("unexpected kind strings")
	}
}
