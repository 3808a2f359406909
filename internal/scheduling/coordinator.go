package scheduling

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/clinicdesk/scheduling/internal/appointments"
	"github.com/clinicdesk/scheduling/internal/observability/metrics"
	"github.com/clinicdesk/scheduling/pkg/logging"
)

var coordinatorTracer trace.Tracer = otel.Tracer("clinicdesk.scheduling.coordinator")

// ConflictQuery is a proposed interval to validate against the authoritative
// store.
type ConflictQuery struct {
	DoctorID             uuid.UUID
	StartTime            time.Time
	EndTime              time.Time
	ExcludeAppointmentID uuid.UUID
	// Live marks drag-feedback checks that must never be served from cache,
	// so rapid successive drag positions always see fresh results.
	Live bool
}

// ConflictChecker is the remote conflict-check capability.
type ConflictChecker interface {
	CheckConflicts(ctx context.Context, q ConflictQuery) (appointments.ConflictResult, error)
}

// Updater is the remote update capability. The returned appointment is the
// authoritative post-persistence object.
type Updater interface {
	UpdateAppointment(ctx context.Context, id uuid.UUID, fields appointments.UpdateFields) (*appointments.Appointment, error)
}

// Outcome is what the UI layer needs for toast presentation after a gesture
// ends: whether anything was committed and a human-readable reason.
type Outcome struct {
	Committed   bool
	NoOp        bool
	Reason      string
	Appointment *appointments.Appointment
}

// CoordinatorConfig holds coordinator dependencies.
type CoordinatorConfig struct {
	Collection     *Collection
	Checker        ConflictChecker
	Updater        Updater
	Hours          WorkingHours
	MinutesPerUnit float64
	Metrics        *metrics.SchedulingMetrics
	Logger         *logging.Logger
}

// Coordinator applies gesture results to the shared collection with
// optimistic-update semantics: conflict check first, then optimistic apply,
// then the remote update, committing on success and rolling back the typed
// undo record on failure.
type Coordinator struct {
	collection     *Collection
	checker        ConflictChecker
	updater        Updater
	tracker        *Tracker
	hours          WorkingHours
	minutesPerUnit float64
	metrics        *metrics.SchedulingMetrics
	logger         *logging.Logger
}

// NewCoordinator constructs a coordinator.
func NewCoordinator(cfg CoordinatorConfig) *Coordinator {
	if cfg.Collection == nil {
		panic("scheduling: collection required")
	}
	if cfg.Checker == nil {
		panic("scheduling: conflict checker required")
	}
	if cfg.Updater == nil {
		panic("scheduling: updater required")
	}
	hours := cfg.Hours
	if !hours.Valid() {
		hours = DefaultWorkingHours
	}
	minutesPerUnit := cfg.MinutesPerUnit
	if minutesPerUnit <= 0 {
		minutesPerUnit = DefaultMinutesPerUnit
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	return &Coordinator{
		collection:     cfg.Collection,
		checker:        cfg.Checker,
		updater:        cfg.Updater,
		tracker:        NewTracker(),
		hours:          hours,
		minutesPerUnit: minutesPerUnit,
		metrics:        cfg.Metrics,
		logger:         logger.WithComponent("coordinator"),
	}
}

// Collection exposes the shared read model.
func (c *Coordinator) Collection() *Collection {
	return c.collection
}

// Gesture returns the active gesture state for the UI layer.
func (c *Coordinator) Gesture() Gesture {
	return c.tracker.Current()
}

// BeginDrag starts a cross-day reschedule gesture. Terminal-status
// appointments are rejected before any computation, and only one gesture may
// be active at a time.
func (c *Coordinator) BeginDrag(ctx context.Context, id uuid.UUID) error {
	return c.begin(GestureDragging, id)
}

// BeginResize starts a duration-change gesture under the same rules.
func (c *Coordinator) BeginResize(ctx context.Context, id uuid.UUID) error {
	return c.begin(GestureResizing, id)
}

func (c *Coordinator) begin(kind GestureKind, id uuid.UUID) error {
	a, ok := c.collection.Get(id)
	if !ok {
		return appointments.ErrNotFound
	}
	if err := a.EligibleForGesture(); err != nil {
		c.metrics.ObserveGesture(kind.String(), "ineligible")
		return err
	}
	if err := c.tracker.Begin(kind, id, a.StartTime, a.DurationMinutes); err != nil {
		return err
	}
	c.logger.Debug("gesture started", "kind", kind.String(), "id", id)
	return nil
}

// CancelGesture aborts the active gesture without issuing any network call,
// covering Escape and dropping an appointment back on its origin day.
func (c *Coordinator) CancelGesture(id uuid.UUID) error {
	if err := c.tracker.End(id); err != nil {
		return err
	}
	c.metrics.ObserveGesture("any", "cancelled")
	c.logger.Debug("gesture cancelled", "id", id)
	return nil
}

// DragPreview computes the allocator's candidate slot for the target day and
// runs an always-stale conflict check for live feedback. No state is mutated.
func (c *Coordinator) DragPreview(ctx context.Context, id uuid.UUID, targetDay time.Time) (time.Time, appointments.ConflictResult, error) {
	if !c.tracker.Active(GestureDragging, id) {
		return time.Time{}, appointments.ConflictResult{}, ErrNoActiveGesture
	}
	a, ok := c.collection.Get(id)
	if !ok {
		return time.Time{}, appointments.ConflictResult{}, appointments.ErrNotFound
	}
	if appointments.SameDay(a.StartTime, targetDay) {
		return time.Time{}, appointments.ConflictResult{}, ErrSameDayDrop
	}

	booked := c.collection.ForDoctorOnDay(a.DoctorID, targetDay)
	start := FindSlot(targetDay, a.DurationMinutes, booked, c.hours)
	end := start.Add(time.Duration(a.DurationMinutes) * time.Minute)

	res, err := c.checker.CheckConflicts(ctx, ConflictQuery{
		DoctorID:             a.DoctorID,
		StartTime:            start,
		EndTime:              end,
		ExcludeAppointmentID: id,
		Live:                 true,
	})
	if err != nil {
		return start, appointments.ConflictResult{}, fmt.Errorf("scheduling: live conflict check: %w", err)
	}

	_ = c.tracker.SetCandidate(id, start, a.DurationMinutes)
	return start, res, nil
}

// ResizePreview converts the current drag delta into the snapped candidate
// duration for live display. Purely local, no network.
func (c *Coordinator) ResizePreview(id uuid.UUID, deltaUnits float64) (int, error) {
	if !c.tracker.Active(GestureResizing, id) {
		return 0, ErrNoActiveGesture
	}
	a, ok := c.collection.Get(id)
	if !ok {
		return 0, appointments.ErrNotFound
	}
	candidate := SnapDuration(a.DurationMinutes, deltaUnits, c.minutesPerUnit)
	_ = c.tracker.SetCandidate(id, a.StartTime, candidate)
	return candidate, nil
}

// CompleteDrag finishes a drag gesture onto targetDay. Dropping on the day
// the appointment already occupies is a no-op with no network traffic.
// Otherwise the allocator proposes a slot, the remote conflict check
// validates it, and the change is committed optimistically with rollback on
// update failure. The gesture always ends when this returns.
func (c *Coordinator) CompleteDrag(ctx context.Context, id uuid.UUID, targetDay time.Time) (Outcome, error) {
	ctx, span := coordinatorTracer.Start(ctx, "scheduling.complete_drag")
	defer span.End()
	span.SetAttributes(attribute.String("scheduling.appointment_id", id.String()))

	if !c.tracker.Active(GestureDragging, id) {
		return Outcome{}, ErrNoActiveGesture
	}
	defer func() { _ = c.tracker.End(id) }()

	a, ok := c.collection.Get(id)
	if !ok {
		return Outcome{}, appointments.ErrNotFound
	}
	if err := a.EligibleForGesture(); err != nil {
		return Outcome{}, err
	}

	if appointments.SameDay(a.StartTime, targetDay) {
		c.metrics.ObserveGesture("drag", "noop")
		return Outcome{NoOp: true, Reason: "appointment already on this day"}, nil
	}

	booked := c.collection.ForDoctorOnDay(a.DoctorID, targetDay)
	start := FindSlot(targetDay, a.DurationMinutes, booked, c.hours)
	end := start.Add(time.Duration(a.DurationMinutes) * time.Minute)

	outcome, err := c.commit(ctx, "drag", a, Change{
		AppointmentID:   id,
		StartTime:       start,
		EndTime:         end,
		DurationMinutes: a.DurationMinutes,
	}, appointments.UpdateFields{StartTime: &start, EndTime: &end})
	if err != nil {
		span.RecordError(err)
	}
	return outcome, err
}

// CompleteResize finishes a resize gesture. The snapped duration equal to the
// original is a no-op with no network call; a conflicting end time aborts
// before any mutation. The start time is never changed.
func (c *Coordinator) CompleteResize(ctx context.Context, id uuid.UUID, deltaUnits float64) (Outcome, error) {
	ctx, span := coordinatorTracer.Start(ctx, "scheduling.complete_resize")
	defer span.End()
	span.SetAttributes(attribute.String("scheduling.appointment_id", id.String()))

	if !c.tracker.Active(GestureResizing, id) {
		return Outcome{}, ErrNoActiveGesture
	}
	defer func() { _ = c.tracker.End(id) }()

	a, ok := c.collection.Get(id)
	if !ok {
		return Outcome{}, appointments.ErrNotFound
	}
	if err := a.EligibleForGesture(); err != nil {
		return Outcome{}, err
	}

	newDuration := SnapDuration(a.DurationMinutes, deltaUnits, c.minutesPerUnit)
	if newDuration == a.DurationMinutes {
		c.metrics.ObserveGesture("resize", "noop")
		return Outcome{NoOp: true, Reason: "duration unchanged"}, nil
	}

	end := a.StartTime.Add(time.Duration(newDuration) * time.Minute)
	outcome, err := c.commit(ctx, "resize", a, Change{
		AppointmentID:   id,
		StartTime:       a.StartTime,
		EndTime:         end,
		DurationMinutes: newDuration,
	}, appointments.UpdateFields{EndTime: &end})
	if err != nil {
		span.RecordError(err)
	}
	return outcome, err
}

// commit runs the shared conflict-check → optimistic apply → remote update →
// commit-or-rollback sequence. The two network calls are awaited in order,
// never concurrently for the same appointment.
func (c *Coordinator) commit(ctx context.Context, kind string, a appointments.Appointment, change Change, fields appointments.UpdateFields) (Outcome, error) {
	started := time.Now()

	res, err := c.checker.CheckConflicts(ctx, ConflictQuery{
		DoctorID:             a.DoctorID,
		StartTime:            change.StartTime,
		EndTime:              change.EndTime,
		ExcludeAppointmentID: a.ID,
	})
	if err != nil {
		c.metrics.ObserveGesture(kind, "error")
		return Outcome{}, fmt.Errorf("scheduling: conflict check: %w", err)
	}
	if res.HasConflict {
		c.metrics.ObserveConflict(kind)
		c.metrics.ObserveGesture(kind, "conflict")
		c.logger.Info("gesture aborted: conflict",
			"kind", kind,
			"id", a.ID,
			"conflicts", len(res.Conflicts),
		)
		return Outcome{Reason: "the proposed time overlaps another appointment"},
			&ConflictDetectedError{Conflicts: res.Conflicts}
	}

	undo, err := c.collection.ApplyOptimistic(change)
	if err != nil {
		c.metrics.ObserveGesture(kind, "error")
		return Outcome{}, fmt.Errorf("scheduling: optimistic apply: %w", err)
	}

	updated, err := c.updater.UpdateAppointment(ctx, a.ID, fields)
	if err != nil {
		c.collection.Rollback(undo)
		c.metrics.ObserveRollback(kind)
		c.metrics.ObserveGesture(kind, "rolled_back")
		c.logger.Warn("remote update failed, rolled back",
			"kind", kind,
			"id", a.ID,
			"error", err,
		)
		return Outcome{Reason: "saving the change failed, your calendar was restored"},
			&UpdateFailedError{Err: err}
	}

	c.collection.Commit(*updated)
	c.metrics.ObserveGesture(kind, "committed")
	c.metrics.ObserveCommitLatency(kind, time.Since(started).Seconds())
	c.logger.Info("gesture committed",
		"kind", kind,
		"id", updated.ID,
		"start", updated.StartTime.Format(time.RFC3339),
		"duration_minutes", updated.DurationMinutes,
	)
	return Outcome{Committed: true, Reason: "appointment updated", Appointment: updated}, nil
}
