package scheduling

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/clinicdesk/scheduling/internal/appointments"
)

// Change is a proposed mutation to one appointment's schedulable fields,
// applied optimistically before the remote store confirms it.
type Change struct {
	AppointmentID   uuid.UUID
	StartTime       time.Time
	EndTime         time.Time
	DurationMinutes int
}

// Undo is a typed compensating record produced by an optimistic apply. On
// rollback it is applied verbatim, restoring the appointment exactly to its
// pre-gesture state.
type Undo struct {
	AppointmentID uuid.UUID
	Previous      appointments.Appointment
}

// DayStats aggregates a doctor's load for one calendar day. It is derived
// from the collection and recomputed after every commit or rollback.
type DayStats struct {
	Appointments  int `json:"appointments"`
	BookedMinutes int `json:"bookedMinutes"`
}

type statsKey struct {
	doctorID uuid.UUID
	day      string
}

// Collection is the shared in-memory appointment read model. All writes go
// through the coordinator; calendar views only read. The single-writer
// discipline is what keeps commit/rollback race-free.
type Collection struct {
	mu    sync.RWMutex
	byID  map[uuid.UUID]appointments.Appointment
	stats map[statsKey]DayStats
}

// NewCollection creates an empty collection.
func NewCollection() *Collection {
	return &Collection{
		byID:  make(map[uuid.UUID]appointments.Appointment),
		stats: make(map[statsKey]DayStats),
	}
}

// Load replaces the collection contents with appointments read from the
// external store.
func (c *Collection) Load(appts []appointments.Appointment) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.byID = make(map[uuid.UUID]appointments.Appointment, len(appts))
	for _, a := range appts {
		c.byID[a.ID] = a
	}
	c.stats = make(map[statsKey]DayStats)
}

// Get returns one appointment by id.
func (c *Collection) Get(id uuid.UUID) (appointments.Appointment, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	a, ok := c.byID[id]
	return a, ok
}

// List returns all appointments ordered by start time.
func (c *Collection) List() []appointments.Appointment {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]appointments.Appointment, 0, len(c.byID))
	for _, a := range c.byID {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StartTime.Equal(out[j].StartTime) {
			return out[i].ID.String() < out[j].ID.String()
		}
		return out[i].StartTime.Before(out[j].StartTime)
	})
	return out
}

// ForDoctorOnDay returns the doctor's appointments starting on the given
// calendar day, ordered by start time.
func (c *Collection) ForDoctorOnDay(doctorID uuid.UUID, day time.Time) []appointments.Appointment {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []appointments.Appointment
	for _, a := range c.byID {
		if a.DoctorID == doctorID && appointments.SameDay(a.StartTime, day) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].StartTime.Before(out[j].StartTime)
	})
	return out
}

// ApplyOptimistic applies the proposed change to the collection and returns
// the compensating record that reverts it. The change becomes visible to
// readers immediately, before the remote store has confirmed it.
func (c *Collection) ApplyOptimistic(change Change) (Undo, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	current, ok := c.byID[change.AppointmentID]
	if !ok {
		return Undo{}, appointments.ErrNotFound
	}

	next := current
	next.StartTime = change.StartTime
	next.EndTime = change.EndTime
	next.DurationMinutes = change.DurationMinutes
	if err := next.Validate(); err != nil {
		return Undo{}, err
	}

	c.byID[change.AppointmentID] = next
	c.invalidateStatsLocked(current)
	c.invalidateStatsLocked(next)

	return Undo{AppointmentID: change.AppointmentID, Previous: current}, nil
}

// Commit replaces the cached appointment with the authoritative server
// response. Committing the same payload twice is a no-op diff.
func (c *Collection) Commit(authoritative appointments.Appointment) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if prev, ok := c.byID[authoritative.ID]; ok {
		if prev == authoritative {
			return
		}
		c.invalidateStatsLocked(prev)
	}
	c.byID[authoritative.ID] = authoritative
	c.invalidateStatsLocked(authoritative)
}

// Rollback restores the pre-gesture snapshot captured by ApplyOptimistic.
func (c *Collection) Rollback(undo Undo) {
	if undo.AppointmentID == uuid.Nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if cur, ok := c.byID[undo.AppointmentID]; ok {
		c.invalidateStatsLocked(cur)
	}
	c.byID[undo.AppointmentID] = undo.Previous
	c.invalidateStatsLocked(undo.Previous)
}

// Remove drops an appointment deleted by the external store.
func (c *Collection) Remove(id uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if a, ok := c.byID[id]; ok {
		c.invalidateStatsLocked(a)
		delete(c.byID, id)
	}
}

// DayStats returns the doctor's aggregate load for a calendar day. Cancelled
// and no-show appointments do not count. Results are cached until a write
// touches that doctor-day.
func (c *Collection) DayStats(doctorID uuid.UUID, day time.Time) DayStats {
	key := statsKey{doctorID: doctorID, day: dayKey(day)}

	c.mu.RLock()
	cached, ok := c.stats[key]
	c.mu.RUnlock()
	if ok {
		return cached
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if cached, ok := c.stats[key]; ok {
		return cached
	}

	var s DayStats
	for _, a := range c.byID {
		if a.DoctorID != doctorID || !appointments.SameDay(a.StartTime, day) {
			continue
		}
		if !a.Status.Blocking() {
			continue
		}
		s.Appointments++
		s.BookedMinutes += a.DurationMinutes
	}
	c.stats[key] = s
	return s
}

func (c *Collection) invalidateStatsLocked(a appointments.Appointment) {
	delete(c.stats, statsKey{doctorID: a.DoctorID, day: dayKey(a.StartTime)})
}

func dayKey(t time.Time) string {
	return t.Format(time.DateOnly)
}
