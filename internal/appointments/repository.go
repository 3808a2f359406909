package appointments

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UpdateFields is a partial update applied to an appointment row. Nil fields
// are left untouched.
type UpdateFields struct {
	StartTime *time.Time `json:"startTime,omitempty"`
	EndTime   *time.Time `json:"endTime,omitempty"`
	Status    *Status    `json:"status,omitempty"`
}

// Empty reports whether the update carries no fields.
func (f UpdateFields) Empty() bool {
	return f.StartTime == nil && f.EndTime == nil && f.Status == nil
}

// Repository defines the authoritative appointment storage the scheduling
// engine reads from and commits to.
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	List(ctx context.Context) ([]Appointment, error)
	ListByDoctorBetween(ctx context.Context, doctorID uuid.UUID, from, to time.Time) ([]Appointment, error)
	FindConflicts(ctx context.Context, doctorID uuid.UUID, start, end time.Time, excludeID uuid.UUID) (ConflictResult, error)
	Update(ctx context.Context, id uuid.UUID, fields UpdateFields) (*Appointment, error)
}
