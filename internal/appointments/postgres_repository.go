package appointments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const appointmentColumns = `id, patient_id, doctor_id, start_time, end_time, duration_minutes, type, status, reason, notes, created_at, updated_at`

// DB abstracts the pgx query interface for testing.
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository is the authoritative store behind the conflict-check and
// update capabilities.
type PostgresRepository struct {
	db DB
}

// NewPostgresRepository creates a repository backed by a pgx pool or mock.
func NewPostgresRepository(db DB) *PostgresRepository {
	if db == nil {
		panic("appointments: db required")
	}
	return &PostgresRepository{db: db}
}

// GetByID loads a single appointment.
func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE id = $1`, id)
	a, err := scanAppointment(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("appointments: get by id: %w", err)
	}
	return a, nil
}

// List returns all appointments ordered by start time.
func (r *PostgresRepository) List(ctx context.Context) ([]Appointment, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		ORDER BY start_time ASC`)
	if err != nil {
		return nil, fmt.Errorf("appointments: list: %w", err)
	}
	defer rows.Close()
	return scanAppointments(rows)
}

// ListByDoctorBetween returns a doctor's appointments starting within [from,to).
func (r *PostgresRepository) ListByDoctorBetween(ctx context.Context, doctorID uuid.UUID, from, to time.Time) ([]Appointment, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE doctor_id = $1 AND start_time >= $2 AND start_time < $3
		ORDER BY start_time ASC`, doctorID, from, to)
	if err != nil {
		return nil, fmt.Errorf("appointments: list by doctor: %w", err)
	}
	defer rows.Close()
	return scanAppointments(rows)
}

// FindConflicts returns blocking appointments that overlap [start,end) for the
// doctor. Half-open comparison: touching boundaries do not conflict.
func (r *PostgresRepository) FindConflicts(ctx context.Context, doctorID uuid.UUID, start, end time.Time, excludeID uuid.UUID) (ConflictResult, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE doctor_id = $1
		  AND start_time < $3 AND end_time > $2
		  AND status NOT IN ('cancelled', 'no_show')
		  AND ($4::uuid IS NULL OR id <> $4)
		ORDER BY start_time ASC`, doctorID, start, end, nullableUUID(excludeID))
	if err != nil {
		return ConflictResult{}, fmt.Errorf("appointments: find conflicts: %w", err)
	}
	defer rows.Close()
	conflicts, err := scanAppointments(rows)
	if err != nil {
		return ConflictResult{}, err
	}
	return ConflictResult{HasConflict: len(conflicts) > 0, Conflicts: conflicts}, nil
}

// Update applies a partial update inside a transaction, re-checking conflicts
// against the current table state before writing. This is the server-side
// second check that backs the engine's commit step.
func (r *PostgresRepository) Update(ctx context.Context, id uuid.UUID, fields UpdateFields) (*Appointment, error) {
	if fields.Empty() {
		return nil, ErrEmptyUpdate
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("appointments: update: begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	row := tx.QueryRow(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE id = $1
		FOR UPDATE`, id)
	current, err := scanAppointment(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("appointments: update: load: %w", err)
	}

	next := *current
	if fields.StartTime != nil {
		next.StartTime = *fields.StartTime
	}
	if fields.EndTime != nil {
		next.EndTime = *fields.EndTime
	}
	if fields.StartTime != nil || fields.EndTime != nil {
		next.DurationMinutes = int(next.EndTime.Sub(next.StartTime) / time.Minute)
	}
	if fields.Status != nil {
		if !fields.Status.Known() {
			return nil, ErrUnknownStatus
		}
		next.Status = *fields.Status
	}
	if err := next.Validate(); err != nil {
		return nil, err
	}

	intervalChanged := fields.StartTime != nil || fields.EndTime != nil
	if intervalChanged && next.Status.Blocking() {
		rows, err := tx.Query(ctx, `
			SELECT `+appointmentColumns+`
			FROM appointments
			WHERE doctor_id = $1
			  AND start_time < $3 AND end_time > $2
			  AND status NOT IN ('cancelled', 'no_show')
			  AND id <> $4
			ORDER BY start_time ASC`, next.DoctorID, next.StartTime, next.EndTime, id)
		if err != nil {
			return nil, fmt.Errorf("appointments: update: conflict check: %w", err)
		}
		conflicts, err := scanAppointments(rows)
		rows.Close()
		if err != nil {
			return nil, err
		}
		if len(conflicts) > 0 {
			return nil, &ConflictError{Conflicts: conflicts}
		}
	}

	next.UpdatedAt = time.Now().UTC()
	_, err = tx.Exec(ctx, `
		UPDATE appointments
		SET start_time = $2, end_time = $3, duration_minutes = $4, status = $5, updated_at = $6
		WHERE id = $1`,
		id, next.StartTime, next.EndTime, next.DurationMinutes, string(next.Status), next.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("appointments: update: write: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("appointments: update: commit: %w", err)
	}
	return &next, nil
}

func nullableUUID(id uuid.UUID) any {
	if id == uuid.Nil {
		return nil
	}
	return id
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAppointment(row rowScanner) (*Appointment, error) {
	var a Appointment
	var status, typ string
	err := row.Scan(
		&a.ID, &a.PatientID, &a.DoctorID,
		&a.StartTime, &a.EndTime, &a.DurationMinutes,
		&typ, &status, &a.Reason, &a.Notes,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	a.Type = Type(typ)
	a.Status = Status(status)
	return &a, nil
}

func scanAppointments(rows pgx.Rows) ([]Appointment, error) {
	var out []Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("appointments: scan row: %w", err)
		}
		out = append(out, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("appointments: iterate rows: %w", err)
	}
	return out, nil
}
