package appointments

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func validAppointment() Appointment {
	start := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	return Appointment{
		ID:              uuid.New(),
		PatientID:       uuid.New(),
		DoctorID:        uuid.New(),
		StartTime:       start,
		EndTime:         start.Add(60 * time.Minute),
		DurationMinutes: 60,
		Type:            TypeConsultation,
		Status:          StatusScheduled,
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Appointment)
		wantErr error
	}{
		{"valid", func(a *Appointment) {}, nil},
		{"missing doctor", func(a *Appointment) { a.DoctorID = uuid.Nil }, ErrMissingDoctor},
		{"missing patient", func(a *Appointment) { a.PatientID = uuid.Nil }, ErrMissingPatient},
		{"end equals start", func(a *Appointment) { a.EndTime = a.StartTime }, ErrInvalidInterval},
		{"end before start", func(a *Appointment) { a.EndTime = a.StartTime.Add(-time.Minute) }, ErrInvalidInterval},
		{"duration too short", func(a *Appointment) { a.DurationMinutes = 10 }, ErrInvalidDuration},
		{"duration too long", func(a *Appointment) { a.DurationMinutes = 500 }, ErrInvalidDuration},
		{"unknown type", func(a *Appointment) { a.Type = "walk_in" }, ErrUnknownType},
		{"unknown status", func(a *Appointment) { a.Status = "pending" }, ErrUnknownStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := validAppointment()
			tt.mutate(&a)
			if err := a.Validate(); !errors.Is(err, tt.wantErr) {
				t.Fatalf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRescheduledKeepsDuration(t *testing.T) {
	a := validAppointment()
	target := time.Date(2026, 3, 4, 8, 0, 0, 0, time.UTC)

	moved := a.Rescheduled(target)

	if !moved.StartTime.Equal(target) {
		t.Fatalf("start = %v, want %v", moved.StartTime, target)
	}
	if !moved.EndTime.Equal(target.Add(60 * time.Minute)) {
		t.Fatalf("end = %v, want start+60m", moved.EndTime)
	}
	if moved.DurationMinutes != a.DurationMinutes {
		t.Fatalf("duration changed: %d", moved.DurationMinutes)
	}
	// the receiver is untouched
	if !a.StartTime.Equal(time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)) {
		t.Fatal("Rescheduled mutated its receiver")
	}
}

func TestResizedNeverMovesStart(t *testing.T) {
	a := validAppointment()

	resized := a.Resized(90)

	if !resized.StartTime.Equal(a.StartTime) {
		t.Fatalf("start moved: %v", resized.StartTime)
	}
	if resized.DurationMinutes != 90 {
		t.Fatalf("duration = %d, want 90", resized.DurationMinutes)
	}
	if !resized.EndTime.Equal(a.StartTime.Add(90 * time.Minute)) {
		t.Fatalf("end = %v, want start+90m", resized.EndTime)
	}
}

func TestDay(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	a := validAppointment()
	a.StartTime = time.Date(2026, 3, 2, 23, 30, 0, 0, loc)

	day := a.Day()
	if day.Hour() != 0 || day.Day() != 2 || day.Location() != loc {
		t.Fatalf("Day() = %v", day)
	}
}

func TestSameDay(t *testing.T) {
	morning := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	evening := time.Date(2026, 3, 2, 23, 59, 0, 0, time.UTC)
	nextDay := time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)

	if !SameDay(morning, evening) {
		t.Fatal("same calendar day reported as different")
	}
	if SameDay(evening, nextDay) {
		t.Fatal("adjacent days reported as same")
	}
}
