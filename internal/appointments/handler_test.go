package appointments

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
)

// fakeRepo implements Repository for handler tests.
type fakeRepo struct {
	appts     []Appointment
	updateErr error
	updated   *Appointment
}

func (f *fakeRepo) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	for i := range f.appts {
		if f.appts[i].ID == id {
			return &f.appts[i], nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeRepo) List(ctx context.Context) ([]Appointment, error) {
	return f.appts, nil
}

func (f *fakeRepo) ListByDoctorBetween(ctx context.Context, doctorID uuid.UUID, from, to time.Time) ([]Appointment, error) {
	var out []Appointment
	for _, a := range f.appts {
		if a.DoctorID == doctorID && !a.StartTime.Before(from) && a.StartTime.Before(to) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeRepo) FindConflicts(ctx context.Context, doctorID uuid.UUID, start, end time.Time, excludeID uuid.UUID) (ConflictResult, error) {
	return CheckConflicts(f.appts, doctorID, start, end, excludeID), nil
}

func (f *fakeRepo) Update(ctx context.Context, id uuid.UUID, fields UpdateFields) (*Appointment, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return f.updated, nil
}

func TestHandlerCheckConflicts(t *testing.T) {
	doctor := uuid.New()
	repo := &fakeRepo{appts: []Appointment{booked(doctor, at(10, 0), at(11, 0), StatusConfirmed)}}
	h := NewHandler(repo, nil)

	body, _ := json.Marshal(ConflictCheckRequest{
		DoctorID:  doctor,
		StartTime: at(10, 30),
		EndTime:   at(11, 30),
	})
	req := httptest.NewRequest(http.MethodPost, "/conflicts", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
	}
	var res ConflictResult
	if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !res.HasConflict || len(res.Conflicts) != 1 {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestHandlerCheckConflictsValidation(t *testing.T) {
	h := NewHandler(&fakeRepo{}, nil)

	tests := []struct {
		name string
		body ConflictCheckRequest
	}{
		{"missing doctor", ConflictCheckRequest{StartTime: at(10, 0), EndTime: at(11, 0)}},
		{"inverted interval", ConflictCheckRequest{DoctorID: uuid.New(), StartTime: at(11, 0), EndTime: at(10, 0)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, _ := json.Marshal(tt.body)
			req := httptest.NewRequest(http.MethodPost, "/conflicts", bytes.NewReader(body))
			rec := httptest.NewRecorder()
			h.Routes().ServeHTTP(rec, req)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d", rec.Code)
			}
		})
	}
}

func TestHandlerUpdateAppointment(t *testing.T) {
	updated := validAppointment()
	repo := &fakeRepo{updated: &updated}
	h := NewHandler(repo, nil)

	start := at(13, 0)
	end := at(14, 0)
	body, _ := json.Marshal(UpdateFields{StartTime: &start, EndTime: &end})
	req := httptest.NewRequest(http.MethodPatch, "/"+updated.ID.String(), bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
	}
	var got Appointment
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ID != updated.ID {
		t.Fatalf("unexpected appointment: %+v", got)
	}
}

func TestHandlerUpdateConflictReturns409(t *testing.T) {
	blocker := validAppointment()
	repo := &fakeRepo{updateErr: &ConflictError{Conflicts: []Appointment{blocker}}}
	h := NewHandler(repo, nil)

	start := at(13, 0)
	body, _ := json.Marshal(UpdateFields{StartTime: &start})
	req := httptest.NewRequest(http.MethodPatch, "/"+uuid.New().String(), bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d", rec.Code)
	}
	var res ConflictResult
	if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !res.HasConflict || len(res.Conflicts) != 1 || res.Conflicts[0].ID != blocker.ID {
		t.Fatalf("unexpected payload: %+v", res)
	}
}

func TestHandlerUpdateErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"not found", ErrNotFound, http.StatusNotFound},
		{"empty update", ErrEmptyUpdate, http.StatusUnprocessableEntity},
		{"bad interval", ErrInvalidInterval, http.StatusUnprocessableEntity},
		{"bad duration", ErrInvalidDuration, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(&fakeRepo{updateErr: tt.err}, nil)
			start := at(13, 0)
			body, _ := json.Marshal(UpdateFields{StartTime: &start})
			req := httptest.NewRequest(http.MethodPatch, "/"+uuid.New().String(), bytes.NewReader(body))
			rec := httptest.NewRecorder()
			h.Routes().ServeHTTP(rec, req)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestHandlerListByDoctor(t *testing.T) {
	doctor := uuid.New()
	repo := &fakeRepo{appts: []Appointment{
		booked(doctor, at(9, 0), at(10, 0), StatusScheduled),
		booked(uuid.New(), at(9, 0), at(10, 0), StatusScheduled),
	}}
	h := NewHandler(repo, nil)

	req := httptest.NewRequest(http.MethodGet, "/?doctorId="+doctor.String(), nil)
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var res ListAppointmentsResponse
	if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Count != 1 || res.Appointments[0].DoctorID != doctor {
		t.Fatalf("unexpected response: %+v", res)
	}
}
