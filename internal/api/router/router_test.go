package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/clinicdesk/scheduling/internal/appointments"
)

type stubRepo struct{}

func (stubRepo) GetByID(ctx context.Context, id uuid.UUID) (*appointments.Appointment, error) {
	return nil, appointments.ErrNotFound
}

func (stubRepo) List(ctx context.Context) ([]appointments.Appointment, error) {
	return nil, nil
}

func (stubRepo) ListByDoctorBetween(ctx context.Context, doctorID uuid.UUID, from, to time.Time) ([]appointments.Appointment, error) {
	return nil, nil
}

func (stubRepo) FindConflicts(ctx context.Context, doctorID uuid.UUID, start, end time.Time, excludeID uuid.UUID) (appointments.ConflictResult, error) {
	return appointments.ConflictResult{}, nil
}

func (stubRepo) Update(ctx context.Context, id uuid.UUID, fields appointments.UpdateFields) (*appointments.Appointment, error) {
	return nil, appointments.ErrNotFound
}

func newTestRouter() http.Handler {
	return New(&Config{
		AppointmentsHandler: appointments.NewHandler(stubRepo{}, nil),
		MetricsHandler:      promhttp.HandlerFor(prometheus.NewRegistry(), promhttp.HandlerOpts{}),
	})
}

func TestHealthEndpoint(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAppointmentRoutesMounted(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/appointments", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	newTestRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/appointments/"+uuid.NewString(), nil))
	if rec.Code != http.StatusBadRequest && rec.Code != http.StatusNotFound {
		t.Fatalf("expected mounted PATCH route, got %d", rec.Code)
	}
}
