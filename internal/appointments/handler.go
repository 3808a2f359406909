package appointments

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/clinicdesk/scheduling/pkg/logging"
)

// Handler exposes the conflict-check and update capabilities over HTTP.
type Handler struct {
	repo   Repository
	logger *logging.Logger
}

// NewHandler creates a new appointments handler.
func NewHandler(repo Repository, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, logger: logger}
}

// Routes returns the appointment routes.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListAppointments)
	r.Post("/conflicts", h.CheckConflicts)
	r.Patch("/{appointmentID}", h.UpdateAppointment)
	return r
}

// ConflictCheckRequest is the body for POST /appointments/conflicts.
type ConflictCheckRequest struct {
	DoctorID             uuid.UUID  `json:"doctorId"`
	StartTime            time.Time  `json:"startTime"`
	EndTime              time.Time  `json:"endTime"`
	ExcludeAppointmentID *uuid.UUID `json:"excludeAppointmentId,omitempty"`
}

// CheckConflicts handles POST /appointments/conflicts requests.
func (h *Handler) CheckConflicts(w http.ResponseWriter, r *http.Request) {
	var req ConflictCheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.DoctorID == uuid.Nil {
		http.Error(w, ErrMissingDoctor.Error(), http.StatusBadRequest)
		return
	}
	if !req.EndTime.After(req.StartTime) {
		http.Error(w, ErrInvalidInterval.Error(), http.StatusBadRequest)
		return
	}

	exclude := uuid.Nil
	if req.ExcludeAppointmentID != nil {
		exclude = *req.ExcludeAppointmentID
	}

	result, err := h.repo.FindConflicts(r.Context(), req.DoctorID, req.StartTime, req.EndTime, exclude)
	if err != nil {
		h.logger.Error("conflict check failed", "doctor_id", req.DoctorID, "error", err)
		http.Error(w, "conflict check failed", http.StatusInternalServerError)
		return
	}
	if result.Conflicts == nil {
		result.Conflicts = []Appointment{}
	}

	writeJSON(w, http.StatusOK, result)
}

// UpdateAppointment handles PATCH /appointments/{appointmentID} requests.
// A conflicting interval is rejected with 409 and the conflict payload.
func (h *Handler) UpdateAppointment(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "appointmentID"))
	if err != nil {
		http.Error(w, "invalid appointment id", http.StatusBadRequest)
		return
	}

	var fields UpdateFields
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	updated, err := h.repo.Update(r.Context(), id, fields)
	if err != nil {
		if ce, ok := IsConflict(err); ok {
			h.logger.Info("update rejected: conflict", "id", id, "conflicts", len(ce.Conflicts))
			writeJSON(w, http.StatusConflict, ConflictResult{HasConflict: true, Conflicts: ce.Conflicts})
			return
		}
		switch {
		case errors.Is(err, ErrNotFound):
			http.Error(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, ErrEmptyUpdate),
			errors.Is(err, ErrInvalidInterval),
			errors.Is(err, ErrInvalidDuration),
			errors.Is(err, ErrUnknownStatus):
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		default:
			h.logger.Error("update failed", "id", id, "error", err)
			http.Error(w, "update failed", http.StatusInternalServerError)
		}
		return
	}

	h.logger.Info("appointment updated", "id", updated.ID, "status", updated.Status)
	writeJSON(w, http.StatusOK, updated)
}

// ListAppointments handles GET /appointments requests with optional doctorId,
// from and to filters.
func (h *Handler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if doctorParam := q.Get("doctorId"); doctorParam != "" {
		doctorID, err := uuid.Parse(doctorParam)
		if err != nil {
			http.Error(w, "invalid doctor id", http.StatusBadRequest)
			return
		}
		from, to, err := parseWindow(q.Get("from"), q.Get("to"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		appts, err := h.repo.ListByDoctorBetween(r.Context(), doctorID, from, to)
		if err != nil {
			h.logger.Error("list by doctor failed", "doctor_id", doctorID, "error", err)
			http.Error(w, "list failed", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, listResponse(appts))
		return
	}

	appts, err := h.repo.List(r.Context())
	if err != nil {
		h.logger.Error("list failed", "error", err)
		http.Error(w, "list failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, listResponse(appts))
}

// ListAppointmentsResponse is the response for listing appointments.
type ListAppointmentsResponse struct {
	Appointments []Appointment `json:"appointments"`
	Count        int           `json:"count"`
}

func listResponse(appts []Appointment) ListAppointmentsResponse {
	if appts == nil {
		appts = []Appointment{}
	}
	return ListAppointmentsResponse{Appointments: appts, Count: len(appts)}
}

func parseWindow(fromParam, toParam string) (time.Time, time.Time, error) {
	from := time.Time{}
	to := time.Date(9999, 1, 1, 0, 0, 0, 0, time.UTC)
	if fromParam != "" {
		parsed, err := time.Parse(time.RFC3339, fromParam)
		if err != nil {
			return from, to, errors.New("invalid from timestamp")
		}
		from = parsed
	}
	if toParam != "" {
		parsed, err := time.Parse(time.RFC3339, toParam)
		if err != nil {
			return from, to, errors.New("invalid to timestamp")
		}
		to = parsed
	}
	return from, to, nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
