// Package clinicapi is the HTTP client for the clinic appointment service,
// with an optional Redis caching layer for conflict checks.
package clinicapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/clinicdesk/scheduling/internal/appointments"
	"github.com/clinicdesk/scheduling/internal/scheduling"
	"github.com/clinicdesk/scheduling/pkg/logging"
)

const defaultTimeout = 20 * time.Second

// Client talks to the clinic appointment service over REST.
type Client struct {
	baseURL    string
	httpClient *http.Client
	apiKey     string
	logger     *logging.Logger
}

// NewClient creates a new appointment service client.
func NewClient(baseURL, apiKey string, logger *logging.Logger) *Client {
	if logger == nil {
		logger = logging.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		apiKey: apiKey,
		logger: logger.WithComponent("clinicapi"),
	}
}

// CheckConflicts validates a proposed interval against the authoritative
// store. It satisfies the scheduling.ConflictChecker interface.
func (c *Client) CheckConflicts(ctx context.Context, q scheduling.ConflictQuery) (appointments.ConflictResult, error) {
	req := appointments.ConflictCheckRequest{
		DoctorID:  q.DoctorID,
		StartTime: q.StartTime,
		EndTime:   q.EndTime,
	}
	if q.ExcludeAppointmentID != uuid.Nil {
		exclude := q.ExcludeAppointmentID
		req.ExcludeAppointmentID = &exclude
	}

	var result appointments.ConflictResult
	if err := c.do(ctx, http.MethodPost, "/appointments/conflicts", req, &result); err != nil {
		return appointments.ConflictResult{}, err
	}
	return result, nil
}

// UpdateAppointment applies a partial update and returns the authoritative
// post-persistence appointment. A 409 from the service is surfaced as a
// *appointments.ConflictError so callers can present the overlapping
// appointments. It satisfies the scheduling.Updater interface.
func (c *Client) UpdateAppointment(ctx context.Context, id uuid.UUID, fields appointments.UpdateFields) (*appointments.Appointment, error) {
	var updated appointments.Appointment
	if err := c.do(ctx, http.MethodPatch, "/appointments/"+id.String(), fields, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// ListAppointments fetches a doctor's appointments inside [from, to).
func (c *Client) ListAppointments(ctx context.Context, doctorID uuid.UUID, from, to time.Time) ([]appointments.Appointment, error) {
	params := url.Values{}
	params.Set("doctorId", doctorID.String())
	if !from.IsZero() {
		params.Set("from", from.UTC().Format(time.RFC3339))
	}
	if !to.IsZero() {
		params.Set("to", to.UTC().Format(time.RFC3339))
	}

	var resp appointments.ListAppointmentsResponse
	if err := c.do(ctx, http.MethodGet, "/appointments?"+params.Encode(), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Appointments, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("clinicapi: marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("clinicapi: create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("clinicapi: http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("clinicapi: read response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		if out == nil {
			return nil
		}
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("clinicapi: unmarshal response: %w", err)
		}
		return nil
	case http.StatusConflict:
		var result appointments.ConflictResult
		if err := json.Unmarshal(respBody, &result); err != nil {
			return fmt.Errorf("clinicapi: unmarshal conflict response: %w", err)
		}
		return &appointments.ConflictError{Conflicts: result.Conflicts}
	case http.StatusNotFound:
		return appointments.ErrNotFound
	default:
		msg := string(respBody)
		if len(msg) > 300 {
			msg = msg[:300]
		}
		return fmt.Errorf("clinicapi: status %d: %s", resp.StatusCode, strings.TrimSpace(msg))
	}
}
