// Package client is the HTTP implementation of agenda.Service: it talks to
// the /api/appointments and /api/practitioners endpoints and decodes the
// display projections the server produces.
package client

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

	"github.com/dentadmin/backend/internal/agenda"
)

// Client calls the appointment API over HTTP.
type Client struct {
	baseURL string
	token   string
	client  *http.Client
}

// New returns a client for the API at baseURL (e.g. "http://localhost:8080").
// token, when non-empty, is sent as a bearer token on every request.
func New(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// apiError is the {"error": "..."} body every non-2xx response carries.
type apiError struct {
	Error string `json:"error"`
}

func (c *Client) Practitioners(ctx context.Context) ([]agenda.Practitioner, error) {
	var list []agenda.Practitioner
	if err := c.get(ctx, "/api/practitioners", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *Client) Appointments(ctx context.Context, f agenda.Filters) ([]agenda.Appointment, error) {
	q := url.Values{}
	if f.Date != "" {
		q.Set("date", f.Date)
	}
	if f.PractitionerID != "" {
		q.Set("practitionerId", f.PractitionerID)
	}
	if f.PatientSearch != "" {
		q.Set("patientSearch", f.PatientSearch)
	}
	if f.Status != "" {
		q.Set("status", f.Status)
	}
	var list []agenda.Appointment
	if err := c.get(ctx, "/api/appointments", q, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *Client) CreateAppointment(ctx context.Context, apt agenda.Appointment) (int, error) {
	var res struct {
		Success       bool `json:"success"`
		AppointmentID int  `json:"appointmentId"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/appointments", apt, &res); err != nil {
		return 0, err
	}
	return res.AppointmentID, nil
}

// UpdateAppointment sends the full record; the server replaces every
// mutable column (last write wins).
func (c *Client) UpdateAppointment(ctx context.Context, apt agenda.Appointment) error {
	return c.do(ctx, http.MethodPut, "/api/appointments", apt, nil)
}

func (c *Client) DeleteAppointment(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/appointments?id=%d", id), nil, nil)
}

func (c *Client) get(ctx context.Context, path string, q url.Values, out interface{}) error {
	if len(q) > 0 {
		path = path + "?" + q.Encode()
	}
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr apiError
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error != "" {
			return fmt.Errorf("%s %s: %s: %s", method, path, resp.Status, apiErr.Error)
		}
		return fmt.Errorf("%s %s: %s", method, path, resp.Status)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
