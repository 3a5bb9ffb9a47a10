package backend

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

	"github.com/templeseva/priest_scheduler/internal/model"
	"go.uber.org/zap"
)

// Config configures the REST client.
type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Method string
	Path   string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.Code, e.Body)
}

// Client talks to the temple backend: three reads and the availability and
// appointment writes. It implements service.AvailabilitySource and
// service.AppointmentStore.
type Client struct {
	config     Config
	httpClient *http.Client
	logger     *zap.Logger
}

func NewClient(config Config, logger *zap.Logger) *Client {
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")
	if config.Timeout <= 0 {
		config.Timeout = 10 * time.Second
	}
	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		logger: logger,
	}
}

// ListBookings returns the customer bookings of a priest.
func (c *Client) ListBookings(ctx context.Context, priestID string) ([]model.Booking, error) {
	var bookings []model.Booking
	if err := c.do(ctx, http.MethodGet, priestPath(priestID, "bookings"), nil, &bookings); err != nil {
		return nil, fmt.Errorf("get priest bookings: %w", err)
	}
	return bookings, nil
}

// ListManualAppointments returns the manually entered appointments of a priest.
func (c *Client) ListManualAppointments(ctx context.Context, priestID string) ([]model.Appointment, error) {
	var appointments []model.Appointment
	if err := c.do(ctx, http.MethodGet, priestPath(priestID, "manual-appointments"), nil, &appointments); err != nil {
		return nil, fmt.Errorf("get manual appointments: %w", err)
	}
	return appointments, nil
}

// ListOverrides returns the priest-declared unavailable slots.
func (c *Client) ListOverrides(ctx context.Context, priestID string) ([]model.AvailabilityOverride, error) {
	var overrides []model.AvailabilityOverride
	if err := c.do(ctx, http.MethodGet, priestPath(priestID, "availability-overrides"), nil, &overrides); err != nil {
		return nil, fmt.Errorf("get availability overrides: %w", err)
	}
	return overrides, nil
}

// SaveAvailability replaces the override set of one date.
func (c *Client) SaveAvailability(ctx context.Context, req model.SaveAvailabilityRequest) error {
	if err := c.do(ctx, http.MethodPost, "/availability", req, nil); err != nil {
		return fmt.Errorf("save availability: %w", err)
	}
	return nil
}

// CreateAppointment stores a new manual appointment. An empty response body
// means the backend accepted the request as sent.
func (c *Client) CreateAppointment(ctx context.Context, appt model.Appointment) (model.Appointment, error) {
	created := appt
	if err := c.do(ctx, http.MethodPost, "/appointments", appt, &created); err != nil {
		return model.Appointment{}, fmt.Errorf("create appointment: %w", err)
	}
	return created, nil
}

// UpdateAppointment replaces an existing manual appointment.
func (c *Client) UpdateAppointment(ctx context.Context, appt model.Appointment) (model.Appointment, error) {
	updated := appt
	path := "/appointments/" + url.PathEscape(appt.ID)
	if err := c.do(ctx, http.MethodPut, path, appt, &updated); err != nil {
		return model.Appointment{}, fmt.Errorf("update appointment: %w", err)
	}
	return updated, nil
}

func priestPath(priestID, resource string) string {
	return "/priests/" + url.PathEscape(priestID) + "/" + resource
}

// do sends the request and decodes a JSON response into out when out is not nil.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	c.logger.Debug("Backend request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("took", time.Since(started)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &StatusError{Method: method, Path: path, Code: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.config.BaseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	if c.config.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.Token)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return req, nil
}
