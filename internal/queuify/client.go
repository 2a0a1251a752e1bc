package queuify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// API defines the interface for talking to the Queuify backend.
// This interface is implemented by *Client and can be used for testing.
type API interface {
	FetchLiveQueue(ctx context.Context, date string) ([]Queue, error)
	UpdateAppointmentStatus(ctx context.Context, appointmentID int64, status Status) error
	FetchQueueStatus(ctx context.Context, appointmentID int64) (*QueueStatus, error)
}

// Ensure Client implements API at compile time.
var _ API = (*Client)(nil)

// Client talks to the Queuify HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	token     string
	userAgent string
}

const (
	defaultAPIBase   = "127.0.0.1:8080"
	defaultUserAgent = "qboard/0.1"
	requestTimeout   = 5 * time.Second

	// DateLayout is the wire format for the live-queue date parameter.
	DateLayout = "2006-01-02"
)

// NewClient builds a Client for the given base URL. token may be empty when
// the backend runs without auth (local development).
func NewClient(apiBase, token string) (*Client, error) {
	base, err := parseBaseURL(apiBase)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		token:     token,
		userAgent: defaultUserAgent,
	}, nil
}

// FetchLiveQueue retrieves the admin live-queue snapshot for one date.
// Statuses are normalized at this boundary; unrecognized values are logged
// and mapped to StatusUnknown.
func (c *Client) FetchLiveQueue(ctx context.Context, date string) ([]Queue, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	values := url.Values{}
	if d := strings.TrimSpace(date); d != "" {
		values.Set("date", d)
	}
	rel := &url.URL{Path: "/admin/live-queue", RawQuery: values.Encode()}
	var payload LiveQueueResponse
	if err := c.doJSON(ctx, http.MethodGet, rel, nil, &payload); err != nil {
		return nil, err
	}
	normalizeQueues(payload.Queues)
	return payload.Queues, nil
}

// UpdateAppointmentStatus requests a status transition for one appointment.
// Requests the transition table already forbids are rejected locally.
func (c *Client) UpdateAppointmentStatus(ctx context.Context, appointmentID int64, status Status) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	if appointmentID <= 0 {
		return fmt.Errorf("appointment id required")
	}
	if !status.Known() {
		return fmt.Errorf("unknown status %q", status)
	}
	rel := &url.URL{Path: "/admin/appointments/" + strconv.FormatInt(appointmentID, 10)}
	body := map[string]string{"status": string(status)}
	return c.doJSON(ctx, http.MethodPatch, rel, body, nil)
}

// FetchQueueStatus retrieves the end-user queue position for one appointment.
func (c *Client) FetchQueueStatus(ctx context.Context, appointmentID int64) (*QueueStatus, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	if appointmentID <= 0 {
		return nil, fmt.Errorf("appointment id required")
	}
	rel := &url.URL{Path: "/appointments/" + strconv.FormatInt(appointmentID, 10) + "/queue"}
	var payload QueueStatus
	if err := c.doJSON(ctx, http.MethodGet, rel, nil, &payload); err != nil {
		return nil, err
	}
	if normalized, ok := ParseStatus(string(payload.Status)); ok {
		payload.Status = normalized
	} else {
		log.Printf("queuify: appointment %d has unrecognized status %q", appointmentID, payload.Status)
		payload.Status = StatusUnknown
	}
	return &payload, nil
}

func (c *Client) doJSON(ctx context.Context, method string, rel *url.URL, body, dest any) error {
	reqURL := c.baseURL.ResolveReference(rel)

	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return apiError(rel, resp)
	}
	if dest == nil {
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// apiError prefers the backend's own message when the error body carries one.
func apiError(rel *url.URL, resp *http.Response) error {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&payload); err == nil {
		msg := payload.Error
		if msg == "" {
			msg = payload.Message
		}
		if strings.TrimSpace(msg) != "" {
			return fmt.Errorf("api %s: %s", rel.Path, strings.TrimSpace(msg))
		}
	}
	return fmt.Errorf("api %s returned status %d", rel.String(), resp.StatusCode)
}

func normalizeQueues(queues []Queue) {
	for qi := range queues {
		appts := queues[qi].Appointments
		for ai := range appts {
			normalized, ok := ParseStatus(string(appts[ai].Status))
			if !ok {
				log.Printf("queuify: appointment %d has unrecognized status %q", appts[ai].ID, appts[ai].Status)
			}
			appts[ai].Status = normalized
		}
	}
}

func parseBaseURL(apiBase string) (*url.URL, error) {
	trimmed := strings.TrimSpace(apiBase)
	if trimmed == "" {
		trimmed = defaultAPIBase
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api_base %q: %w", apiBase, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
