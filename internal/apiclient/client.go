package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"airbook/internal/bookings"
	"airbook/internal/flights"
	"airbook/internal/session"
	"airbook/pkg/logger"
	"airbook/pkg/token"

	"github.com/google/uuid"
)

var ErrTransport = errors.New("api unreachable")

// APIError is a non-2xx response that carries no reservation error kind.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

type envelope struct {
	Status     string          `json:"status"`
	StatusCode int             `json:"status_code"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
	Errors     json.RawMessage `json:"errors"`
}

// Client talks to the airbook HTTP API on behalf of one caller. It attaches
// the session's bearer token to every request and drops the session the
// first time the server answers 401 for that token.
type Client struct {
	baseURL  string
	http     *http.Client
	sessions *session.Manager
	log      *logger.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithLogger(log *logger.Logger) Option {
	return func(c *Client) { c.log = log }
}

// New builds a client for baseURL (for example http://localhost:8080/api/v1).
// verifier checks tokens issued by the server's login endpoint.
func New(baseURL string, verifier *token.Manager, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = logger.OrDefault(c.log)
	c.sessions = session.NewManager(c, verifier, c.log)
	return c
}

func (c *Client) Sessions() *session.Manager {
	return c.sessions
}

func (c *Client) Login(ctx context.Context, username, password string) (*session.Session, error) {
	return c.sessions.Login(ctx, session.Credentials{Username: username, Password: password})
}

func (c *Client) Logout() {
	c.sessions.Invalidate()
}

// Authenticate implements session.Authenticator against POST /auth/login.
func (c *Client) Authenticate(ctx context.Context, creds session.Credentials) (*token.Pair, error) {
	var pair token.Pair
	if err := c.send(ctx, http.MethodPost, "/auth/login", creds, &pair, false); err != nil {
		return nil, err
	}
	if pair.AccessToken == "" {
		return nil, errors.New("login response carried no access token")
	}
	return &pair, nil
}

func (c *Client) SearchFlights(ctx context.Context, criteria flights.Criteria) ([]flights.FlightResponse, error) {
	path := "/flights/search"
	if q := criteria.Values(); len(q) > 0 {
		path += "?" + q.Encode()
	}
	var out []flights.FlightResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetFlight(ctx context.Context, id uuid.UUID) (*flights.FlightResponse, error) {
	var out flights.FlightResponse
	if err := c.do(ctx, http.MethodGet, "/flights/"+id.String(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) OccupiedSeats(ctx context.Context, flightID uuid.UUID) ([]string, error) {
	out := []string{}
	if err := c.do(ctx, http.MethodGet, "/flights/"+flightID.String()+"/occupied-seats", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Reserve books seats on a flight. Without a live session it fails with
// bookings.ErrUnauthorized and sends nothing.
func (c *Client) Reserve(ctx context.Context, flightID uuid.UUID, seatIDs []string, payment bookings.PaymentStatus) (*bookings.BookingResponse, error) {
	if c.sessions.CurrentSession() == nil {
		return nil, &bookings.Error{Kind: bookings.KindUnauthorized, Err: session.ErrNoSession}
	}
	req := bookings.ReserveRequest{
		FlightID:      flightID.String(),
		Seats:         seatIDs,
		PaymentStatus: string(payment),
	}
	var out bookings.BookingResponse
	if err := c.do(ctx, http.MethodPost, "/bookings", req, &out); err != nil {
		return nil, asReservationError(err)
	}
	return &out, nil
}

func (c *Client) MyTrips(ctx context.Context) ([]bookings.BookingResponse, error) {
	var out []bookings.BookingResponse
	if err := c.do(ctx, http.MethodGet, "/bookings/my-trips", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	return c.send(ctx, method, path, body, out, true)
}

func (c *Client) send(ctx context.Context, method, path string, body, out interface{}, authenticated bool) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	var generation uint64
	var sentToken bool
	if authenticated {
		var tok string
		tok, generation, sentToken = c.sessions.Token()
		if sentToken {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrTransport, method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized && sentToken {
		c.sessions.InvalidateGeneration(generation)
	}

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: reading %s %s: %v", ErrTransport, method, path, err)
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil && resp.StatusCode < 300 {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	if resp.StatusCode >= 300 {
		c.log.DebugContext(ctx, "api request failed", "method", method, "path", path, "status", resp.StatusCode)
		return decodeError(resp.StatusCode, env)
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("failed to decode response data: %w", err)
		}
	}
	return nil
}

// decodeError restores the reservation error kind from the error body. A
// 401 is always Unauthorized and a 404 maps to flights.ErrFlightNotFound.
func decodeError(status int, env envelope) error {
	msg := env.Message
	if msg == "" {
		msg = http.StatusText(status)
	}
	apiErr := &APIError{StatusCode: status, Message: msg}

	var body bookings.ErrorBody
	if len(env.Errors) > 0 && json.Unmarshal(env.Errors, &body) == nil {
		if kind, ok := bookings.ParseKind(string(body.Error)); ok {
			return &bookings.Error{Kind: kind, ConflictingSeats: body.ConflictingSeats, Err: apiErr}
		}
	}

	switch status {
	case http.StatusUnauthorized:
		return &bookings.Error{Kind: bookings.KindUnauthorized, Err: apiErr}
	case http.StatusNotFound:
		return fmt.Errorf("%w: %w", flights.ErrFlightNotFound, apiErr)
	}
	return apiErr
}

// asReservationError gives every reservation failure a kind.
func asReservationError(err error) error {
	var rerr *bookings.Error
	if errors.As(err, &rerr) {
		return rerr
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if kind, ok := bookings.KindFromStatus(apiErr.StatusCode); ok {
			return &bookings.Error{Kind: kind, Err: err}
		}
	}
	if errors.Is(err, flights.ErrFlightNotFound) {
		return &bookings.Error{Kind: bookings.KindFlightUnavailable, Err: err}
	}
	return &bookings.Error{Kind: bookings.KindReservationUnavailable, Err: err}
}
