package bookings

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"airbook/pkg/logger"
	"airbook/pkg/token"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type apiEnvelope struct {
	Status     string          `json:"status"`
	StatusCode int             `json:"status_code"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
	Errors     json.RawMessage `json:"errors"`
}

type apiHarness struct {
	router *gin.Engine
	tokens *token.Manager
	store  *MemoryStore
	flight uuid.UUID
}

func newAPIHarness(t *testing.T) *apiHarness {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := NewMemoryStore()
	flight := store.AddFlight(testFlight(10))
	coord := NewCoordinator(store, store, NewLocalLocker(), fastRetry(), logger.Discard())
	tokens := token.NewManager("bookings-test", time.Minute, time.Hour)

	r := gin.New()
	SetupBookingRoutes(r.Group("/api/v1"), NewController(coord), tokens)
	return &apiHarness{router: r, tokens: tokens, store: store, flight: flight.ID}
}

func (h *apiHarness) bearer(t *testing.T, userID string, admin bool) string {
	t.Helper()
	pair, err := h.tokens.IssuePair(token.Identity{UserID: userID, Username: "u", IsAdmin: admin})
	require.NoError(t, err)
	return pair.AccessToken
}

func (h *apiHarness) do(t *testing.T, method, path, bearer string, body interface{}) (*httptest.ResponseRecorder, apiEnvelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)

	var env apiEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return w, env
}

func TestController_CreateBookingAndConflict(t *testing.T) {
	h := newAPIHarness(t)
	alice := h.bearer(t, uuid.NewString(), false)
	bob := h.bearer(t, uuid.NewString(), false)

	w, env := h.do(t, http.MethodPost, "/api/v1/bookings", alice, ReserveRequest{
		FlightID: h.flight.String(), Seats: []string{"1A", "1B"}, PaymentStatus: "paid",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var created BookingResponse
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, []string{"1A", "1B"}, created.Seats)
	assert.Equal(t, PaymentPaid, created.PaymentStatus)

	w, env = h.do(t, http.MethodPost, "/api/v1/bookings", bob, ReserveRequest{
		FlightID: h.flight.String(), Seats: []string{"1B", "1C"},
	})
	require.Equal(t, http.StatusConflict, w.Code)
	var body ErrorBody
	require.NoError(t, json.Unmarshal(env.Errors, &body))
	assert.Equal(t, KindSeatConflict, body.Error)
	assert.Equal(t, []string{"1B"}, body.ConflictingSeats)
}

func TestController_CreateBookingFailures(t *testing.T) {
	h := newAPIHarness(t)
	user := h.bearer(t, uuid.NewString(), false)

	tests := []struct {
		name   string
		bearer string
		body   interface{}
		code   int
		kind   Kind
	}{
		{"bad payment status", user, ReserveRequest{FlightID: h.flight.String(), Seats: []string{"1A"}, PaymentStatus: "refunded"}, http.StatusBadRequest, KindInvalidSeatRequest},
		{"no seats", user, ReserveRequest{FlightID: h.flight.String()}, http.StatusBadRequest, KindInvalidSeatRequest},
		{"bad flight id", user, ReserveRequest{FlightID: "AB101", Seats: []string{"1A"}}, http.StatusBadRequest, KindInvalidSeatRequest},
		{"unknown flight", user, ReserveRequest{FlightID: uuid.NewString(), Seats: []string{"1A"}}, http.StatusUnprocessableEntity, KindFlightUnavailable},
		{"seat not on flight", user, ReserveRequest{FlightID: h.flight.String(), Seats: []string{"3A"}}, http.StatusBadRequest, KindInvalidSeatRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, env := h.do(t, http.MethodPost, "/api/v1/bookings", tt.bearer, tt.body)
			require.Equal(t, tt.code, w.Code)
			var body ErrorBody
			require.NoError(t, json.Unmarshal(env.Errors, &body))
			assert.Equal(t, tt.kind, body.Error)
		})
	}

	w, _ := h.do(t, http.MethodPost, "/api/v1/bookings", "", ReserveRequest{FlightID: h.flight.String(), Seats: []string{"1A"}})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, h.store.Bookings(h.flight))
}

func TestController_TripsAndOwnership(t *testing.T) {
	h := newAPIHarness(t)
	ownerID := uuid.NewString()
	owner := h.bearer(t, ownerID, false)
	stranger := h.bearer(t, uuid.NewString(), false)
	admin := h.bearer(t, uuid.NewString(), true)

	_, env := h.do(t, http.MethodPost, "/api/v1/bookings", owner, ReserveRequest{FlightID: h.flight.String(), Seats: []string{"2C"}})
	var created BookingResponse
	require.NoError(t, json.Unmarshal(env.Data, &created))

	w, env := h.do(t, http.MethodGet, "/api/v1/bookings/my-trips", owner, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var trips []BookingResponse
	require.NoError(t, json.Unmarshal(env.Data, &trips))
	require.Len(t, trips, 1)
	assert.Equal(t, ownerID, trips[0].UserID)

	path := "/api/v1/bookings/" + created.ID
	w, _ = h.do(t, http.MethodGet, path, owner, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = h.do(t, http.MethodGet, path, stranger, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w, _ = h.do(t, http.MethodGet, path, admin, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = h.do(t, http.MethodGet, "/api/v1/bookings/"+uuid.NewString(), owner, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
