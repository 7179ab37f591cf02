package apiclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"airbook/internal/bookings"
	"airbook/internal/flights"
	"airbook/internal/seats"
	"airbook/internal/session"
	"airbook/internal/shared/utils/response"
	"airbook/pkg/logger"
	"airbook/pkg/retry"
	"airbook/pkg/token"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPassword = "secret123"

type testAPI struct {
	server   *httptest.Server
	tokens   *token.Manager
	flight   uuid.UUID
	bookings atomic.Int32
}

// newTestAPI serves the real seat and booking routes plus a login handler
// that accepts any username with testPassword.
func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	api := &testAPI{tokens: token.NewManager("apiclient-test", time.Minute, time.Hour)}
	store := bookings.NewMemoryStore()
	dep := time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)
	flight := store.AddFlight(flights.Flight{
		FlightNumber:     "AB101",
		DepartureAirport: "Lusaka International Airport (LUN)",
		ArrivalAirport:   "Ndola International Airport (NLA)",
		DepartureTime:    dep,
		ArrivalTime:      dep.Add(time.Hour),
		Price:            1200,
		TotalSeats:       12,
		AvailableSeats:   12,
		Status:           flights.StatusOnTime,
	})
	api.flight = flight.ID

	coord := bookings.NewCoordinator(store, store, nil, retry.Config{MaxAttempts: 2, InitialInterval: time.Millisecond}, logger.Discard())
	ids := map[string]string{}
	var mu sync.Mutex

	r := gin.New()
	v1 := r.Group("/api/v1")
	v1.POST("/auth/login", func(c *gin.Context) {
		var creds session.Credentials
		if err := c.ShouldBindJSON(&creds); err != nil || creds.Password != testPassword {
			response.RespondJSON(c, "error", http.StatusUnauthorized, "Invalid username or password", nil, nil)
			return
		}
		mu.Lock()
		id, ok := ids[creds.Username]
		if !ok {
			id = uuid.NewString()
			ids[creds.Username] = id
		}
		mu.Unlock()
		pair, err := api.tokens.IssuePair(token.Identity{UserID: id, Username: creds.Username})
		if err != nil {
			response.RespondJSON(c, "error", http.StatusInternalServerError, err.Error(), nil, nil)
			return
		}
		response.RespondJSON(c, "success", http.StatusOK, "Login successful", pair, nil)
	})
	v1.Use(func(c *gin.Context) {
		if c.Request.Method == http.MethodPost && strings.HasSuffix(c.Request.URL.Path, "/bookings") {
			api.bookings.Add(1)
		}
		c.Next()
	})
	seats.SetupSeatRoutes(v1, seats.NewController(seats.NewService(store, coord)), api.tokens)
	bookings.SetupBookingRoutes(v1, bookings.NewController(coord), api.tokens)

	api.server = httptest.NewServer(r)
	t.Cleanup(api.server.Close)
	return api
}

func (a *testAPI) client() *Client {
	return New(a.server.URL+"/api/v1", a.tokens, WithLogger(logger.Discard()))
}

func TestClient_ReserveAndConflict(t *testing.T) {
	api := newTestAPI(t)
	ctx := context.Background()

	alice := api.client()
	sess, err := alice.Login(ctx, "alice", testPassword)
	require.NoError(t, err)
	assert.Equal(t, "alice", sess.Username)

	booking, err := alice.Reserve(ctx, api.flight, []string{"1a", "1B"}, bookings.PaymentPaid)
	require.NoError(t, err)
	assert.Equal(t, []string{"1A", "1B"}, booking.Seats)
	assert.InDelta(t, 2400.0, booking.TotalPrice, 0.001)

	occupied, err := alice.OccupiedSeats(ctx, api.flight)
	require.NoError(t, err)
	assert.Equal(t, []string{"1A", "1B"}, occupied)

	bob := api.client()
	_, err = bob.Login(ctx, "bob", testPassword)
	require.NoError(t, err)

	_, err = bob.Reserve(ctx, api.flight, []string{"1B", "1C"}, "")
	require.ErrorIs(t, err, bookings.ErrSeatConflict)
	var rerr *bookings.Error
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, []string{"1B"}, rerr.ConflictingSeats)

	trips, err := alice.MyTrips(ctx)
	require.NoError(t, err)
	assert.Len(t, trips, 1)
	assert.NotNil(t, bob.Sessions().CurrentSession())
}

func TestClient_ReserveKinds(t *testing.T) {
	api := newTestAPI(t)
	ctx := context.Background()
	c := api.client()
	_, err := c.Login(ctx, "carol", testPassword)
	require.NoError(t, err)

	_, err = c.Reserve(ctx, api.flight, []string{"9Z"}, "")
	assert.ErrorIs(t, err, bookings.ErrInvalidSeatRequest)

	_, err = c.Reserve(ctx, uuid.New(), []string{"1A"}, "")
	assert.ErrorIs(t, err, bookings.ErrFlightUnavailable)

	_, err = c.OccupiedSeats(ctx, uuid.New())
	assert.ErrorIs(t, err, flights.ErrFlightNotFound)
}

func TestClient_ReserveWithoutSessionSendsNothing(t *testing.T) {
	api := newTestAPI(t)

	_, err := api.client().Reserve(context.Background(), api.flight, []string{"1A"}, "")
	assert.ErrorIs(t, err, bookings.ErrUnauthorized)
	assert.Zero(t, api.bookings.Load())
}

func TestClient_LoginRejected(t *testing.T) {
	api := newTestAPI(t)
	c := api.client()

	_, err := c.Login(context.Background(), "alice", "wrong")
	assert.ErrorIs(t, err, session.ErrAuthFailed)
	assert.Nil(t, c.Sessions().CurrentSession())
	assert.Zero(t, c.Sessions().Invalidations())
}

func TestClient_ConcurrentUnauthorizedInvalidatesOnce(t *testing.T) {
	api := newTestAPI(t)
	c := api.client()
	_, err := c.Login(context.Background(), "dave", testPassword)
	require.NoError(t, err)

	const callers = 8
	var arrived, withBearer atomic.Int32
	release := make(chan struct{})
	rejecting := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.Header.Get("Authorization"), "Bearer ") {
			withBearer.Add(1)
		}
		if arrived.Add(1) == callers {
			close(release)
		}
		select {
		case <-release:
		case <-time.After(2 * time.Second):
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"status":"error","status_code":401,"message":"Invalid or expired token"}`))
	}))
	defer rejecting.Close()
	c.baseURL = rejecting.URL

	var wg sync.WaitGroup
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = c.GetFlight(context.Background(), api.flight)
		}(i)
	}
	wg.Wait()

	assert.EqualValues(t, callers, withBearer.Load())
	for _, err := range errs {
		assert.ErrorIs(t, err, bookings.ErrUnauthorized)
	}
	assert.Equal(t, 1, c.Sessions().Invalidations())
	assert.Nil(t, c.Sessions().CurrentSession())
}

func TestClient_NetworkErrorKeepsSession(t *testing.T) {
	api := newTestAPI(t)
	c := api.client()
	_, err := c.Login(context.Background(), "erin", testPassword)
	require.NoError(t, err)

	api.server.Close()

	_, err = c.GetFlight(context.Background(), api.flight)
	assert.ErrorIs(t, err, ErrTransport)

	_, err = c.Reserve(context.Background(), api.flight, []string{"1A"}, "")
	assert.ErrorIs(t, err, bookings.ErrReservationUnavailable)

	assert.NotNil(t, c.Sessions().CurrentSession())
	assert.Zero(t, c.Sessions().Invalidations())
}

func TestDecodeError(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		target error
	}{
		{"kind in body", http.StatusConflict, `{"error":"seat_conflict","conflicting_seats":["2A"]}`, bookings.ErrSeatConflict},
		{"bare 401", http.StatusUnauthorized, ``, bookings.ErrUnauthorized},
		{"bare 404", http.StatusNotFound, ``, flights.ErrFlightNotFound},
		{"unknown kind", http.StatusUnauthorized, `{"error":"nope"}`, bookings.ErrUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := envelope{Message: "x"}
			if tt.body != "" {
				env.Errors = []byte(tt.body)
			}
			assert.ErrorIs(t, decodeError(tt.status, env), tt.target)
		})
	}

	var apiErr *APIError
	err := decodeError(http.StatusInternalServerError, envelope{})
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusText(http.StatusInternalServerError), apiErr.Message)
}
