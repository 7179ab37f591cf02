package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"airbook/internal/shared/utils/response"
	"airbook/pkg/logger"
	"airbook/pkg/token"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) FlightLoads(ctx context.Context) ([]FlightLoad, error) {
	args := m.Called(ctx)
	loads, _ := args.Get(0).([]FlightLoad)
	return loads, args.Error(1)
}

func (m *mockRepository) DailyBookings(ctx context.Context, since time.Time) ([]DailyBookingStats, error) {
	args := m.Called(ctx, since)
	stats, _ := args.Get(0).([]DailyBookingStats)
	return stats, args.Error(1)
}

func (m *mockRepository) CountPendingUsers(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func sampleLoads() []FlightLoad {
	return []FlightLoad{
		{FlightID: uuid.New(), FlightNumber: "AB101", Status: "on_time", TotalSeats: 150, AvailableSeats: 147, Bookings: 2, SeatsSold: 3, Revenue: 3600},
		{FlightID: uuid.New(), FlightNumber: "AB102", Status: "delayed", TotalSeats: 150, AvailableSeats: 150},
		{FlightID: uuid.New(), FlightNumber: "AB301", Status: "on_time", TotalSeats: 8, AvailableSeats: 2, Bookings: 1, SeatsSold: 6, Revenue: 10800.004},
	}
}

func newTestService(repo Repository) *service {
	svc := NewService(repo, logger.Discard()).(*service)
	svc.now = func() time.Time { return time.Date(2025, 6, 10, 15, 30, 0, 0, time.UTC) }
	return svc
}

func TestFlightLoads_ComputesLoadFactor(t *testing.T) {
	repo := &mockRepository{}
	repo.On("FlightLoads", mock.Anything).Return(sampleLoads(), nil)

	loads, err := newTestService(repo).FlightLoads(context.Background())
	require.NoError(t, err)
	require.Len(t, loads, 3)
	assert.Equal(t, 2.0, loads[0].LoadFactor)
	assert.Equal(t, 0.0, loads[1].LoadFactor)
	assert.Equal(t, 75.0, loads[2].LoadFactor)
	assert.Equal(t, 10800.0, loads[2].Revenue)
}

func TestDashboard(t *testing.T) {
	repo := &mockRepository{}
	repo.On("FlightLoads", mock.Anything).Return(sampleLoads(), nil)
	repo.On("CountPendingUsers", mock.Anything).Return(4, nil)
	since := time.Date(2025, 5, 12, 0, 0, 0, 0, time.UTC)
	repo.On("DailyBookings", mock.Anything, since).
		Return([]DailyBookingStats{{Date: "2025-06-10", Bookings: 3, Seats: 9, Revenue: 14400}}, nil)

	dashboard, err := newTestService(repo).Dashboard(context.Background())
	require.NoError(t, err)
	repo.AssertExpectations(t)

	o := dashboard.Overview
	assert.Equal(t, 3, o.TotalFlights)
	assert.Equal(t, map[string]int{"on_time": 2, "delayed": 1}, o.FlightsByStatus)
	assert.Equal(t, 3, o.TotalBookings)
	assert.Equal(t, 308, o.SeatsOffered)
	assert.Equal(t, 9, o.SeatsSold)
	assert.Equal(t, 2.92, o.LoadFactor)
	assert.Equal(t, 14400.0, o.Revenue)
	assert.Equal(t, 4, o.PendingUsers)

	require.Len(t, dashboard.TopFlights, 3)
	assert.Equal(t, "AB301", dashboard.TopFlights[0].FlightNumber)
	assert.Equal(t, "AB101", dashboard.TopFlights[1].FlightNumber)
	assert.Len(t, dashboard.Daily, 1)
}

func TestDailyBookings_RejectsRange(t *testing.T) {
	svc := newTestService(&mockRepository{})
	for _, days := range []int{0, -1, 366} {
		_, err := svc.DailyBookings(context.Background(), days)
		assert.ErrorIs(t, err, ErrInvalidRange, "days=%d", days)
	}
}

func TestRoutes_Analytics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &mockRepository{}
	repo.On("FlightLoads", mock.Anything).Return(sampleLoads(), nil)
	repo.On("DailyBookings", mock.Anything, mock.Anything).Return(nil, errors.New("connection reset"))
	tokens := token.NewManager("analytics-test", time.Minute, time.Hour)

	r := gin.New()
	SetupAnalyticsRoutes(r.Group("/api/v1"), NewController(newTestService(repo)), tokens)

	bearer := func(admin bool) string {
		pair, err := tokens.IssuePair(token.Identity{UserID: uuid.NewString(), Username: "ops", IsAdmin: admin})
		require.NoError(t, err)
		return "Bearer " + pair.AccessToken
	}
	do := func(path, auth string) (int, response.StandardApiResponse) {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("Authorization", auth)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		var env response.StandardApiResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
		return w.Code, env
	}

	code, _ := do("/api/v1/admin/analytics/flights", bearer(false))
	assert.Equal(t, http.StatusForbidden, code)

	code, env := do("/api/v1/admin/analytics/flights", bearer(true))
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, env.Data, 3)

	code, _ = do("/api/v1/admin/analytics/bookings/daily?days=abc", bearer(true))
	assert.Equal(t, http.StatusBadRequest, code)
	code, _ = do("/api/v1/admin/analytics/bookings/daily?days=400", bearer(true))
	assert.Equal(t, http.StatusBadRequest, code)
	code, _ = do("/api/v1/admin/analytics/bookings/daily", bearer(true))
	assert.Equal(t, http.StatusInternalServerError, code)
}
