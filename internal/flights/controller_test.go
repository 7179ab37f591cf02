package flights

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"airbook/pkg/logger"
	"airbook/pkg/token"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Status     string            `json:"status"`
	StatusCode int               `json:"status_code"`
	Data       []json.RawMessage `json:"data"`
	Errors     map[string]string `json:"errors"`
}

func newTestRouter(t *testing.T) (*gin.Engine, *token.Manager) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokens := token.NewManager("flights-test", time.Minute, time.Hour)
	svc := NewService(&fakeRepo{flights: testCatalog()}, logger.Discard())

	r := gin.New()
	SetupFlightRoutes(r.Group("/api/v1"), NewController(svc), tokens)
	return r, tokens
}

func doGet(r http.Handler, path, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestController_SearchAnonymousOmitsAvailability(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doGet(r, "/api/v1/flights/search?min_price=100&max_price=200&sort_by=price&sort_order=desc", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Data, 4)
	for _, raw := range body.Data {
		var f map[string]interface{}
		require.NoError(t, json.Unmarshal(raw, &f))
		assert.NotContains(t, f, "available_seats")
		assert.Contains(t, f, "flight_number")
	}
}

func TestController_SearchAuthenticatedIncludesAvailability(t *testing.T) {
	r, tokens := newTestRouter(t)
	pair, err := tokens.IssuePair(token.Identity{UserID: "u-1", Username: "alice"})
	require.NoError(t, err)

	w := doGet(r, "/api/v1/flights/search?flight_number=AB101", pair.AccessToken)
	require.Equal(t, http.StatusOK, w.Code)

	var body envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Data, 1)
	var f map[string]interface{}
	require.NoError(t, json.Unmarshal(body.Data[0], &f))
	assert.Equal(t, float64(150), f["available_seats"])
}

func TestController_SearchRejectsBadToken(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doGet(r, "/api/v1/flights/search", "garbage")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestController_SearchRejectsMalformedCriteria(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doGet(r, "/api/v1/flights/search?departure_date=tomorrow&sort_by=seats", "")
	require.Equal(t, http.StatusBadRequest, w.Code)

	var body envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body.Errors, "departure_date")
	assert.Contains(t, body.Errors, "sort_by")
}

func TestController_GetFlight(t *testing.T) {
	r, _ := newTestRouter(t)

	assert.Equal(t, http.StatusBadRequest, doGet(r, "/api/v1/flights/not-a-uuid", "").Code)
	assert.Equal(t, http.StatusNotFound, doGet(r, "/api/v1/flights/00000000-0000-0000-0000-000000000001", "").Code)
}

func TestController_AdminRoutesRequireAdmin(t *testing.T) {
	r, tokens := newTestRouter(t)
	user, err := tokens.IssuePair(token.Identity{UserID: "u-1", Username: "alice"})
	require.NoError(t, err)
	admin, err := tokens.IssuePair(token.Identity{UserID: "a-1", Username: "root", IsAdmin: true})
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, doGet(r, "/api/v1/admin/flights", "").Code)
	assert.Equal(t, http.StatusForbidden, doGet(r, "/api/v1/admin/flights", user.AccessToken).Code)
	assert.Equal(t, http.StatusOK, doGet(r, "/api/v1/admin/flights", admin.AccessToken).Code)
}
