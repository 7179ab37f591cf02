package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"airbook/internal/shared/utils/response"
	"airbook/pkg/token"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine(tokens *token.Manager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	whoami := func(c *gin.Context) {
		sess := CurrentSession(c)
		if sess == nil {
			c.JSON(http.StatusOK, gin.H{"user": ""})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": sess.Username, "authenticated": IsAuthenticated(c)})
	}
	r.GET("/private", JWTAuth(tokens), whoami)
	r.GET("/public", OptionalAuth(tokens), whoami)
	r.GET("/admin", JWTAuth(tokens), RequireAdmin(), whoami)
	return r
}

func TestAuthMiddleware(t *testing.T) {
	tokens := token.NewManager("middleware-test", time.Minute, time.Hour)
	r := newEngine(tokens)

	issue := func(admin bool) *token.Pair {
		pair, err := tokens.IssuePair(token.Identity{UserID: "7f9c", Username: "alice", IsAdmin: admin})
		require.NoError(t, err)
		return pair
	}
	user, admin := issue(false), issue(true)

	tests := []struct {
		name     string
		path     string
		header   string
		wantCode int
		wantUser string
	}{
		{"private without header", "/private", "", http.StatusUnauthorized, ""},
		{"private malformed header", "/private", "Token abc", http.StatusUnauthorized, ""},
		{"private bad token", "/private", "Bearer not-a-jwt", http.StatusUnauthorized, ""},
		{"private refresh token rejected", "/private", "Bearer " + user.RefreshToken, http.StatusUnauthorized, ""},
		{"private ok", "/private", "Bearer " + user.AccessToken, http.StatusOK, "alice"},
		{"public anonymous", "/public", "", http.StatusOK, ""},
		{"public with token", "/public", "Bearer " + user.AccessToken, http.StatusOK, "alice"},
		{"public bad token", "/public", "Bearer not-a-jwt", http.StatusUnauthorized, ""},
		{"admin as user", "/admin", "Bearer " + user.AccessToken, http.StatusForbidden, ""},
		{"admin as admin", "/admin", "Bearer " + admin.AccessToken, http.StatusOK, "alice"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			require.Equal(t, tt.wantCode, w.Code)
			if tt.wantCode != http.StatusOK {
				var env response.StandardApiResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
				assert.Equal(t, response.StatusError, env.Status)
				assert.Equal(t, tt.wantCode, env.StatusCode)
				return
			}
			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.wantUser, body["user"])
			if tt.wantUser != "" {
				assert.Equal(t, true, body["authenticated"])
			}
		})
	}
}
