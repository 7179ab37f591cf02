package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"airbook/internal/session"
	"airbook/internal/shared/utils/response"
	"airbook/pkg/logger"
	"airbook/pkg/token"

	"github.com/gin-gonic/gin"
)

const (
	ContextKeyUserID   = "user_id"
	ContextKeyUsername = "username"
	ContextKeyEmail    = "user_email"
	ContextKeyIsAdmin  = "is_admin"
	ContextKeySession  = "session"
)

var errMissingBearer = errors.New("authorization header format must be Bearer {token}")

// JWTAuth requires a valid access token.
func JWTAuth(tokens *token.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := bearerToken(c)
		if err != nil {
			response.AbortWithError(c, http.StatusUnauthorized, err.Error(), nil)
			return
		}

		claims, err := tokens.Parse(raw, token.TypeAccess)
		if err != nil {
			logger.GetDefault().LogAuthFailure(c.Request.Context(), err.Error(), c.ClientIP())
			response.AbortWithError(c, http.StatusUnauthorized, "invalid or expired token", nil)
			return
		}

		setIdentity(c, claims)
		c.Next()
	}
}

// OptionalAuth lets anonymous callers through. A token that is present but
// fails verification is still answered with 401 so the client can drop it.
func OptionalAuth(tokens *token.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.Next()
			return
		}

		raw, err := bearerToken(c)
		if err != nil {
			response.AbortWithError(c, http.StatusUnauthorized, err.Error(), nil)
			return
		}
		claims, err := tokens.Parse(raw, token.TypeAccess)
		if err != nil {
			response.AbortWithError(c, http.StatusUnauthorized, "invalid or expired token", nil)
			return
		}

		setIdentity(c, claims)
		c.Next()
	}
}

// RequireAdmin must run after JWTAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		isAdmin, exists := c.Get(ContextKeyIsAdmin)
		if !exists {
			response.AbortWithError(c, http.StatusUnauthorized, "user not authenticated", nil)
			return
		}
		if admin, _ := isAdmin.(bool); !admin {
			response.AbortWithError(c, http.StatusForbidden, "Insufficient permissions", nil)
			return
		}
		c.Next()
	}
}

// CurrentSession returns the caller's session, or nil for anonymous requests.
func CurrentSession(c *gin.Context) *session.Session {
	v, ok := c.Get(ContextKeySession)
	if !ok {
		return nil
	}
	sess, _ := v.(*session.Session)
	return sess
}

func IsAuthenticated(c *gin.Context) bool {
	return CurrentSession(c).Valid(time.Now())
}

func bearerToken(c *gin.Context) (string, error) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", errors.New("Authorization header is required")
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", errMissingBearer
	}
	return parts[1], nil
}

func setIdentity(c *gin.Context, claims *token.Claims) {
	c.Set(ContextKeyUserID, claims.UserID)
	c.Set(ContextKeyUsername, claims.Username)
	c.Set(ContextKeyEmail, claims.Email)
	c.Set(ContextKeyIsAdmin, claims.IsAdmin)
	c.Set(ContextKeySession, session.FromClaims(claims))
}
