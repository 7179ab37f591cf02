package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"airbook/pkg/logger"
	"airbook/pkg/token"
)

var (
	ErrAuthFailed = errors.New("authentication failed")
	ErrNoSession  = errors.New("no active session")
)

type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Authenticator exchanges credentials for a token pair, typically POST /auth/login.
type Authenticator interface {
	Authenticate(ctx context.Context, creds Credentials) (*token.Pair, error)
}

// Manager holds the caller's tokens and is the single place they are cleared.
// Every token carries a generation number so that a burst of authorization
// failures caused by the same token produces exactly one invalidation.
type Manager struct {
	auth     Authenticator
	verifier *token.Manager
	log      *logger.Logger
	now      func() time.Time

	mu            sync.Mutex
	accessToken   string
	refreshToken  string
	generation    uint64
	invalidations int
}

func NewManager(auth Authenticator, verifier *token.Manager, log *logger.Logger) *Manager {
	return &Manager{
		auth:     auth,
		verifier: verifier,
		log:      logger.OrDefault(log),
		now:      time.Now,
	}
}

// WithClock replaces the time source; tokens are verified against the same clock.
func (m *Manager) WithClock(now func() time.Time) *Manager {
	m.now = now
	m.verifier = m.verifier.WithClock(now)
	return m
}

// Login authenticates and replaces any held tokens.
func (m *Manager) Login(ctx context.Context, creds Credentials) (*Session, error) {
	pair, err := m.auth.Authenticate(ctx, creds)
	if err != nil {
		m.log.LogAuthFailure(ctx, err.Error(), "")
		return nil, fmt.Errorf("%w: %w", ErrAuthFailed, err)
	}

	claims, err := m.verifier.Parse(pair.AccessToken, token.TypeAccess)
	if err != nil {
		return nil, fmt.Errorf("%w: issued token rejected: %w", ErrAuthFailed, err)
	}

	m.mu.Lock()
	m.accessToken = pair.AccessToken
	m.refreshToken = pair.RefreshToken
	m.generation++
	m.mu.Unlock()

	m.log.LogAuthSuccess(ctx, claims.UserID, "password")
	return FromClaims(claims), nil
}

// CurrentSession rebuilds the session from the held token. A token that is
// expired or fails verification is dropped and nil is returned.
func (m *Manager) CurrentSession() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.accessToken == "" {
		return nil
	}
	claims, err := m.verifier.Parse(m.accessToken, token.TypeAccess)
	if err != nil {
		m.clearLocked()
		return nil
	}
	return FromClaims(claims)
}

// Token returns the held access token and its generation. ok is false when
// there is nothing to send.
func (m *Manager) Token() (accessToken string, generation uint64, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.accessToken, m.generation, m.accessToken != ""
}

func (m *Manager) RefreshToken() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.refreshToken
}

// Invalidate clears the held tokens unconditionally. It reports whether
// there was anything to clear; calling it again is harmless.
func (m *Manager) Invalidate() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.invalidateLocked("explicit")
}

// InvalidateGeneration clears the tokens only if they are still the ones
// issued as generation. Concurrent 401s for the same token race here and
// exactly one of them wins.
func (m *Manager) InvalidateGeneration(generation uint64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if generation != m.generation {
		return false
	}
	return m.invalidateLocked("unauthorized response")
}

// Invalidations counts effective invalidations since the manager was created.
func (m *Manager) Invalidations() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.invalidations
}

func (m *Manager) invalidateLocked(reason string) bool {
	if m.accessToken == "" && m.refreshToken == "" {
		return false
	}
	userID := ""
	if claims, err := m.verifier.Parse(m.accessToken, ""); err == nil {
		userID = claims.UserID
	}
	m.clearLocked()
	m.invalidations++
	m.log.LogSessionInvalidated(context.Background(), userID, reason)
	return true
}

// clearLocked drops the tokens and moves to a new generation so that late
// failures for the old token are ignored.
func (m *Manager) clearLocked() {
	m.accessToken = ""
	m.refreshToken = ""
	m.generation++
}
