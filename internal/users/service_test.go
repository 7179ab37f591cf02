package users

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

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) AccountApproved(ctx context.Context, user *User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func seedUser(t *testing.T, repo *MemoryRepository, username string, status ApprovalStatus) *User {
	t.Helper()
	u := &User{Username: username, Email: username + "@example.com", Password: "x", ApprovalStatus: status}
	require.NoError(t, repo.CreateUser(context.Background(), u))
	return u
}

func TestApprovalStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from, to ApprovalStatus
		want     bool
	}{
		{ApprovalPending, ApprovalApproved, true},
		{ApprovalPending, ApprovalRejected, true},
		{ApprovalRejected, ApprovalApproved, true},
		{ApprovalApproved, ApprovalRejected, false},
		{ApprovalApproved, ApprovalApproved, false},
		{ApprovalRejected, ApprovalRejected, false},
		{ApprovalApproved, ApprovalPending, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestService_ListPendingInSignupOrder(t *testing.T) {
	repo := NewMemoryRepository()
	first := seedUser(t, repo, "first", ApprovalPending)
	seedUser(t, repo, "done", ApprovalApproved)
	second := seedUser(t, repo, "second", ApprovalPending)

	pending, err := NewService(repo, logger.Discard()).ListPending(context.Background())
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, first.ID, pending[0].ID)
	assert.Equal(t, second.ID, pending[1].ID)
}

func TestService_ApproveNotifies(t *testing.T) {
	repo := NewMemoryRepository()
	u := seedUser(t, repo, "alice", ApprovalPending)
	n := &mockNotifier{}
	n.On("AccountApproved", mock.Anything, mock.MatchedBy(func(got *User) bool {
		return got.ID == u.ID && got.ApprovalStatus == ApprovalApproved
	})).Return(nil).Once()

	svc := NewService(repo, logger.Discard())
	svc.SetNotifier(n)

	approved, err := svc.Approve(context.Background(), u.ID)
	require.NoError(t, err)
	assert.True(t, approved.CanLogin())
	n.AssertExpectations(t)

	_, err = svc.Approve(context.Background(), u.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestService_ApproveSucceedsWhenNotificationFails(t *testing.T) {
	repo := NewMemoryRepository()
	u := seedUser(t, repo, "bob", ApprovalPending)
	n := &mockNotifier{}
	n.On("AccountApproved", mock.Anything, mock.Anything).Return(errors.New("smtp down"))

	svc := NewService(repo, logger.Discard())
	svc.SetNotifier(n)

	_, err := svc.Approve(context.Background(), u.ID)
	require.NoError(t, err)
	stored, err := repo.GetUserByID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, ApprovalApproved, stored.ApprovalStatus)
}

func TestService_RejectKeepsAccount(t *testing.T) {
	repo := NewMemoryRepository()
	u := seedUser(t, repo, "carol", ApprovalPending)
	svc := NewService(repo, logger.Discard())

	rejected, err := svc.Reject(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, ApprovalRejected, rejected.ApprovalStatus)

	exists, err := repo.UsernameOrEmailExists(context.Background(), "carol", "other@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	_, err = svc.Reject(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestRoutes_AdminModeration(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := NewMemoryRepository()
	u := seedUser(t, repo, "dave", ApprovalPending)
	tokens := token.NewManager("users-test", time.Minute, time.Hour)

	r := gin.New()
	SetupUserRoutes(r.Group("/api/v1"), NewController(NewService(repo, logger.Discard())), tokens)

	bearer := func(admin bool) string {
		pair, err := tokens.IssuePair(token.Identity{UserID: uuid.NewString(), Username: "x", IsAdmin: admin})
		require.NoError(t, err)
		return "Bearer " + pair.AccessToken
	}
	do := func(method, path, auth string) (int, response.StandardApiResponse) {
		req := httptest.NewRequest(method, path, nil)
		if auth != "" {
			req.Header.Set("Authorization", auth)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		var env response.StandardApiResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
		return w.Code, env
	}

	code, _ := do(http.MethodGet, "/api/v1/admin/users/pending", bearer(false))
	assert.Equal(t, http.StatusForbidden, code)

	code, env := do(http.MethodGet, "/api/v1/admin/users/pending", bearer(true))
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, env.Data, 1)

	code, _ = do(http.MethodPatch, "/api/v1/admin/users/"+u.ID.String()+"/approve", bearer(true))
	assert.Equal(t, http.StatusOK, code)
	code, _ = do(http.MethodPatch, "/api/v1/admin/users/"+u.ID.String()+"/reject", bearer(true))
	assert.Equal(t, http.StatusConflict, code)
	code, _ = do(http.MethodPatch, "/api/v1/admin/users/not-a-uuid/approve", bearer(true))
	assert.Equal(t, http.StatusBadRequest, code)
	code, _ = do(http.MethodPatch, "/api/v1/admin/users/"+uuid.NewString()+"/approve", bearer(true))
	assert.Equal(t, http.StatusNotFound, code)
}
