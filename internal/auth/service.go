package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"airbook/internal/users"
	"airbook/pkg/logger"
	"airbook/pkg/token"

	"github.com/google/uuid"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountPending     = errors.New("account is awaiting approval")
	ErrAccountRejected    = errors.New("account was not approved")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
)

type Service interface {
	Register(ctx context.Context, req *RegisterRequest) (*users.User, error)
	Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*token.Pair, error)
	Me(ctx context.Context, userID uuid.UUID) (*users.User, error)
}

type service struct {
	repo     users.Repository
	tokens   *token.Manager
	log      *logger.Logger
	hashCost int
}

func NewService(repo users.Repository, tokens *token.Manager, log *logger.Logger) Service {
	return &service{
		repo:     repo,
		tokens:   tokens,
		log:      logger.OrDefault(log),
		hashCost: bcrypt.DefaultCost,
	}
}

func (s *service) Register(ctx context.Context, req *RegisterRequest) (*users.User, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	exists, err := s.repo.UsernameOrEmailExists(ctx, username, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, users.ErrUserAlreadyExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.hashCost)
	if err != nil {
		return nil, err
	}

	user := &users.User{
		Username:       username,
		Email:          email,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Password:       string(hashedPassword),
		ApprovalStatus: users.ApprovalPending,
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "User Registered", "user_id", user.ID.String(), "username", user.Username)
	return user, nil
}

// Login checks the password before the approval status.
func (s *service) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	user, err := s.repo.GetUserByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if err := approvalError(user); err != nil {
		return nil, err
	}

	pair, err := s.issue(user)
	if err != nil {
		return nil, err
	}
	s.log.LogAuthSuccess(ctx, user.ID.String(), "password")

	return &AuthResponse{
		User:         users.ToUserResponse(user),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    pair.ExpiresIn,
	}, nil
}

func (s *service) RefreshToken(ctx context.Context, refreshToken string) (*token.Pair, error) {
	claims, err := s.tokens.Parse(refreshToken, token.TypeRefresh)
	if err != nil {
		if errors.Is(err, token.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, ErrInvalidToken
	}
	// Verify user still exists and is approved
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := approvalError(user); err != nil {
		return nil, err
	}

	return s.issue(user)
}

func (s *service) Me(ctx context.Context, userID uuid.UUID) (*users.User, error) {
	return s.repo.GetUserByID(ctx, userID)
}

func (s *service) issue(user *users.User) (*token.Pair, error) {
	pair, err := s.tokens.IssuePair(token.Identity{
		UserID:   user.ID.String(),
		Username: user.Username,
		Email:    user.Email,
		IsAdmin:  user.IsAdmin,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to issue tokens: %w", err)
	}
	return pair, nil
}

func approvalError(user *users.User) error {
	switch user.ApprovalStatus {
	case users.ApprovalApproved:
		return nil
	case users.ApprovalRejected:
		return ErrAccountRejected
	default:
		return ErrAccountPending
	}
}
