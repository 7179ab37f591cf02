package users

import (
	"context"
	"errors"
	"fmt"

	"airbook/pkg/logger"

	"github.com/google/uuid"
)

var ErrInvalidTransition = errors.New("invalid approval status transition")

// Notifier is told when an account is approved (to avoid circular
// dependency with the notifications module).
type Notifier interface {
	AccountApproved(ctx context.Context, user *User) error
}

type Service interface {
	GetUser(ctx context.Context, id uuid.UUID) (*User, error)
	ListPending(ctx context.Context) ([]User, error)
	Approve(ctx context.Context, id uuid.UUID) (*User, error)
	Reject(ctx context.Context, id uuid.UUID) (*User, error)
	SetNotifier(n Notifier)
}

type service struct {
	repo     Repository
	notifier Notifier
	log      *logger.Logger
}

func NewService(repo Repository, log *logger.Logger) Service {
	return &service{
		repo: repo,
		log:  logger.OrDefault(log),
	}
}

func (s *service) SetNotifier(n Notifier) {
	s.notifier = n
}

func (s *service) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.repo.GetUserByID(ctx, id)
}

func (s *service) ListPending(ctx context.Context) ([]User, error) {
	pending, err := s.repo.ListUsersByStatus(ctx, ApprovalPending)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending users: %w", err)
	}
	return pending, nil
}

func (s *service) Approve(ctx context.Context, id uuid.UUID) (*User, error) {
	user, err := s.transition(ctx, id, ApprovalApproved)
	if err != nil {
		return nil, err
	}
	if s.notifier != nil {
		if err := s.notifier.AccountApproved(ctx, user); err != nil {
			s.log.WarnContext(ctx, "approval notification failed", "user_id", id.String(), "error", err.Error())
		}
	}
	return user, nil
}

// Reject marks the account rejected. The record is kept so the username
// stays taken and an administrator can still approve it later.
func (s *service) Reject(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.transition(ctx, id, ApprovalRejected)
}

func (s *service) transition(ctx context.Context, id uuid.UUID, next ApprovalStatus) (*User, error) {
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !user.ApprovalStatus.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, user.ApprovalStatus, next)
	}
	if err := s.repo.UpdateApprovalStatus(ctx, id, user.ApprovalStatus, next); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "Account Moderated",
		"user_id", id.String(),
		"username", user.Username,
		"from", user.ApprovalStatus.String(),
		"to", next.String(),
	)
	user.ApprovalStatus = next
	return user, nil
}
