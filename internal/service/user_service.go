package service

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/user-account-service/internal/domain"
	"github.com/spec-kit/user-account-service/internal/events"
	"github.com/spec-kit/user-account-service/internal/repository"
)

// Actor identifies who performs an administrative action, for the audit trail.
type Actor struct {
	ID    int64
	Email string
}

// UserService exposes account administration operations.
type UserService struct {
	users      repository.UserRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewUserService builds the service.
func NewUserService(users repository.UserRepository, dispatcher events.Dispatcher, logger *zap.Logger) *UserService {
	return &UserService{users: users, dispatcher: dispatcher, logger: logger}
}

// List returns all accounts.
func (s *UserService) List(ctx context.Context) ([]*domain.User, error) {
	return s.users.List(ctx)
}

// GetByID returns one account.
func (s *UserService) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

// SetStatus enables or disables an account.
func (s *UserService) SetStatus(ctx context.Context, actor Actor, id int64, enabled bool) (*domain.User, error) {
	user, err := s.users.SetEnabled(ctx, id, enabled)
	if err != nil {
		return nil, err
	}

	description := "account disabled"
	if enabled {
		description = "account enabled"
	}
	s.publish(ctx, events.Event{
		Type:           events.EventUserStatusChanged,
		ActorIdentity:  actor.Email,
		ActorID:        formatID(actor.ID),
		TargetIdentity: user.Email,
		TargetID:       formatID(user.ID),
		Description:    description,
		Outcome:        domain.AuditOutcomeSuccess,
	})
	return user, nil
}

// Delete removes an account.
func (s *UserService) Delete(ctx context.Context, actor Actor, id int64) error {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}

	s.publish(ctx, events.Event{
		Type:           events.EventUserDeleted,
		ActorIdentity:  actor.Email,
		ActorID:        formatID(actor.ID),
		TargetIdentity: user.Email,
		TargetID:       formatID(user.ID),
		Description:    "account deleted",
		Outcome:        domain.AuditOutcomeSuccess,
	})
	return nil
}

func (s *UserService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = time.Now()
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event publish failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}

func formatID(id int64) string {
	if id == 0 {
		return ""
	}
	return strconv.FormatInt(id, 10)
}
