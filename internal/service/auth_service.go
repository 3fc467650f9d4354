package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/user-account-service/internal/auth"
	"github.com/spec-kit/user-account-service/internal/config"
	"github.com/spec-kit/user-account-service/internal/domain"
	"github.com/spec-kit/user-account-service/internal/events"
	"github.com/spec-kit/user-account-service/internal/repository"
)

// Authentication failures. Unknown email and wrong password both map to
// ErrInvalidCredentials so callers cannot enumerate accounts; a disabled
// account is reported distinctly.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDisabled    = errors.New("account disabled")
	ErrTooManyAttempts    = errors.New("too many login attempts")
	ErrEmailTaken         = errors.New("email already in use")
	ErrUsernameTaken      = errors.New("username already taken")
)

// AuthService coordinates credential verification, token issuance and
// registration.
type AuthService struct {
	users      repository.UserRepository
	tokenMgr   *auth.TokenManager
	dispatcher events.Dispatcher
	throttle   *auth.LoginThrottle
	logger     *zap.Logger
	bcryptCost int
}

// AuthDependencies encapsulates collaborator requirements for auth service.
type AuthDependencies struct {
	UserRepo   repository.UserRepository
	Dispatcher events.Dispatcher
	Throttle   *auth.LoginThrottle
	Logger     *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		users:      deps.UserRepo,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL()),
		dispatcher: deps.Dispatcher,
		throttle:   deps.Throttle,
		logger:     deps.Logger,
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// LoginResult carries the authenticated user and their issued token.
type LoginResult struct {
	User      *domain.User
	Token     string
	ExpiresAt time.Time
}

// Login authenticates by email and password. Every attempt, successful or
// not, is reported to the audit pipeline; that reporting never blocks or
// fails the login outcome.
func (s *AuthService) Login(ctx context.Context, email, password, sourceAddr string) (*LoginResult, error) {
	if !s.throttle.Allow(ctx, email, sourceAddr) {
		s.publishLogin(ctx, email, "", domain.AuditOutcomeFailure, "attempt limit reached", sourceAddr)
		return nil, ErrTooManyAttempts
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// The real reason stays in the audit trail; the caller sees
			// the same error as a wrong password.
			s.throttle.RecordFailure(ctx, email, sourceAddr)
			s.publishLogin(ctx, email, "", domain.AuditOutcomeFailure, "unknown email", sourceAddr)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		s.throttle.RecordFailure(ctx, email, sourceAddr)
		s.publishLogin(ctx, email, formatID(user.ID), domain.AuditOutcomeFailure, "wrong password", sourceAddr)
		return nil, ErrInvalidCredentials
	}

	if !user.Enabled {
		s.publishLogin(ctx, email, formatID(user.ID), domain.AuditOutcomeFailure, "account disabled", sourceAddr)
		return nil, ErrAccountDisabled
	}

	token, expiresAt, err := s.tokenMgr.Issue(user.Email, user.Role)
	if err != nil {
		return nil, err
	}

	s.throttle.Reset(ctx, email, sourceAddr)
	s.publishLogin(ctx, email, formatID(user.ID), domain.AuditOutcomeSuccess, "login", sourceAddr)

	return &LoginResult{User: user, Token: token, ExpiresAt: expiresAt}, nil
}

// RegisterInput carries the registration payload. Role is fixed to EMPLOYEE;
// privileged roles are only assigned by administrators.
type RegisterInput struct {
	Username    string
	Email       string
	Password    string
	FirstName   *string
	LastName    *string
	DNI         *string
	DateOfBirth *time.Time
	PhoneNumber *string
}

// Register creates a new enabled account with the default role.
func (s *AuthService) Register(ctx context.Context, in RegisterInput, sourceAddr string) (*domain.User, error) {
	if _, err := s.users.GetByUsername(ctx, in.Username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	if _, err := s.users.GetByEmail(ctx, in.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		DNI:          in.DNI,
		DateOfBirth:  in.DateOfBirth,
		PhoneNumber:  in.PhoneNumber,
		Enabled:      true,
		Role:         domain.RoleEmployee,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:           events.EventUserRegistered,
		ActorIdentity:  user.Email,
		ActorID:        formatID(user.ID),
		TargetIdentity: user.Email,
		TargetID:       formatID(user.ID),
		Description:    "account registered",
		Outcome:        domain.AuditOutcomeSuccess,
		SourceAddress:  sourceAddr,
	})
	return user, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) publishLogin(ctx context.Context, email, id string, outcome domain.AuditOutcome, description, sourceAddr string) {
	eventType := events.EventUserLoginSucceeded
	if outcome == domain.AuditOutcomeFailure {
		eventType = events.EventUserLoginFailed
	}
	s.publish(ctx, events.Event{
		Type:           eventType,
		ActorIdentity:  email,
		ActorID:        id,
		TargetIdentity: email,
		TargetID:       id,
		Description:    description,
		Outcome:        outcome,
		SourceAddress:  sourceAddr,
	})
}

func (s *AuthService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = time.Now()
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event publish failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}
