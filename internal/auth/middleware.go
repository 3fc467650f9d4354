package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/user-account-service/internal/domain"
	"github.com/spec-kit/user-account-service/internal/repository"
	apperrors "github.com/spec-kit/user-account-service/pkg/util"
)

const principalKey = "auth_principal"

// bearerPrefix is matched exactly; any other scheme counts as no credentials.
const bearerPrefix = "Bearer "

// Principal represents the authenticated caller for the lifetime of one
// request. It is rebuilt per request and never persisted.
type Principal struct {
	User      *domain.User
	Email     string
	Role      domain.Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Middleware validates bearer tokens and attaches principals to the request.
type Middleware struct {
	tokens *TokenManager
	users  repository.UserRepository
	logger *zap.Logger
}

// NewMiddleware constructs the request authentication filter.
func NewMiddleware(tokens *TokenManager, users repository.UserRepository, logger *zap.Logger) *Middleware {
	return &Middleware{tokens: tokens, users: users, logger: logger}
}

// Handle enforces authentication for protected routes. On a valid token it
// performs exactly one credential-store read to confirm the account still
// exists and is enabled; the role is taken from the fresh record, not from
// the (possibly stale) claims.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	token, ok := extractBearer(c.Get(fiber.HeaderAuthorization))
	if !ok {
		return apperrors.NewUnauthorized("missing bearer token")
	}

	claims, err := m.tokens.Parse(token)
	if err != nil {
		// The classification stays in the logs; callers only learn that
		// authentication failed.
		m.logger.Debug("token rejected", zap.Error(err))
		return apperrors.NewUnauthorized("invalid token")
	}

	user, err := m.users.GetByEmail(c.Context(), claims.Subject)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewUnauthorized("invalid token")
		}
		// A store failure is a server fault, not an authentication failure.
		return apperrors.MapError(err)
	}
	if !user.Enabled {
		return apperrors.NewUnauthorized("invalid token")
	}

	principal := &Principal{
		User:  user,
		Email: user.Email,
		Role:  user.Role,
	}
	if claims.IssuedAt != nil {
		principal.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		principal.ExpiresAt = claims.ExpiresAt.Time
	}

	c.Locals(principalKey, principal)
	return c.Next()
}

// extractBearer returns the token portion of an Authorization header value.
func extractBearer(header string) (string, bool) {
	token, found := strings.CutPrefix(header, bearerPrefix)
	if !found || token == "" {
		return "", false
	}
	return token, true
}

// PrincipalFromContext retrieves the authenticated caller.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
