package auth

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/user-account-service/internal/domain"
	apperrors "github.com/spec-kit/user-account-service/pkg/util"
)

// RequireAuthenticated ensures a principal is attached to the request.
func RequireAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := PrincipalFromContext(c); !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		return c.Next()
	}
}

// RequireRole ensures the principal holds one of the allowed roles. A missing
// principal is rejected as unauthenticated before any role check; an attached
// principal with the wrong role is forbidden.
func RequireRole(allowed ...domain.Role) fiber.Handler {
	allowedSet := make(map[domain.Role]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if len(allowedSet) == 0 {
			return c.Next()
		}
		if _, exists := allowedSet[principal.Role]; !exists {
			return apperrors.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}

// RequireSelfOrRole allows the owner of the addressed resource or a principal
// holding one of the allowed roles. Ownership matches the principal's account
// ID against the named route parameter.
func RequireSelfOrRole(param string, allowed ...domain.Role) fiber.Handler {
	allowedSet := make(map[domain.Role]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if id, err := strconv.ParseInt(c.Params(param), 10, 64); err == nil &&
			principal.User != nil && principal.User.ID == id {
			return c.Next()
		}
		if _, exists := allowedSet[principal.Role]; exists {
			return c.Next()
		}
		return apperrors.NewForbidden("insufficient role")
	}
}
