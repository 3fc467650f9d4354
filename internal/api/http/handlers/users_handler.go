package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/user-account-service/internal/api/dto"
	"github.com/spec-kit/user-account-service/internal/auth"
	"github.com/spec-kit/user-account-service/internal/service"
	apperrors "github.com/spec-kit/user-account-service/pkg/util"
)

// UsersHandler exposes account administration endpoints.
type UsersHandler struct {
	users *service.UserService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(userService *service.UserService) *UsersHandler {
	return &UsersHandler{users: userService}
}

// List handles GET /api/users.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	users, err := h.users.List(c.Context())
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponseList(users)})
}

// GetByID handles GET /api/users/:id.
func (h *UsersHandler) GetByID(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	user, err := h.users.GetByID(c.Context(), id)
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

// Me handles GET /api/users/me. The principal's record was already loaded by
// the authentication filter this request, so no extra store read happens.
func (h *UsersHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(principal.User)})
}

// UpdateStatus handles PUT /api/users/:id/status?enabled=<bool>.
func (h *UsersHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	enabled, err := strconv.ParseBool(c.Query("enabled"))
	if err != nil {
		return apperrors.NewValidationError("enabled query parameter must be a boolean", nil)
	}

	user, err := h.users.SetStatus(c.Context(), actorFromContext(c), id, enabled)
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

// Delete handles DELETE /api/users/:id.
func (h *UsersHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.users.Delete(c.Context(), actorFromContext(c), id); err != nil {
		return apperrors.MapError(err)
	}
	return c.SendStatus(http.StatusNoContent)
}

func parseID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return 0, apperrors.NewValidationError("id must be an integer", nil)
	}
	return id, nil
}

func actorFromContext(c *fiber.Ctx) service.Actor {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return service.Actor{}
	}
	return service.Actor{ID: principal.User.ID, Email: principal.Email}
}
