package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/user-account-service/internal/api/dto"
	"github.com/spec-kit/user-account-service/internal/observability"
	"github.com/spec-kit/user-account-service/internal/service"
	apperrors "github.com/spec-kit/user-account-service/pkg/util"
)

// AuthHandler exposes login and registration endpoints.
type AuthHandler struct {
	auth    *service.AuthService
	metrics *observability.Metrics
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, metrics *observability.Metrics) *AuthHandler {
	return &AuthHandler{auth: authService, metrics: metrics}
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password required", nil)
	}

	result, err := h.auth.Login(c.Context(), req.Email, req.Password, c.IP())
	if err != nil {
		h.metrics.RecordLogin("failure")
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			return apperrors.NewDomainError("INVALID_CREDENTIALS", "invalid credentials", http.StatusUnauthorized, nil)
		case errors.Is(err, service.ErrAccountDisabled):
			return apperrors.NewDomainError("ACCOUNT_DISABLED", "account disabled", http.StatusUnauthorized, nil)
		case errors.Is(err, service.ErrTooManyAttempts):
			return apperrors.NewTooManyRequests("too many login attempts")
		default:
			return apperrors.MapError(err)
		}
	}

	h.metrics.RecordLogin("success")
	return c.JSON(dto.LoginResponse{
		Token:     result.Token,
		TokenType: "Bearer",
		Email:     result.User.Email,
		Role:      string(result.User.Role),
		ExpiresAt: result.ExpiresAt,
	})
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("username, email and password required", nil)
	}

	input := service.RegisterInput{
		Username:    req.Username,
		Email:       req.Email,
		Password:    req.Password,
		FirstName:   optional(req.FirstName),
		LastName:    optional(req.LastName),
		DNI:         optional(req.DNI),
		PhoneNumber: optional(req.PhoneNumber),
	}
	if req.DateOfBirth != "" {
		parsed, err := time.Parse("2006-01-02", req.DateOfBirth)
		if err != nil {
			return apperrors.NewValidationError("dateOfBirth must be YYYY-MM-DD", nil)
		}
		input.DateOfBirth = &parsed
	}

	user, err := h.auth.Register(c.Context(), input, c.IP())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUsernameTaken):
			return apperrors.NewValidationError("username is already taken", nil)
		case errors.Is(err, service.ErrEmailTaken):
			return apperrors.NewValidationError("email is already in use", nil)
		default:
			return apperrors.MapError(err)
		}
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{
			"user": dto.NewUserResponse(user),
		},
	})
}

func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
