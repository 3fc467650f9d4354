package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/user-account-service/internal/auth"
	"github.com/spec-kit/user-account-service/internal/config"
	"github.com/spec-kit/user-account-service/internal/domain"
	"github.com/spec-kit/user-account-service/internal/repository"
)

type seedUser struct {
	username    string
	email       string
	password    string
	firstName   string
	lastName    string
	dni         string
	dateOfBirth time.Time
	phoneNumber string
	role        domain.Role
}

// SeedDefaultUsers creates the default accounts when they are absent. It is
// idempotent: existing accounts are left untouched.
func SeedDefaultUsers(ctx context.Context, users repository.UserRepository, cfg config.SeedConfig, bcryptCost int, logger *zap.Logger) error {
	if !cfg.Enabled {
		return nil
	}

	seeds := []seedUser{
		{
			username:    "admin",
			email:       "admin@example.com",
			password:    cfg.AdminPassword,
			firstName:   "Super",
			lastName:    "Admin",
			dni:         "12345678",
			dateOfBirth: time.Date(1985, time.May, 15, 0, 0, 0, 0, time.UTC),
			phoneNumber: "987654321",
			role:        domain.RoleAdmin,
		},
		{
			username:    "supervisor",
			email:       "supervisor@example.com",
			password:    cfg.SupervisorPassword,
			firstName:   "Ana",
			lastName:    "Gomez",
			dni:         "45678901",
			dateOfBirth: time.Date(1988, time.July, 25, 0, 0, 0, 0, time.UTC),
			phoneNumber: "954321098",
			role:        domain.RoleSupervisor,
		},
		{
			username:    "empleado",
			email:       "empleado@example.com",
			password:    cfg.EmployeePassword,
			firstName:   "Juan",
			lastName:    "Perez",
			dni:         "87654321",
			dateOfBirth: time.Date(1990, time.October, 20, 0, 0, 0, 0, time.UTC),
			phoneNumber: "912345678",
			role:        domain.RoleEmployee,
		},
	}

	for _, seed := range seeds {
		if _, err := users.GetByEmail(ctx, seed.email); err == nil {
			continue
		} else if !errors.Is(err, pgx.ErrNoRows) {
			return err
		}

		hash, err := auth.HashPassword(seed.password, bcryptCost)
		if err != nil {
			return err
		}

		user := &domain.User{
			Username:     seed.username,
			Email:        seed.email,
			PasswordHash: hash,
			FirstName:    ptr(seed.firstName),
			LastName:     ptr(seed.lastName),
			DNI:          ptr(seed.dni),
			DateOfBirth:  ptrTime(seed.dateOfBirth),
			PhoneNumber:  ptr(seed.phoneNumber),
			Enabled:      true,
			Role:         seed.role,
		}
		if err := users.Create(ctx, user); err != nil {
			return err
		}
		logger.Info("seeded default user",
			zap.String("username", seed.username),
			zap.String("role", string(seed.role)))
	}
	return nil
}

func ptr(s string) *string {
	return &s
}

func ptrTime(t time.Time) *time.Time {
	return &t
}
