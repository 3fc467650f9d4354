package auth_test

import (
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/user-account-service/internal/auth"
	"github.com/spec-kit/user-account-service/internal/domain"
)

func newGuardApp(repo *fakeUserRepo) *fiber.App {
	tokens := auth.NewTokenManager(middlewareSecret, time.Hour)
	middleware := auth.NewMiddleware(tokens, repo, zap.NewNop())

	app := newTestApp()
	app.Get("/any-role", middleware.Handle, auth.RequireRole(), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	app.Get("/staff", middleware.Handle, auth.RequireRole(domain.RoleAdmin, domain.RoleSupervisor), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	app.Get("/accounts/:id", middleware.Handle, auth.RequireSelfOrRole("id", domain.RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	return app
}

func TestRequireRoleForbiddenNotUnauthorized(t *testing.T) {
	repo := newFakeUserRepo(testUser("worker@example.com", domain.RoleEmployee, true))
	app := newGuardApp(repo)
	token := issueToken(t, "worker@example.com", domain.RoleEmployee)

	// Authenticated but under-privileged: 403, never 401.
	resp := doRequest(t, app, "/staff", "Bearer "+token)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestRequireRoleAllowsMatchingRole(t *testing.T) {
	repo := newFakeUserRepo(testUser("super@example.com", domain.RoleSupervisor, true))
	app := newGuardApp(repo)
	token := issueToken(t, "super@example.com", domain.RoleSupervisor)

	resp := doRequest(t, app, "/staff", "Bearer "+token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequireRoleEmptySetAllowsAnyAuthenticated(t *testing.T) {
	repo := newFakeUserRepo(testUser("worker@example.com", domain.RoleEmployee, true))
	app := newGuardApp(repo)
	token := issueToken(t, "worker@example.com", domain.RoleEmployee)

	resp := doRequest(t, app, "/any-role", "Bearer "+token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequireSelfOrRole(t *testing.T) {
	worker := testUser("worker@example.com", domain.RoleEmployee, true)
	admin := testUser("admin@example.com", domain.RoleAdmin, true)
	repo := newFakeUserRepo(worker, admin)
	app := newGuardApp(repo)

	workerToken := issueToken(t, worker.Email, worker.Role)
	adminToken := issueToken(t, admin.Email, admin.Role)

	selfPath := "/accounts/" + strconv.FormatInt(worker.ID, 10)
	otherPath := "/accounts/" + strconv.FormatInt(admin.ID, 10)

	resp := doRequest(t, app, selfPath, "Bearer "+workerToken)
	require.Equal(t, http.StatusOK, resp.StatusCode, "own resource allowed")

	resp = doRequest(t, app, otherPath, "Bearer "+workerToken)
	require.Equal(t, http.StatusForbidden, resp.StatusCode, "someone else's resource forbidden")

	resp = doRequest(t, app, selfPath, "Bearer "+adminToken)
	require.Equal(t, http.StatusOK, resp.StatusCode, "admin may read any resource")
}
