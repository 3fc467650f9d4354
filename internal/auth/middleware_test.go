package auth_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/user-account-service/internal/auth"
	"github.com/spec-kit/user-account-service/internal/domain"
	apperrors "github.com/spec-kit/user-account-service/pkg/util"
)

const middlewareSecret = "middleware-test-secret"

// fakeUserRepo is an in-memory repository keyed by email.
type fakeUserRepo struct {
	users   map[string]*domain.User
	failing bool
	nextID  int64
}

func newFakeUserRepo(users ...*domain.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: make(map[string]*domain.User)}
	for _, user := range users {
		repo.nextID++
		if user.ID == 0 {
			user.ID = repo.nextID
		}
		repo.users[user.Email] = user
	}
	return repo
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	if _, exists := r.users[user.Email]; exists {
		return errors.New("duplicate email")
	}
	r.nextID++
	user.ID = r.nextID
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	r.users[user.Email] = user
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, exists := r.users[user.Email]; !exists {
		return pgx.ErrNoRows
	}
	r.users[user.Email] = user
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id int64) error {
	for email, user := range r.users {
		if user.ID == id {
			delete(r.users, email)
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (r *fakeUserRepo) SetEnabled(_ context.Context, id int64, enabled bool) (*domain.User, error) {
	for _, user := range r.users {
		if user.ID == id {
			user.Enabled = enabled
			return user, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	for _, user := range r.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	if r.failing {
		return nil, errors.New("store unavailable")
	}
	user, ok := r.users[email]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return user, nil
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, user := range r.users {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) List(_ context.Context) ([]*domain.User, error) {
	out := make([]*domain.User, 0, len(r.users))
	for _, user := range r.users {
		out = append(out, user)
	}
	return out, nil
}

func testUser(email string, role domain.Role, enabled bool) *domain.User {
	return &domain.User{
		Username: email,
		Email:    email,
		Enabled:  enabled,
		Role:     role,
	}
}

func newTestApp() *fiber.App {
	return fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			domainErr := apperrors.ToDomainError(err)
			return c.Status(domainErr.HTTPStatus).JSON(fiber.Map{"code": domainErr.Code})
		},
	})
}

func newProtectedApp(repo *fakeUserRepo) *fiber.App {
	tokens := auth.NewTokenManager(middlewareSecret, time.Hour)
	middleware := auth.NewMiddleware(tokens, repo, zap.NewNop())

	app := newTestApp()
	app.Get("/protected", middleware.Handle, auth.RequireAuthenticated(), func(c *fiber.Ctx) error {
		principal, _ := auth.PrincipalFromContext(c)
		return c.JSON(fiber.Map{"email": principal.Email, "role": principal.Role})
	})
	app.Get("/admin-only", middleware.Handle, auth.RequireRole(domain.RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	return app
}

func issueToken(t *testing.T, email string, role domain.Role) string {
	t.Helper()
	token, _, err := auth.NewTokenManager(middlewareSecret, time.Hour).Issue(email, role)
	require.NoError(t, err)
	return token
}

func doRequest(t *testing.T, app *fiber.App, path, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestMiddlewareMissingHeader(t *testing.T) {
	app := newProtectedApp(newFakeUserRepo())
	resp := doRequest(t, app, "/protected", "")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestMiddlewareWrongScheme(t *testing.T) {
	repo := newFakeUserRepo(testUser("admin@example.com", domain.RoleAdmin, true))
	app := newProtectedApp(repo)
	token := issueToken(t, "admin@example.com", domain.RoleAdmin)

	// The scheme prefix is matched exactly; anything else counts as no
	// credentials at all.
	for _, header := range []string{
		"Token " + token,
		"bearer " + token,
		"BEARER " + token,
		"Bearer",
		"Bearer ",
	} {
		resp := doRequest(t, app, "/protected", header)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode, "header %q", header)
	}
}

func TestMiddlewareInvalidToken(t *testing.T) {
	app := newProtectedApp(newFakeUserRepo())
	resp := doRequest(t, app, "/protected", "Bearer not.a.token")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestMiddlewareExpiredToken(t *testing.T) {
	repo := newFakeUserRepo(testUser("admin@example.com", domain.RoleAdmin, true))
	app := newProtectedApp(repo)

	past := time.Now().Add(-72 * time.Hour)
	expired, _, err := auth.NewTokenManager(middlewareSecret, time.Hour).
		WithClock(func() time.Time { return past }).
		Issue("admin@example.com", domain.RoleAdmin)
	require.NoError(t, err)

	// Expired before the role is even looked at.
	resp := doRequest(t, app, "/admin-only", "Bearer "+expired)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestMiddlewareUnknownSubject(t *testing.T) {
	app := newProtectedApp(newFakeUserRepo())
	token := issueToken(t, "ghost@example.com", domain.RoleAdmin)
	resp := doRequest(t, app, "/protected", "Bearer "+token)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestMiddlewareDisabledAccount(t *testing.T) {
	repo := newFakeUserRepo(testUser("off@example.com", domain.RoleEmployee, false))
	app := newProtectedApp(repo)
	token := issueToken(t, "off@example.com", domain.RoleEmployee)
	resp := doRequest(t, app, "/protected", "Bearer "+token)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestMiddlewareStoreFailureIsServerError(t *testing.T) {
	repo := newFakeUserRepo(testUser("admin@example.com", domain.RoleAdmin, true))
	repo.failing = true
	app := newProtectedApp(repo)
	token := issueToken(t, "admin@example.com", domain.RoleAdmin)

	// A transient store failure must not masquerade as bad credentials.
	resp := doRequest(t, app, "/protected", "Bearer "+token)
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestMiddlewareAttachesPrincipal(t *testing.T) {
	repo := newFakeUserRepo(testUser("admin@example.com", domain.RoleAdmin, true))
	app := newProtectedApp(repo)
	token := issueToken(t, "admin@example.com", domain.RoleAdmin)

	resp := doRequest(t, app, "/protected", "Bearer "+token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestMiddlewareRoleRecheckedFromStore(t *testing.T) {
	// The token claims ADMIN but the stored role was downgraded since issue;
	// the fresh record wins.
	user := testUser("demoted@example.com", domain.RoleEmployee, true)
	repo := newFakeUserRepo(user)
	app := newProtectedApp(repo)
	token := issueToken(t, "demoted@example.com", domain.RoleAdmin)

	resp := doRequest(t, app, "/admin-only", "Bearer "+token)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
}
