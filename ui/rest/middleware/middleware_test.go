package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	pkgError "github.com/nicdemeagbeve-afk/synapse/pkg/error"
	"github.com/nicdemeagbeve-afk/synapse/pkg/security"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorResponse(t *testing.T) {
	cases := []struct {
		in     any
		status int
		code   string
	}{
		{pkgError.ValidationError("bad"), http.StatusBadRequest, "VALIDATION_ERROR"},
		{fmt.Errorf("wrapped: %w", pkgError.ForbiddenError("no")), http.StatusForbidden, "FORBIDDEN"},
		{pkgError.UpstreamError{Status: 404, Message: "instance does not exist"}, http.StatusNotFound, "UPSTREAM_ERROR"},
		{pkgError.NewStoreError(pkgError.KindNotFound, "get conversation", nil), http.StatusNotFound, "NOT_FOUND_ERROR"},
		{pkgError.NewStoreError(pkgError.KindUnavailable, "insert message", nil), http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE"},
		{pkgError.NewStoreError(pkgError.KindUnknown, "insert message", nil), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
		{"plain panic", http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}
	for _, tc := range cases {
		res := ErrorResponse(tc.in)
		assert.Equal(t, tc.status, res.Status, "%v", tc.in)
		assert.Equal(t, tc.code, res.Code, "%v", tc.in)
	}
}

func TestRecovery_RendersPanics(t *testing.T) {
	app := fiber.New()
	app.Use(Recovery())
	app.Get("/boom", func(c *fiber.Ctx) error {
		panic(pkgError.NotFoundError("missing"))
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAuth_AcceptsHeaderOrQueryToken(t *testing.T) {
	const secret = "middleware-secret-0123456789abcdef"
	token, err := security.GenerateToken(secret, "user_123", "a@b.c", time.Hour)
	require.NoError(t, err)

	app := fiber.New()
	app.Use(Auth(security.NewVerifier(secret)))
	app.Get("/me", func(c *fiber.Ctx) error {
		return c.SendString(UserID(c) + "|" + UserEmail(c))
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "bearer "+token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/me?token="+token, nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestBearerToken(t *testing.T) {
	assert.Equal(t, "abc", bearerToken("Bearer abc"))
	assert.Equal(t, "abc", bearerToken("  bearer   abc "))
	assert.Empty(t, bearerToken("abc"))
	assert.Empty(t, bearerToken(""))
}
