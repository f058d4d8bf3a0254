package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func newApp() *fiber.App {
	app := fiber.New()
	app.Get("/me", Auth(secret), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"email": Email(c), "isAdmin": IsAdmin(c)})
	})
	app.Get("/admin", Auth(secret), AdminOnly, func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func signed(t *testing.T, secret, email string, isAdmin bool) string {
	t.Helper()
	tok := jwt.New(jwt.SigningMethodHS256)
	claims := tok.Claims.(jwt.MapClaims)
	claims["email"] = email
	claims["isAdmin"] = isAdmin
	claims["exp"] = time.Now().Add(time.Hour).Unix()
	s, err := tok.SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func get(t *testing.T, app *fiber.App, path, authorization string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestAuthMissingToken(t *testing.T) {
	app := newApp()
	resp := get(t, app, "/me", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthWrongSecret(t *testing.T) {
	app := newApp()
	resp := get(t, app, "/me", "Bearer "+signed(t, "other-secret", "jane@x.com", false))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthValidToken(t *testing.T) {
	app := newApp()
	resp := get(t, app, "/me", "Bearer "+signed(t, secret, "jane@x.com", false))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAuthExpiredToken(t *testing.T) {
	app := newApp()

	tok := jwt.New(jwt.SigningMethodHS256)
	claims := tok.Claims.(jwt.MapClaims)
	claims["email"] = "jane@x.com"
	claims["exp"] = time.Now().Add(-time.Hour).Unix()
	s, err := tok.SignedString([]byte(secret))
	require.NoError(t, err)

	resp := get(t, app, "/me", "Bearer "+s)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAdminOnly(t *testing.T) {
	app := newApp()

	resp := get(t, app, "/admin", "Bearer "+signed(t, secret, "jane@x.com", false))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = get(t, app, "/admin", "Bearer "+signed(t, secret, "admin@x.com", true))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
