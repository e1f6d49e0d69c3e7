package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/propertydesk/internal/config"
	"github.com/ahmetcoskunkizilkaya/propertydesk/internal/session"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cfg = &config.Config{JWTSecret: "test-secret"}

func token(t *testing.T, role string) string {
	t.Helper()
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   "user-1",
		"email": "alice@example.com",
		"role":  role,
		"pid":   "mgr-a",
		"exp":   time.Now().Add(time.Minute).Unix(),
	}).SignedString([]byte(cfg.JWTSecret))
	require.NoError(t, err)
	return raw
}

func newApp() *fiber.App {
	app := fiber.New()
	app.Get("/staff", JWTProtected(cfg), Identity(), RoleRequired(session.RoleManager, session.RoleSuperAdmin),
		func(c *fiber.Ctx) error {
			id, err := session.Get(c)
			if err != nil {
				return err
			}
			return c.SendString(id.ID)
		})
	return app
}

func get(t *testing.T, app *fiber.App, bearer string) int {
	t.Helper()
	req := httptest.NewRequest("GET", "/staff", nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestRoleRequired(t *testing.T) {
	app := newApp()

	assert.Equal(t, fiber.StatusOK, get(t, app, token(t, "manager")))
	assert.Equal(t, fiber.StatusForbidden, get(t, app, token(t, "tenant")))
	assert.Equal(t, fiber.StatusUnauthorized, get(t, app, token(t, "landlord")))
	assert.Equal(t, fiber.StatusUnauthorized, get(t, app, ""))
	assert.Equal(t, fiber.StatusUnauthorized, get(t, app, "not-a-token"))
}

func TestCORSAllowsListedOrigin(t *testing.T) {
	app := fiber.New()
	app.Use(CORS(&config.Config{CORSOrigins: "https://desk.example.com"}))
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString("ok") })

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Origin", "https://desk.example.com")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "https://desk.example.com", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", resp.Header.Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))
}
