package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/propertydesk/internal/config"
	"github.com/ahmetcoskunkizilkaya/propertydesk/internal/dto"
	"github.com/ahmetcoskunkizilkaya/propertydesk/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/propertydesk/internal/remote"
	"github.com/ahmetcoskunkizilkaya/propertydesk/internal/services"
	"github.com/ahmetcoskunkizilkaya/propertydesk/internal/session"
	"github.com/ahmetcoskunkizilkaya/propertydesk/internal/store"
	"github.com/ahmetcoskunkizilkaya/propertydesk/internal/testutil"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, time.October, 18, 9, 0, 0, 0, time.UTC)

type env struct {
	app    *fiber.App
	store  *store.Store
	tokens map[string]string
	users  map[string]string
}

func newEnv(t *testing.T) *env {
	t.Helper()
	cfg := &config.Config{JWTSecret: "test-secret", JWTAccessExpiry: time.Hour, JWTRefreshExpiry: time.Hour, RateLimit: 1000}
	db := testutil.NewDB(t)
	testutil.SeedPortfolio(t, db)

	now := func() time.Time { return fixedNow }
	st := store.New(remote.NewGormClient(db, nil, 0), store.WithClock(now))
	_, err := st.FetchAll(context.Background())
	require.NoError(t, err)

	auth := services.NewAuthService(db, cfg)
	e := &env{store: st, tokens: map[string]string{}, users: map[string]string{}}
	for name, req := range map[string]dto.CreateAccountRequest{
		"root":  {Email: "root@example.com", Role: session.RoleSuperAdmin},
		"alice": {Email: "alice@example.com", Role: session.RoleManager, ProfileID: "mgr-a"},
		"bob":   {Email: "bob@example.com", Role: session.RoleManager, ProfileID: "mgr-b"},
		"carol": {Email: "carol@example.com", Role: session.RoleTenant},
	} {
		req.Password = "password1"
		user, err := auth.CreateAccount(&req)
		require.NoError(t, err)
		resp, err := auth.Login(&dto.LoginRequest{Email: req.Email, Password: req.Password})
		require.NoError(t, err)
		e.tokens[name] = resp.AccessToken
		e.users[name] = user.ID
	}

	e.app = fiber.New()
	Setup(e.app, cfg, Handlers{
		Auth:         handlers.NewAuthHandler(auth, st),
		Health:       handlers.NewHealthHandler(db, st),
		Dashboard:    handlers.NewDashboardHandler(st, now),
		Property:     handlers.NewPropertyHandler(st),
		Tenant:       handlers.NewTenantHandler(st),
		Manager:      handlers.NewManagerHandler(st),
		Payment:      handlers.NewPaymentHandler(st, now),
		Notification: handlers.NewNotificationHandler(st),
	})
	return e
}

// do sends a request as user ("" for anonymous) and decodes the JSON reply.
func (e *env) do(t *testing.T, method, path, user string, body any) (int, any) {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if user != "" {
		req.Header.Set("Authorization", "Bearer "+e.tokens[user])
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out any
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &out)
	}
	return resp.StatusCode, out
}

func field(v any, key string) any {
	m, _ := v.(map[string]any)
	return m[key]
}

func TestPublicAndProtectedRoutes(t *testing.T) {
	e := newEnv(t)

	status, body := e.do(t, "GET", "/api/health", "", nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "ok", field(body, "db"))

	status, body = e.do(t, "GET", "/api/dashboard", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, true, field(body, "error"))

	status, body = e.do(t, "GET", "/api/sync", "carol", nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.EqualValues(t, 1, field(body, "version"))

	status, body = e.do(t, "GET", "/api/auth/me", "alice", nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "mgr-a", field(body, "id"))

	status, _ = e.do(t, "GET", "/metrics", "", nil)
	assert.Equal(t, fiber.StatusOK, status)
}

func TestManagerSeesOnlyOwnUnits(t *testing.T) {
	e := newEnv(t)

	status, body := e.do(t, "GET", "/api/units", "alice", nil)
	require.Equal(t, fiber.StatusOK, status)
	units, _ := body.([]any)
	require.Len(t, units, 2)
	for _, u := range units {
		assert.Equal(t, "prop-a", field(u, "property_id"))
	}

	status, _ = e.do(t, "GET", "/api/units/unit-a1", "bob", nil)
	assert.Equal(t, fiber.StatusForbidden, status)

	status, _ = e.do(t, "GET", "/api/properties", "carol", nil)
	assert.Equal(t, fiber.StatusForbidden, status)

	status, _ = e.do(t, "GET", "/api/managers", "alice", nil)
	assert.Equal(t, fiber.StatusForbidden, status)
}

func TestDashboardsPerRole(t *testing.T) {
	e := newEnv(t)

	_, body := e.do(t, "GET", "/api/dashboard", "carol", nil)
	assert.Equal(t, "active", field(body, "gate"))
	assert.Len(t, field(body, "ledger"), 5)

	_, body = e.do(t, "GET", "/api/dashboard", "bob", nil)
	assert.Equal(t, "manager", field(body, "role"))
	assert.Len(t, field(body, "units"), 1)

	_, body = e.do(t, "GET", "/api/dashboard", "root", nil)
	assert.Len(t, field(body, "managers"), 2)

	status, body := e.do(t, "GET", "/api/tenants/ten-b1/ledger", "alice", nil)
	assert.Equal(t, fiber.StatusForbidden, status)
	status, body = e.do(t, "GET", "/api/tenants/ten-b1/ledger", "bob", nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Len(t, body, 3)
}

func TestPaymentSubmitAndReview(t *testing.T) {
	e := newEnv(t)

	status, body := e.do(t, "POST", "/api/payments", "carol", map[string]any{
		"amount": 3000, "period": "October 2026", "payment_method": "bank_transfer", "tenant_id": "ten-b1",
	})
	require.Equal(t, fiber.StatusCreated, status, body)
	assert.Equal(t, "ten-a1", field(body, "tenant_id"), "tenants always submit for themselves")
	assert.Equal(t, "pending", field(body, "status"))
	id, _ := field(body, "id").(string)

	status, _ = e.do(t, "PUT", "/api/payments/"+id+"/review", "carol", map[string]any{"status": "paid"})
	assert.Equal(t, fiber.StatusForbidden, status)
	status, _ = e.do(t, "PUT", "/api/payments/"+id+"/review", "bob", map[string]any{"status": "paid"})
	assert.Equal(t, fiber.StatusForbidden, status)

	status, body = e.do(t, "PUT", "/api/payments/"+id+"/review", "alice", map[string]any{"status": "paid"})
	require.Equal(t, fiber.StatusOK, status, body)
	assert.Equal(t, "paid", field(body, "status"))
	assert.Equal(t, "mgr-a", field(body, "reviewed_by"))

	status, body = e.do(t, "PUT", "/api/payments/"+id+"/review", "alice", map[string]any{"status": "rejected"})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, true, field(body, "error"))

	_, body = e.do(t, "GET", "/api/payments?status=paid", "carol", nil)
	assert.Len(t, body, 1)
}

func TestTenantLifecycle(t *testing.T) {
	e := newEnv(t)

	status, body := e.do(t, "POST", "/api/tenants/ten-a1/vacate", "alice", nil)
	require.Equal(t, fiber.StatusOK, status, body)
	assert.Equal(t, "inactive", field(body, "status"))
	assert.Nil(t, field(body, "unit_id"))

	u, _ := e.store.Snapshot().Unit("unit-a1")
	assert.Equal(t, "vacant", string(u.Status))

	_, body = e.do(t, "GET", "/api/dashboard", "carol", nil)
	assert.Equal(t, "inactive", field(body, "gate"))

	for _, user := range []string{"alice", "bob"} {
		status, _ = e.do(t, "GET", "/api/tenants/ten-a1", user, nil)
		assert.Equal(t, fiber.StatusOK, status, user)
	}

	status, body = e.do(t, "POST", "/api/tenants", "alice", map[string]any{
		"name": "Erin", "email": "erin@example.com", "unit_id": "unit-a2", "entry_date": "2026-09-15", "rent_due_day": 31,
	})
	require.Equal(t, fiber.StatusCreated, status, body)
	erin, _ := field(body, "id").(string)

	status, body = e.do(t, "PUT", "/api/tenants/"+erin, "alice", map[string]any{"name": nil})
	assert.Equal(t, fiber.StatusBadRequest, status, body)

	status, body = e.do(t, "PUT", "/api/tenants/"+erin, "alice", map[string]any{"phone": "555-0100", "national_id": nil})
	require.Equal(t, fiber.StatusOK, status, body)
	assert.Equal(t, "555-0100", field(body, "phone"))
	assert.Equal(t, "Erin", field(body, "name"))

	status, _ = e.do(t, "POST", "/api/tenants", "bob", map[string]any{"name": "Mallory", "unit_id": "unit-a1"})
	assert.Equal(t, fiber.StatusForbidden, status)
}

func TestValidationAndNotFound(t *testing.T) {
	e := newEnv(t)

	status, body := e.do(t, "POST", "/api/units", "alice", map[string]any{"name": "A-9", "property_id": "prop-a", "monthly_rent": -1})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, field(body, "message"), "monthly_rent")

	status, _ = e.do(t, "DELETE", "/api/managers/mgr-a", "root", nil)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, body = e.do(t, "PUT", "/api/managers/nobody", "root", map[string]any{"city": "Izmir"})
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "The manager no longer exists.", field(body, "message"))

	status, _ = e.do(t, "GET", "/api/tenants/nobody", "root", nil)
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestNotificationsAndAccounts(t *testing.T) {
	e := newEnv(t)

	status, body := e.do(t, "POST", "/api/notifications", "alice", map[string]any{
		"user_id": e.users["carol"], "title": "Rent reminder", "type": "reminder",
	})
	require.Equal(t, fiber.StatusCreated, status, body)
	id, _ := field(body, "id").(string)

	_, body = e.do(t, "GET", "/api/notifications", "carol", nil)
	assert.EqualValues(t, 1, field(body, "unread"))

	status, _ = e.do(t, "PUT", "/api/notifications/"+id+"/read", "bob", nil)
	assert.Equal(t, fiber.StatusNotFound, status)
	status, _ = e.do(t, "PUT", "/api/notifications/"+id+"/read", "carol", nil)
	assert.Equal(t, fiber.StatusOK, status)

	_, body = e.do(t, "GET", "/api/notifications", "carol", nil)
	assert.EqualValues(t, 0, field(body, "unread"))

	status, _ = e.do(t, "POST", "/api/admin/accounts", "root", map[string]any{
		"email": "dan@example.com", "password": "password1", "role": "tenant",
	})
	assert.Equal(t, fiber.StatusCreated, status)
	status, _ = e.do(t, "POST", "/api/admin/accounts", "root", map[string]any{
		"email": "ghost@example.com", "password": "password1", "role": "manager", "profile_id": "mgr-zzz",
	})
	assert.Equal(t, fiber.StatusBadRequest, status)
	status, _ = e.do(t, "POST", "/api/admin/accounts", "alice", map[string]any{
		"email": "x@example.com", "password": "password1", "role": "tenant",
	})
	assert.Equal(t, fiber.StatusForbidden, status)
}
