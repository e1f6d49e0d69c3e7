package services

import (
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/propertydesk/internal/config"
	"github.com/ahmetcoskunkizilkaya/propertydesk/internal/dto"
	"github.com/ahmetcoskunkizilkaya/propertydesk/internal/session"
	"github.com/ahmetcoskunkizilkaya/propertydesk/internal/testutil"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func newAuth(t *testing.T) *AuthService {
	t.Helper()
	cfg := &config.Config{JWTSecret: secret, JWTAccessExpiry: time.Minute, JWTRefreshExpiry: time.Hour}
	return NewAuthService(testutil.NewDB(t), cfg)
}

func parseClaims(t *testing.T, raw string) jwt.MapClaims {
	t.Helper()
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) { return []byte(secret), nil })
	require.NoError(t, err)
	return claims
}

func TestCreateAccountAndLogin(t *testing.T) {
	s := newAuth(t)

	user, err := s.CreateAccount(&dto.CreateAccountRequest{
		Email: " Alice@Example.com ", Password: "password1", Role: session.RoleManager, ProfileID: "mgr-a",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, "mgr-a", user.ProfileID)

	resp, err := s.Login(&dto.LoginRequest{Email: "ALICE@example.com", Password: "password1"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.RefreshToken)

	id, err := session.FromClaims(parseClaims(t, resp.AccessToken))
	require.NoError(t, err)
	assert.Equal(t, "mgr-a", id.ID)
	assert.Equal(t, user.ID, id.UserID)
	assert.Equal(t, session.RoleManager, id.Role)

	_, err = s.Login(&dto.LoginRequest{Email: "alice@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = s.Login(&dto.LoginRequest{Email: "nobody@example.com", Password: "password1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestCreateAccountValidation(t *testing.T) {
	s := newAuth(t)

	_, err := s.CreateAccount(&dto.CreateAccountRequest{Email: "t@example.com", Password: "password1", Role: session.RoleTenant})
	require.NoError(t, err)

	_, err = s.CreateAccount(&dto.CreateAccountRequest{Email: "T@example.com", Password: "password1", Role: session.RoleTenant})
	assert.ErrorIs(t, err, ErrEmailTaken)

	for name, req := range map[string]dto.CreateAccountRequest{
		"short password":     {Email: "a@example.com", Password: "short", Role: session.RoleTenant},
		"bad email":          {Email: "nope", Password: "password1", Role: session.RoleTenant},
		"unknown role":       {Email: "b@example.com", Password: "password1", Role: "owner"},
		"manager no profile": {Email: "c@example.com", Password: "password1", Role: session.RoleManager},
	} {
		_, err := s.CreateAccount(&req)
		assert.ErrorIs(t, err, ErrInvalidAccount, name)
	}
}

func TestTenantTokenUsesAccountID(t *testing.T) {
	s := newAuth(t)
	user, err := s.CreateAccount(&dto.CreateAccountRequest{Email: "carol@example.com", Password: "password1", Role: session.RoleTenant})
	require.NoError(t, err)

	resp, err := s.Login(&dto.LoginRequest{Email: "carol@example.com", Password: "password1"})
	require.NoError(t, err)
	id, err := session.FromClaims(parseClaims(t, resp.AccessToken))
	require.NoError(t, err)
	assert.Equal(t, user.ID, id.ID)
	assert.Equal(t, "carol@example.com", id.Email)
}

func TestRefreshRotatesToken(t *testing.T) {
	s := newAuth(t)
	_, err := s.CreateAccount(&dto.CreateAccountRequest{Email: "root@example.com", Password: "password1", Role: session.RoleSuperAdmin})
	require.NoError(t, err)
	first, err := s.Login(&dto.LoginRequest{Email: "root@example.com", Password: "password1"})
	require.NoError(t, err)

	second, err := s.Refresh(&dto.RefreshRequest{RefreshToken: first.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	_, err = s.Refresh(&dto.RefreshRequest{RefreshToken: first.RefreshToken})
	assert.ErrorIs(t, err, ErrInvalidToken, "a used refresh token is revoked")

	require.NoError(t, s.Logout(&dto.LogoutRequest{RefreshToken: second.RefreshToken}))
	_, err = s.Refresh(&dto.RefreshRequest{RefreshToken: second.RefreshToken})
	assert.ErrorIs(t, err, ErrInvalidToken)
}
