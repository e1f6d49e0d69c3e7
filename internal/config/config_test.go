package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "")
	t.Setenv("REFRESH_RATE", "")
	t.Setenv("JWT_ACCESS_EXPIRY", "")
	t.Setenv("REFRESH_RETRY", "")

	cfg := Load()
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, 15*time.Minute, cfg.JWTAccessExpiry)
	assert.Equal(t, 4.0, cfg.RefreshRate)
	assert.Equal(t, 5*time.Second, cfg.RefreshRetry)
	assert.Equal(t, "propertydesk:changes", cfg.ChangeChannel)
}

func TestLoadOverridesAndBadValues(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("REMOTE_TIMEOUT", "3s")
	t.Setenv("REFRESH_RATE", "not-a-number")
	t.Setenv("REFRESH_BURST", "-2")
	t.Setenv("REFRESH_RETRY", "250ms")
	t.Setenv("JWT_REFRESH_EXPIRY", "forever")

	cfg := Load()
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, 3*time.Second, cfg.RemoteTimeout)
	assert.Equal(t, 4.0, cfg.RefreshRate)
	assert.Equal(t, 1, cfg.RefreshBurst)
	assert.Equal(t, 250*time.Millisecond, cfg.RefreshRetry)
	assert.Equal(t, 168*time.Hour, cfg.JWTRefreshExpiry)
}

func TestDSN(t *testing.T) {
	cfg := &Config{DBHost: "db", DBUser: "u", DBPassword: "p", DBName: "n", DBPort: "5432", DBSSLMode: "disable"}
	assert.Equal(t, "host=db user=u password=p dbname=n port=5432 sslmode=disable TimeZone=UTC", cfg.DSN())
}
