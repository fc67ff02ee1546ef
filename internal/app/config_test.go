package app

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join("testdata")
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	require.Equal(t, 9090, cfg.Server.Port)
	require.Equal(t, "https://app.example.com", cfg.Server.BaseURL)
	require.Equal(t, "postgres", cfg.Database.Driver)
	require.Equal(t, "db.example.com", cfg.Database.Host)
	require.Equal(t, "metrdotel", cfg.Database.Name)

	require.Equal(t, "file-secret", cfg.Auth.JWT.Secret)
	require.Equal(t, "auth0", cfg.Auth.JWT.Issuer)
	require.Equal(t, 30*time.Minute, cfg.Auth.JWT.TTL)

	require.Equal(t, 48*time.Hour, cfg.Tokens.TTL)
	require.Equal(t, "@every 30m", cfg.Tokens.SweepSchedule)

	require.True(t, cfg.Email.SMTP.Enabled)
	require.Equal(t, "smtp.example.com", cfg.Email.SMTP.Host)
	require.Equal(t, "/srv/uploads", cfg.Storage.Dir)
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("METRDOTEL_AUTH_JWT_SECRET", "env-secret")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	require.Equal(t, 8080, cfg.Server.Port)
	require.Equal(t, "sqlite", cfg.Database.Driver)
	require.Equal(t, "auth0", cfg.Auth.JWT.Issuer)
	require.Equal(t, time.Hour, cfg.Auth.JWT.TTL)
	require.Equal(t, 24*time.Hour, cfg.Tokens.TTL)
	require.Equal(t, "@hourly", cfg.Tokens.SweepSchedule)
	require.False(t, cfg.Email.SMTP.Enabled)
	require.Equal(t, "env-secret", cfg.Auth.JWT.Secret)
}

func TestLoadConfigRequiresSecret(t *testing.T) {
	_, err := LoadConfig(t.TempDir())
	require.Error(t, err)
	require.Contains(t, err.Error(), "auth.jwt.secret")
}
