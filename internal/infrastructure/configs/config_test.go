package configs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	require.Equal(t, "0.0.0.0", cfg.HTTP.Host)
	require.Equal(t, uint16(8080), cfg.HTTP.Port)
	require.Equal(t, 7*24*time.Hour, cfg.Auth.TokenTTL)
	require.Equal(t, "parlor", cfg.Auth.Issuer)
	require.Equal(t, "./data", cfg.Store.Path)
	require.Equal(t, 20, cfg.RateLimiter.RequestsPerTimeFrame)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	contents := []byte(`
http:
  host: 127.0.0.1
  port: 9090
auth:
  secret: file-secret
store:
  path: /tmp/parlor-test
`)
	require.NoError(t, os.WriteFile(path, contents, 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, "127.0.0.1", cfg.HTTP.Host)
	require.Equal(t, uint16(9090), cfg.HTTP.Port)
	require.Equal(t, "file-secret", cfg.Auth.Secret)
	require.Equal(t, "/tmp/parlor-test", cfg.Store.Path)
	// Unset keys still take defaults.
	require.Equal(t, 7*24*time.Hour, cfg.Auth.TokenTTL)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("http:\n  port: 9090\n"), 0o600))

	t.Setenv("HTTP_PORT", "7070")
	t.Setenv("AUTH_SECRET", "env-secret")

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, uint16(7070), cfg.HTTP.Port)
	require.Equal(t, "env-secret", cfg.Auth.Secret)
}

func TestLoadMissingFileFails(t *testing.T) {
	_, err := Load("/does/not/exist.yaml")
	require.Error(t, err)
}
