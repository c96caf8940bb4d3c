package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoad_Defaults tests that sensible defaults apply with a clean
// environment.
func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080", cfg.ServerURL)
	assert.NotEmpty(t, cfg.DataDir)
	assert.Equal(t, 15*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 256, cfg.PolicyCacheSize)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.Debug)
}

// TestLoad_WithEnvironmentVariables tests that AWARDS_ prefixed
// environment variables override the defaults.
func TestLoad_WithEnvironmentVariables(t *testing.T) {
	defer func() {
		os.Unsetenv("AWARDS_SERVER_URL")
		os.Unsetenv("AWARDS_DATA_DIR")
		os.Unsetenv("AWARDS_HTTP_TIMEOUT")
		os.Unsetenv("AWARDS_POLICY_CACHE_SIZE")
		os.Unsetenv("AWARDS_DEBUG")
	}()

	os.Setenv("AWARDS_SERVER_URL", "http://env:9090")
	os.Setenv("AWARDS_DATA_DIR", "/tmp/awards-test")
	os.Setenv("AWARDS_HTTP_TIMEOUT", "30s")
	os.Setenv("AWARDS_POLICY_CACHE_SIZE", "16")
	os.Setenv("AWARDS_DEBUG", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://env:9090", cfg.ServerURL)
	assert.Equal(t, "/tmp/awards-test", cfg.DataDir)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 16, cfg.PolicyCacheSize)
	assert.True(t, cfg.Debug)
}

func TestLoad_InvalidCacheSize(t *testing.T) {
	defer os.Unsetenv("AWARDS_POLICY_CACHE_SIZE")
	os.Setenv("AWARDS_POLICY_CACHE_SIZE", "0")

	_, err := Load()
	require.Error(t, err)
}
