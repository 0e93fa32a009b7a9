package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("APP_PORT", "8080")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("JWT_ISSUER", "book-api")
	t.Setenv("JWT_AUDIENCE", "book-api-clients")
	t.Setenv("STORE_DRIVER", "memory")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StoreMemory, cfg.StoreDriver)
	assert.Equal(t, 60, cfg.AccessTTLMin)
	assert.Equal(t, 7, cfg.RefreshTTLDays)
	assert.Equal(t, "logs/auth.log", cfg.AuthLogPath)
	assert.False(t, cfg.EventsEnabled)
}

func TestLoad_ReportsAllMissing(t *testing.T) {
	for _, k := range []string{"APP_PORT", "JWT_SECRET", "JWT_ISSUER", "JWT_AUDIENCE", "DB_USER", "DB_HOST", "DB_PORT", "DB_NAME"} {
		t.Setenv(k, "")
	}
	t.Setenv("STORE_DRIVER", "mysql")

	_, err := Load()
	require.Error(t, err)
	for _, k := range []string{"APP_PORT", "JWT_SECRET", "JWT_ISSUER", "JWT_AUDIENCE", "DB_USER", "DB_NAME"} {
		assert.Contains(t, err.Error(), "missing required env var: "+k)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	setRequired(t)
	t.Setenv("JWT_EXPIRES_MIN", "soon")
	t.Setenv("STORE_DRIVER", "postgres")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid int for JWT_EXPIRES_MIN: "soon"`)
	assert.Contains(t, err.Error(), `invalid STORE_DRIVER "postgres"`)
}

func TestLoadDotEnv_DoesNotOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("BOOKAPI_TEST_A=from-file\nBOOKAPI_TEST_B=from-file\n"), 0o600))
	t.Setenv("BOOKAPI_TEST_A", "from-env")
	t.Setenv("BOOKAPI_TEST_B", "")
	os.Unsetenv("BOOKAPI_TEST_B")

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "from-env", os.Getenv("BOOKAPI_TEST_A"))
	assert.Equal(t, "from-file", os.Getenv("BOOKAPI_TEST_B"))
	os.Unsetenv("BOOKAPI_TEST_B")

	assert.NoError(t, LoadDotEnv(filepath.Join(dir, "missing.env")))
}

func TestLoadRateLimitConfig_Clamps(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "2s")
	t.Setenv("RATE_LIMIT_TTL", "1s")

	cfg := LoadRateLimitConfig()
	assert.Equal(t, 1, cfg.Capacity)
	assert.Equal(t, 10*time.Second, cfg.TTL)
}

func TestLoadCacheAndCORS(t *testing.T) {
	t.Setenv("CACHE_METHODS", "get, head")
	t.Setenv("CORS_ALLOW_ORIGINS", "https://a.example, https://b.example")

	assert.Equal(t, map[string]bool{"GET": true, "HEAD": true}, LoadCacheConfig().Methods)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, LoadCORSConfig().AllowOrigins)
}
