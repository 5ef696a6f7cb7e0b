package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func requiredEnv() map[string]string {
	return map[string]string{
		"DATABASE_URL": "postgres://localhost/toko",
		"REDIS_URL":    "redis://localhost:6379/0",
		"JWT_SECRET":   "secret",
	}
}

func TestLoadDefaults(t *testing.T) {
	env := requiredEnv()
	for _, key := range []string{"CART_SNAPSHOT_TTL", "CUSTOMER_EXISTENCE_TTL", "CART_SERIALIZE_RECONCILE", "CART_RATE_LIMIT", "PORT"} {
		env[key] = ""
	}
	cfg, err := LoadForTests(env)
	require.NoError(t, err)
	require.Equal(t, 10*time.Minute, cfg.CartSnapshotTTL)
	require.Equal(t, 10*time.Minute, cfg.CustomerExistenceTTL)
	require.False(t, cfg.CartSerializeReconcile)
	require.Equal(t, "60-M", cfg.CartRateLimit)
	require.Equal(t, ":8080", cfg.HTTPAddr())
}

func TestLoadOverrides(t *testing.T) {
	env := requiredEnv()
	env["CART_SNAPSHOT_TTL"] = "2m"
	env["CART_SERIALIZE_RECONCILE"] = "true"
	env["CORS_ALLOWED_ORIGINS"] = "https://a.test, ,https://b.test"
	env["CUSTOMER_LOOKUP_BREAKER_FAILURE_RATIO"] = "0.25"
	env["CUSTOMER_EXISTENCE_TTL"] = "soon"

	cfg, err := LoadForTests(env)
	require.NoError(t, err)
	require.Equal(t, 2*time.Minute, cfg.CartSnapshotTTL)
	require.True(t, cfg.CartSerializeReconcile)
	require.Equal(t, []string{"https://a.test", "https://b.test"}, cfg.CORSAllowedOrigins)
	require.InDelta(t, 0.25, cfg.CustomerLookupBreakerRatio, 1e-9)
	require.Equal(t, 10*time.Minute, cfg.CustomerExistenceTTL, "invalid durations fall back")
}

func TestLoadRequiresSecrets(t *testing.T) {
	env := requiredEnv()
	env["JWT_SECRET"] = ""
	_, err := LoadForTests(env)
	require.Error(t, err)
}
