package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_PORT", "")
	t.Setenv("REASSIGN_LOCK_BACKEND", "")
	t.Setenv("AUTH_ACCESS_TOKEN_TTL_MINUTES", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:5000", cfg.App.Addr())
	assert.Equal(t, LockBackendRedis, cfg.Reassign.LockBackend)
	assert.Equal(t, 30*time.Second, cfg.Reassign.LockTTL())
	assert.Equal(t, 7*24*60, cfg.Auth.AccessTokenTTLMinutes)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("REASSIGN_LOCK_BACKEND", "MEMORY")
	t.Setenv("REASSIGN_LOCK_TTL_SECONDS", "5")
	t.Setenv("POSTGRES_MAX_CONNS", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, LockBackendMemory, cfg.Reassign.LockBackend)
	assert.Equal(t, 5*time.Second, cfg.Reassign.LockTTL())
	assert.Equal(t, int32(10), cfg.Postgres.MaxConns)
}

func TestLoadRejectsUnknownLockBackend(t *testing.T) {
	t.Setenv("REASSIGN_LOCK_BACKEND", "etcd")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsBadRedisDB(t *testing.T) {
	t.Setenv("REDIS_DB", "zero")

	_, err := Load()
	assert.Error(t, err)
}
