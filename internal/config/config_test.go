package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRequiresDatabaseAndRedis(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("REDIS_URL", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")

	t.Setenv("DATABASE_URL", "postgres://localhost/feedstack")
	_, err = Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REDIS_URL")
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/feedstack")
	t.Setenv("REDIS_URL", "redis://localhost:6379")
	t.Setenv("FEEDSTACK_ADDR", "")
	t.Setenv("FETCH_TIMEOUT_SECONDS", "")
	t.Setenv("MASTODON_INSTANCE", "")
	t.Setenv("NITTER_INSTANCE", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8090", cfg.OpsAddr)
	assert.Equal(t, 5*time.Second, cfg.FetchTimeout)
	assert.Equal(t, "https://mastodon.social", cfg.MastodonInstance)
	assert.Equal(t, "https://nitter.net", cfg.NitterInstance)
	assert.Equal(t, "source-icons", cfg.IconBucket)
}

func TestLoadRejectsBadTimeout(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/feedstack")
	t.Setenv("REDIS_URL", "redis://localhost:6379")
	t.Setenv("FETCH_TIMEOUT_SECONDS", "zero")

	_, err := Load()
	assert.Error(t, err)
}
