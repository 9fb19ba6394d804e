package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 0, cfg.Redis.DB)
	assert.Equal(t, 5*time.Minute, cfg.StatusTTL)
	assert.Equal(t, 2*time.Minute, cfg.RunTimeout)
	assert.Equal(t, time.Second, cfg.TriggerInterval)
	assert.Equal(t, "data/mailbox", cfg.MailboxDir)
	assert.Equal(t, "data/reports", cfg.ReportDir)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("RECON_HTTP_ADDR", ":9090")
	t.Setenv("RECON_POSTGRES_URL", "postgres://u:p@db:5432/recon")
	t.Setenv("RECON_REDIS_ADDR", "cache:6379")
	t.Setenv("RECON_RUN_TIMEOUT", "30s")
	t.Setenv("RECON_MAILBOX_DIR", "/srv/mailbox")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "postgres://u:p@db:5432/recon", cfg.PostgresURL)
	assert.Equal(t, "cache:6379", cfg.Redis.Addr)
	assert.Equal(t, 30*time.Second, cfg.RunTimeout)
	assert.Equal(t, "/srv/mailbox", cfg.MailboxDir)
}
