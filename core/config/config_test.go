package config_test

import (
	"testing"

	"rackhost/core/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := config.LoadConfig(t.TempDir())

	require.NoError(t, err)
	assert.Equal(t, "default", cfg.Server.Name)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.False(t, cfg.Server.Metrics)
	assert.Equal(t, "/metrics", cfg.Server.MetricsPath)
	assert.Equal(t, "/", cfg.Mount.Path)
	assert.Equal(t, "public", cfg.Mount.StaticDir)
	assert.True(t, cfg.Mount.Dispatch)
	assert.Equal(t, "development", cfg.Mount.Env)
	assert.Equal(t, "assets", cfg.Storage.Bucket)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("SERVER_NAME", "edge")
	t.Setenv("SERVER_TUNING_CONCURRENCY", "128")
	t.Setenv("MOUNT_PATH", "/app")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := config.LoadConfig(t.TempDir())

	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "edge", cfg.Server.Name)
	assert.Equal(t, 128, cfg.Server.Tuning.Concurrency)
	assert.Equal(t, "/app", cfg.Mount.Path)
	assert.Equal(t, "debug", cfg.Log.Level)
}
