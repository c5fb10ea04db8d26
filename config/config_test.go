package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rvilla87/polymirror/config"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "https://clob.polymarket.com", cfg.API.CLOBBase)
	assert.Equal(t, "https://gamma-api.polymarket.com", cfg.API.GammaBase)
	assert.Equal(t, "https://data-api.polymarket.com", cfg.API.DataBase)
	assert.Equal(t, 60*time.Second, cfg.MirrorInterval())
	assert.Equal(t, 30, cfg.RateGate.MaxCalls)
	assert.Equal(t, 60*time.Second, cfg.RateWindow())
	assert.Equal(t, "polymirror.db", cfg.Storage.DSN)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_YAMLOverridesDefaults(t *testing.T) {
	yaml := `
api:
  clob_base: "http://localhost:8080"
mirror:
  interval_seconds: 5
  fetch_limit: 10
rate_gate:
  max_calls: 3
  window_seconds: 30
storage:
  dsn: ":memory:"
log:
  level: "debug"
  format: "json"
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080", cfg.API.CLOBBase)
	// lo no especificado mantiene el default
	assert.Equal(t, "https://gamma-api.polymarket.com", cfg.API.GammaBase)
	assert.Equal(t, 5*time.Second, cfg.MirrorInterval())
	assert.Equal(t, 10, cfg.Mirror.FetchLimit)
	assert.Equal(t, 3, cfg.RateGate.MaxCalls)
	assert.Equal(t, ":memory:", cfg.Storage.DSN)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api: [not a map"), 0o644))

	_, err := config.Load(path)
	assert.Error(t, err)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("POLYGON_RPC_URL", "https://rpc.example.test")
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "https://rpc.example.test", cfg.Chain.RPCURL)
	assert.Equal(t, "warn", cfg.Log.Level)
}
