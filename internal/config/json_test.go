package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJSON_Success(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	p := filepath.Join(dir, "config.json")

	// Durations in JSON may be strings like "30s" or raw nanoseconds.
	jsonBody := `{
		"app": {
			"location_id": "loc-centro",
			"terminal_id": "term-03"
		},
		"adapter": {
			"http_address": "localhost:8080",
			"realtime_address": "ws://localhost:8080/api/realtime",
			"request_timeout": "10s"
		},
		"storage": {
			"db": { "dsn": "/var/lib/comandero/oplog.db" }
		},
		"workers": {
			"sync_interval": "30s",
			"retention_window": "24h",
			"max_retries": 5
		},
		"cache": {
			"fresh_for": "45s"
		}
	}`

	require.NoError(t, os.WriteFile(p, []byte(jsonBody), 0o600))

	// Act
	cfg, err := parseJSON(p)

	// Assert
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "loc-centro", cfg.App.LocationID)
	assert.Equal(t, "term-03", cfg.App.TerminalID)
	assert.Equal(t, "localhost:8080", cfg.Adapter.HTTPAddress)
	assert.Equal(t, "ws://localhost:8080/api/realtime", cfg.Adapter.RealtimeAddress)
	assert.Equal(t, 10*time.Second, cfg.Adapter.RequestTimeout)
	assert.Equal(t, "/var/lib/comandero/oplog.db", cfg.Storage.DB.DSN)
	assert.Equal(t, 30*time.Second, cfg.Workers.SyncInterval)
	assert.Equal(t, 24*time.Hour, cfg.Workers.RetentionWindow)
	assert.Equal(t, 5, cfg.Workers.MaxRetries)
	assert.Equal(t, 45*time.Second, cfg.Cache.FreshFor)
}

func TestParseJSON_FileMissing(t *testing.T) {
	_, err := parseJSON("/nonexistent/config.json")
	require.Error(t, err)
}

func TestParseJSON_MalformedBody(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(p, []byte(`{"app": `), 0o600))

	_, err := parseJSON(p)
	require.Error(t, err)
}

func TestClientConfigValidate(t *testing.T) {
	valid := func() *ClientConfig {
		cfg := &ClientConfig{
			App:     ClientApp{LocationID: "loc-centro"},
			Adapter: ClientAdapter{HTTPAddress: "localhost:8080"},
			Storage: ClientStorage{DB: ClientDB{DSN: "/tmp/oplog.db"}},
		}
		cfg.applyDefaults()
		return cfg
	}

	t.Run("valid config with defaults applied", func(t *testing.T) {
		cfg := valid()
		require.NoError(t, cfg.validate())
		assert.Equal(t, DefaultSyncInterval, cfg.Workers.SyncInterval)
		assert.Equal(t, DefaultRetentionWindow, cfg.Workers.RetentionWindow)
		assert.Equal(t, DefaultMaxRetries, cfg.Workers.MaxRetries)
		assert.Equal(t, DefaultCacheFreshFor, cfg.Cache.FreshFor)
	})

	t.Run("missing DSN", func(t *testing.T) {
		cfg := valid()
		cfg.Storage.DB.DSN = ""
		assert.ErrorIs(t, cfg.validate(), ErrInvalidStorageConfigs)
	})

	t.Run("in-memory DSN rejected", func(t *testing.T) {
		cfg := valid()
		cfg.Storage.DB.DSN = ":memory:"
		assert.ErrorIs(t, cfg.validate(), ErrInvalidStorageConfigs)
	})

	t.Run("missing adapter address", func(t *testing.T) {
		cfg := valid()
		cfg.Adapter.HTTPAddress = ""
		assert.ErrorIs(t, cfg.validate(), ErrInvalidAdapterConfigs)
	})

	t.Run("missing location", func(t *testing.T) {
		cfg := valid()
		cfg.App.LocationID = ""
		assert.ErrorIs(t, cfg.validate(), ErrInvalidAppConfigs)
	})
}
