package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setEnvVars(t *testing.T, vars map[string]string) {
	t.Helper()
	for k, v := range vars {
		t.Setenv(k, v)
	}
}

func TestParseEnv_AllFields(t *testing.T) {
	// Arrange
	envVars := map[string]string{
		"CONFIG": "/path/to/config.json",

		"APP_DEVICE_LABEL": "pixel-7",
		"APP_PASSPHRASE":   "hunter2",
		"APP_LOG_PATH":     "/tmp/engine.log",

		"STORAGE_DATABASE_URI": "/data/study.db",

		"ADAPTER_BASE_URL":        "http://localhost:8080",
		"ADAPTER_AUTH_TOKEN":      "bearer-secret",
		"ADAPTER_REQUEST_TIMEOUT": "30s",

		"SYNC_INTERVAL":       "15m",
		"SYNC_RETRY_BASE":     "2s",
		"SYNC_RETRY_CAP":      "60s",
		"SYNC_RETRY_ATTEMPTS": "5",

		"SERVER_ADDRESS":  "localhost:8080",
		"SERVER_SIGN_KEY": "jwt_secret",
	}
	setEnvVars(t, envVars)

	// Act
	cfg := &StructuredConfig{}
	err := parseEnv(cfg)

	// Assert
	require.NoError(t, err)

	assert.Equal(t, "/path/to/config.json", cfg.JSONFilePath)

	assert.Equal(t, "pixel-7", cfg.App.DeviceLabel)
	assert.Equal(t, "hunter2", cfg.App.Passphrase)
	assert.Equal(t, "/tmp/engine.log", cfg.App.LogPath)

	assert.Equal(t, "/data/study.db", cfg.Storage.DSN)

	assert.Equal(t, "http://localhost:8080", cfg.Adapter.BaseURL)
	assert.Equal(t, "bearer-secret", cfg.Adapter.AuthToken)
	assert.Equal(t, 30*time.Second, cfg.Adapter.RequestTimeout)

	assert.Equal(t, 15*time.Minute, cfg.Sync.Interval)
	assert.Equal(t, 2*time.Second, cfg.Sync.RetryBase)
	assert.Equal(t, 60*time.Second, cfg.Sync.RetryCap)
	assert.Equal(t, uint64(5), cfg.Sync.RetryAttempts)

	assert.Equal(t, "localhost:8080", cfg.Server.Address)
	assert.Equal(t, "jwt_secret", cfg.Server.SignKey)
}

func TestParseEnv_PartialFields(t *testing.T) {
	// Arrange
	envVars := map[string]string{
		"ADAPTER_BASE_URL": "http://sync.example.com",
		"SYNC_INTERVAL":    "5m",
	}
	setEnvVars(t, envVars)

	// Act
	cfg := &StructuredConfig{}
	err := parseEnv(cfg)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "http://sync.example.com", cfg.Adapter.BaseURL)
	assert.Equal(t, 5*time.Minute, cfg.Sync.Interval)
	assert.Empty(t, cfg.Storage.DSN)
	assert.Zero(t, cfg.Adapter.RequestTimeout)
}

func TestParseEnv_InvalidDuration(t *testing.T) {
	setEnvVars(t, map[string]string{"SYNC_INTERVAL": "not-a-duration"})

	cfg := &StructuredConfig{}
	err := parseEnv(cfg)

	require.Error(t, err)
}
