package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container for the
// study-sync engine and its companion dev remote-store server. It
// aggregates all sub-configurations and is populated by merging values
// from environment variables, command-line flags, an optional JSON
// file, and built-in defaults (first non-zero value wins).
//
// Struct tags:
//   - envPrefix — prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       — direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds application-level settings such as the device label and
	// the optional payload-encryption passphrase.
	App App `envPrefix:"APP_"`

	// Storage holds the local entity store settings.
	Storage Storage `envPrefix:"STORAGE_"`

	// Adapter holds settings for the remote-store transport used by the
	// sync engine.
	Adapter Adapter `envPrefix:"ADAPTER_"`

	// Sync holds scheduling and retry settings for the sync coordinator.
	Sync Sync `envPrefix:"SYNC_"`

	// Server holds settings for the dev remote-store server binary.
	Server Server `envPrefix:"SERVER_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged on top of the values
	// already loaded from environment variables and flags.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds application-level configuration values.
type App struct {
	// DeviceLabel is a human-readable name for this install, shown in
	// conflict reports and logs. The stable device id itself is generated
	// once and persisted in the local store, not configured.
	// Env: APP_DEVICE_LABEL
	DeviceLabel string `env:"DEVICE_LABEL"`

	// Passphrase, when non-empty, enables the opaque payload transform:
	// snapshot bytes are sealed before upload and opened after download.
	// Env: APP_PASSPHRASE
	Passphrase string `env:"PASSPHRASE"`

	// LogPath is the optional file path for engine logs. Empty means
	// stdout.
	// Env: APP_LOG_PATH
	LogPath string `env:"LOG_PATH"`
}

// Storage holds configuration for the local entity store.
type Storage struct {
	// DSN is the SQLite path of the local entity store
	// (e.g. "/data/study.db", or ":memory:" in tests).
	// Env: STORAGE_DATABASE_URI
	DSN string `env:"DATABASE_URI"`
}

// Adapter holds configuration for the remote-store transport.
type Adapter struct {
	// BaseURL is the remote store endpoint (e.g. "http://localhost:8080").
	// Env: ADAPTER_BASE_URL
	BaseURL string `env:"BASE_URL"`

	// AuthToken is the bearer token attached to every remote request.
	// Empty disables the Authorization header.
	// Env: ADAPTER_AUTH_TOKEN
	AuthToken string `env:"AUTH_TOKEN"`

	// RequestTimeout is the per-request network timeout, independent of
	// the coordinator's retry schedule (e.g. "30s").
	// Env: ADAPTER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Sync holds scheduling and retry settings for the sync coordinator.
type Sync struct {
	// Interval is the periodic-sync tick (e.g. "15m").
	// Env: SYNC_INTERVAL
	Interval time.Duration `env:"INTERVAL"`

	// RetryBase is the first exponential-backoff delay (e.g. "2s").
	// Env: SYNC_RETRY_BASE
	RetryBase time.Duration `env:"RETRY_BASE"`

	// RetryCap bounds a single backoff delay (e.g. "60s").
	// Env: SYNC_RETRY_CAP
	RetryCap time.Duration `env:"RETRY_CAP"`

	// RetryAttempts is the retry budget for transient transport errors
	// within one sync attempt.
	// Env: SYNC_RETRY_ATTEMPTS
	RetryAttempts uint64 `env:"RETRY_ATTEMPTS"`
}

// Server holds network settings for the dev remote-store server.
type Server struct {
	// Address is the TCP address the server listens on, in "host:port"
	// format (e.g. "0.0.0.0:8080").
	// Env: SERVER_ADDRESS
	Address string `env:"ADDRESS"`

	// SignKey, when non-empty, enables bearer-token verification on all
	// /api routes. Tokens are validated as HS256 JWTs signed with it.
	// Env: SERVER_SIGN_KEY
	SignKey string `env:"SIGN_KEY"`
}

// GetStructuredConfig loads, merges, and validates the full
// configuration from all available sources in the following priority
// order (first non-zero value wins):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
//  4. Built-in defaults
//
// Returns a fully populated *StructuredConfig or an error if any source
// fails to load.
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		withDefaults().
		build()
}

// GetEngineConfig builds the merged configuration and validates the
// fields the sync engine requires (local store path, remote endpoint,
// timeouts, retry budget).
func GetEngineConfig() (*StructuredConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, err
	}
	return cfg, cfg.validateEngine()
}

// GetServerConfig builds the merged configuration and validates the
// fields the dev remote-store server requires.
func GetServerConfig() (*StructuredConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, err
	}
	return cfg, cfg.validateServer()
}
