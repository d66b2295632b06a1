package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container for the comandero
// terminal. It aggregates all sub-configurations and is populated by merging
// values from environment variables, command-line flags, and an optional JSON
// file.
//
// Struct tags:
//   - envPrefix — prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       — direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds application-level settings such as the terminal identity and
	// the location this terminal serves.
	App App `envPrefix:"APP_"`

	// Storage holds configuration for the local persistence backend that
	// keeps the durable operation log.
	Storage Storage `envPrefix:"STORAGE_"`

	// Adapter holds addresses and timeouts for the back-office server the
	// terminal replays operations against.
	Adapter Adapter `envPrefix:"ADAPTER_"`

	// Workers holds configuration for the background sync job.
	Workers Workers `envPrefix:"WORKERS_"`

	// Cache holds read-cache tuning knobs.
	Cache Cache `envPrefix:"CACHE_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged on top of the values
	// already loaded from environment variables and flags.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds application-level configuration values identifying this terminal.
type App struct {
	// LocationID is the restaurant location this terminal belongs to. It is
	// the default scope for cached collections and the realtime
	// subscription filter.
	// Env: APP_LOCATION_ID
	LocationID string `env:"LOCATION_ID"`

	// TerminalID identifies this physical terminal in server-side logs.
	// Env: APP_TERMINAL_ID
	TerminalID string `env:"TERMINAL_ID"`
}

// Storage groups the configuration for the local storage backend.
type Storage struct {
	// DB holds the local database connection settings.
	DB DB `envPrefix:"DB_"`
}

// DB holds connection settings for the local SQLite database that backs the
// operation log.
type DB struct {
	// DSN is the SQLite file path used to open the database connection
	// (e.g. "/var/lib/comandero/oplog.db").
	// Env: STORAGE_DB_DATABASE_URI
	DSN string `env:"DATABASE_URI"`
}

// Adapter holds network settings for the back-office server connection.
type Adapter struct {
	// HTTPAddress is the base address of the back-office HTTP API,
	// in "host:port" or URL format.
	// Env: ADAPTER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RealtimeAddress is the websocket endpoint of the server's push
	// channel (e.g. "ws://pos.example.com/api/realtime").
	// Env: ADAPTER_REALTIME_ADDRESS
	RealtimeAddress string `env:"REALTIME_ADDRESS"`

	// RequestTimeout is the maximum duration allowed for a single outbound
	// request before it is cancelled (e.g. "10s"). A hung request must not
	// be able to stall a drain cycle indefinitely.
	// Env: ADAPTER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Workers holds configuration for the background sync job.
type Workers struct {
	// SyncInterval defines how often the sync engine drains the operation
	// log, in addition to reconnect-triggered cycles.
	// Env: WORKERS_SYNC_INTERVAL
	SyncInterval time.Duration `env:"SYNC_INTERVAL"`

	// RetentionWindow defines how long successfully synced log entries are
	// kept before the purge routine removes them.
	// Env: WORKERS_RETENTION_WINDOW
	RetentionWindow time.Duration `env:"RETENTION_WINDOW"`

	// MaxRetries is the number of failed replay attempts after which an
	// entry is frozen and requires manual resolution.
	// Env: WORKERS_MAX_RETRIES
	MaxRetries int `env:"MAX_RETRIES"`
}

// Cache holds read-cache tuning knobs.
type Cache struct {
	// FreshFor is how long a fetched collection is considered fresh before
	// a read triggers a refetch (e.g. "30s").
	// Env: CACHE_FRESH_FOR
	FreshFor time.Duration `env:"FRESH_FOR"`
}

// GetStructuredConfig loads, merges, and validates the application
// configuration from all available sources in the following priority order
// (last source wins for non-zero fields):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
//
// Returns a fully populated *StructuredConfig or an error if any source
// fails to load or the final config fails validation.
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		build()
}
