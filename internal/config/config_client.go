package config

import (
	"fmt"
	"time"
)

// Defaults applied by [GetClientConfig] when a setting is absent from every
// configuration source.
const (
	DefaultRequestTimeout  = 10 * time.Second
	DefaultSyncInterval    = 30 * time.Second
	DefaultRetentionWindow = 24 * time.Hour
	DefaultMaxRetries      = 5
	DefaultCacheFreshFor   = 30 * time.Second
)

// ClientApp holds terminal identity settings derived from the shared
// structured config.
type ClientApp struct {
	// LocationID is the location scope this terminal serves.
	LocationID string
	// TerminalID identifies this terminal in server-side logs.
	TerminalID string
}

// ClientAdapter holds network settings used by the terminal transport layer.
type ClientAdapter struct {
	// HTTPAddress is the back-office HTTP endpoint address.
	HTTPAddress string
	// RealtimeAddress is the websocket push endpoint URL.
	RealtimeAddress string
	// RequestTimeout is the default timeout for outbound requests.
	RequestTimeout time.Duration
}

// ClientDB contains local database connection settings for the terminal.
type ClientDB struct {
	// DSN is the SQLite file path backing the operation log.
	DSN string
}

// ClientStorage groups local storage backend settings.
type ClientStorage struct {
	// DB holds local database settings.
	DB ClientDB
}

// ClientWorkers contains background sync job settings.
type ClientWorkers struct {
	// SyncInterval defines how often the sync engine drains the log.
	SyncInterval time.Duration
	// RetentionWindow defines how long synced entries are retained.
	RetentionWindow time.Duration
	// MaxRetries is the replay attempt cap before an entry is frozen.
	MaxRetries int
}

// ClientCache contains read-cache settings.
type ClientCache struct {
	// FreshFor is the freshness window of a fetched collection.
	FreshFor time.Duration
}

// ClientConfig is the top-level terminal configuration assembled from
// [StructuredConfig].
type ClientConfig struct {
	// App contains terminal identity settings.
	App ClientApp
	// Adapter contains transport addresses and timeouts.
	Adapter ClientAdapter
	// Storage contains local storage settings.
	Storage ClientStorage
	// Workers contains background job settings.
	Workers ClientWorkers
	// Cache contains read-cache settings.
	Cache ClientCache
}

// GetClientConfig builds and validates a terminal-specific config view from
// the merged structured configuration, applying defaults for absent tuning
// knobs.
func GetClientConfig() (*ClientConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	clientCfg := &ClientConfig{
		App: ClientApp{
			LocationID: cfg.App.LocationID,
			TerminalID: cfg.App.TerminalID,
		},
		Adapter: ClientAdapter{
			HTTPAddress:     cfg.Adapter.HTTPAddress,
			RealtimeAddress: cfg.Adapter.RealtimeAddress,
			RequestTimeout:  cfg.Adapter.RequestTimeout,
		},
		Storage: ClientStorage{
			DB: ClientDB{
				DSN: cfg.Storage.DB.DSN,
			},
		},
		Workers: ClientWorkers{
			SyncInterval:    cfg.Workers.SyncInterval,
			RetentionWindow: cfg.Workers.RetentionWindow,
			MaxRetries:      cfg.Workers.MaxRetries,
		},
		Cache: ClientCache{
			FreshFor: cfg.Cache.FreshFor,
		},
	}
	clientCfg.applyDefaults()

	return clientCfg, clientCfg.validate()
}

func (cfg *ClientConfig) applyDefaults() {
	if cfg.Adapter.RequestTimeout == 0 {
		cfg.Adapter.RequestTimeout = DefaultRequestTimeout
	}
	if cfg.Workers.SyncInterval == 0 {
		cfg.Workers.SyncInterval = DefaultSyncInterval
	}
	if cfg.Workers.RetentionWindow == 0 {
		cfg.Workers.RetentionWindow = DefaultRetentionWindow
	}
	if cfg.Workers.MaxRetries == 0 {
		cfg.Workers.MaxRetries = DefaultMaxRetries
	}
	if cfg.Cache.FreshFor == 0 {
		cfg.Cache.FreshFor = DefaultCacheFreshFor
	}
}
