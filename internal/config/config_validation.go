package config

import "strings"

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup.
//
// The structured config itself carries no invariants; validation happens on
// the derived [ClientConfig] view where defaults have already been applied.
func (cfg *StructuredConfig) validate() error {
	return nil
}

func (cfg *ClientConfig) validate() error {
	if cfg.Storage.DB.DSN == "" || strings.Contains(cfg.Storage.DB.DSN, "memory") {
		return ErrInvalidStorageConfigs
	}

	if cfg.Adapter.HTTPAddress == "" || cfg.Adapter.RequestTimeout == 0 {
		return ErrInvalidAdapterConfigs
	}

	if cfg.Workers.SyncInterval <= 0 || cfg.Workers.MaxRetries < 0 {
		return ErrInvalidWorkerConfigs
	}

	if cfg.App.LocationID == "" {
		return ErrInvalidAppConfigs
	}

	return nil
}
