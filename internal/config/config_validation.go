package config

import "strings"

// validateEngine checks the invariants the sync engine depends on. The
// defaults source fills timeouts and retry settings, so failures here
// mean an explicit misconfiguration rather than an omission.
func (cfg *StructuredConfig) validateEngine() error {
	if cfg.Storage.DSN == "" {
		return ErrInvalidStorageConfigs
	}

	if cfg.Adapter.BaseURL == "" || cfg.Adapter.RequestTimeout <= 0 {
		return ErrInvalidAdapterConfigs
	}

	if cfg.Sync.Interval <= 0 || cfg.Sync.RetryBase <= 0 ||
		cfg.Sync.RetryCap < cfg.Sync.RetryBase || cfg.Sync.RetryAttempts == 0 {
		return ErrInvalidSyncConfigs
	}

	return nil
}

// validateServer checks the invariants the dev remote-store server
// depends on.
func (cfg *StructuredConfig) validateServer() error {
	if cfg.Server.Address == "" || !strings.Contains(cfg.Server.Address, ":") {
		return ErrInvalidServerConfigs
	}

	return nil
}
