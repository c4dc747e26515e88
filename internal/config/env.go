package config

import "os"

// Environment overrides, applied after file parsing so deployment
// settings win without editing the config file.
//
//	FOLIO_ADDR      -> Server.Addr
//	FOLIO_DB        -> Storage.DatabasePath
//	FOLIO_LOG_LEVEL -> Logging.Level
//	FOLIO_DEBUG     -> Logging.Debug ("1" or "true")
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("FOLIO_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("FOLIO_DB"); v != "" {
		cfg.Storage.DatabasePath = v
	}
	if v := os.Getenv("FOLIO_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("FOLIO_DEBUG"); v == "1" || v == "true" {
		cfg.Logging.Debug = true
	}
}
