// Package config loads Folio's runtime settings.
//
// # Resolution Order
//
// Settings are resolved in layers, later layers winning:
//
//  1. Built-in defaults
//  2. The TOML file (~/.config/folio/config.toml unless a path is given)
//  3. FOLIO_API_BASE, FOLIO_LOG_LEVEL and FOLIO_LOG_FORMAT
//  4. Command-line flags, applied by cmd/folio
//
// A missing file is not an error. Empty or zero values in the file keep the
// default. LoadEnvFiles reads .env from the working directory without
// replacing variables that are already set.
//
// # TOML Format
//
//	api_base = "http://localhost:8000"
//	request_timeout = 10      # seconds
//	log_file = "~/.local/share/folio/folio.log"
//	log_level = "info"        # debug, info, warn, error
//	log_format = "text"       # text, json
//	refresh_interval = 0      # seconds, 0 disables
//
// Tilde expansion is applied to the config path and log_file.
package config
