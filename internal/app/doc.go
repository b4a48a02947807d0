// Package app is the composition root for Folio.
//
// Run performs startup in this order:
//
//  1. Load .env, then the config file and environment (internal/config)
//  2. Apply command line overrides for the API base and refresh interval
//  3. Open the log file (internal/logging)
//  4. Build the catalog HTTP client and the shared state.Store
//  5. Load user preferences (internal/prefs)
//  6. Start the TUI and block until the user quits or the context is cancelled
//
// Refresh ticks are scheduled by the UI, which backs them off while the API is
// unreachable.
package app
