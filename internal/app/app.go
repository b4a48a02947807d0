package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/five82/folio/internal/catalog"
	"github.com/five82/folio/internal/config"
	"github.com/five82/folio/internal/logging"
	"github.com/five82/folio/internal/prefs"
	"github.com/five82/folio/internal/state"
	"github.com/five82/folio/internal/ui"
)

// Options configure the Folio application.
type Options struct {
	ConfigPath   string
	PrefsPath    string // empty uses default ~/.config/folio/prefs.toml
	APIBase      string // overrides the config file and FOLIO_API_BASE
	RefreshEvery int    // seconds; zero keeps the configured interval
	SourceRoot   string // stripped from source paths in log records
}

// Run boots the Folio TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	config.LoadEnvFiles()

	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	logger, closer, err := logging.Setup(logging.Options{
		Path:     cfg.LogFile,
		Level:    cfg.LogLevel,
		Format:   cfg.LogFormat,
		RootPath: opts.SourceRoot,
	})
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer closer.Close()

	client, err := catalog.NewClient(cfg.APIBase,
		catalog.WithTimeout(cfg.RequestTimeout),
		catalog.WithLogger(logger),
	)
	if err != nil {
		return fmt.Errorf("init catalog client: %w", err)
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}
	userPrefs := prefs.Load(prefsPath)

	logger.Info("folio starting",
		"api_base", client.BaseURL(),
		"refresh", cfg.RefreshInterval,
		"theme", userPrefs.Theme,
	)

	err = ui.Run(ui.Options{
		Context:      ctx,
		Store:        state.NewStore(client, logger),
		Logger:       logger,
		APIBase:      client.BaseURL(),
		LogPath:      cfg.LogFile,
		RefreshEvery: cfg.RefreshInterval,
		PrefsPath:    prefsPath,
		Prefs:        userPrefs,
	})
	if err != nil {
		logger.Error("ui exited", "error", err)
		return fmt.Errorf("run ui: %w", err)
	}
	logger.Info("folio stopped")
	return nil
}

// loadConfig reads the config file and environment, then applies command
// line overrides.
func loadConfig(opts Options) (config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	if v := strings.TrimSpace(opts.APIBase); v != "" {
		cfg.APIBase = v
	}
	if opts.RefreshEvery > 0 {
		cfg.RefreshInterval = time.Duration(opts.RefreshEvery) * time.Second
	}
	return cfg, nil
}
