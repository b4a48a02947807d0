package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/five82/folio/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "override config path (optional, defaults to ~/.config/folio/config.toml)")
	apiBase := flag.String("api", "", "catalog API base URL (optional)")
	refreshSeconds := flag.Int("refresh", 0, "reload the catalog every N seconds (optional, 0 keeps the configured interval)")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	_, thisFile, _, _ := runtime.Caller(0)

	opts := app.Options{
		ConfigPath: *configPath,
		APIBase:    *apiBase,
		SourceRoot: filepath.Dir(filepath.Dir(filepath.Dir(thisFile))),
	}
	if refresh := *refreshSeconds; refresh > 0 {
		opts.RefreshEvery = refresh
	}

	if err := app.Run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "folio: %v\n", err)
		return 1
	}
	return 0
}
