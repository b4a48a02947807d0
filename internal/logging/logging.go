// Package logging sets up Folio's slog logger. The TUI owns the terminal, so
// records go to a file that the diagnostics view tails.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// Options selects where and how records are written.
type Options struct {
	Path     string // log file, created with its directory when missing
	Level    string // debug, info, warn or error
	Format   string // text or json
	RootPath string // prefix stripped from source file paths
}

// Setup opens the log file and returns a logger writing to it. The returned
// closer releases the file.
func Setup(opts Options) (*slog.Logger, io.Closer, error) {
	if strings.TrimSpace(opts.Path) == "" {
		return nil, nil, fmt.Errorf("log path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	file, err := os.OpenFile(opts.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}

	logger, err := New(file, opts)
	if err != nil {
		_ = file.Close()
		return nil, nil, err
	}
	return logger, file, nil
}

// New returns a logger writing to w.
func New(w io.Writer, opts Options) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(opts.Level)); err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}
	ho := &slog.HandlerOptions{Level: lvl}

	var h slog.Handler
	switch strings.ToLower(opts.Format) {
	case "", "text":
		h = slog.NewTextHandler(w, ho)
	case "json":
		h = slog.NewJSONHandler(w, ho)
	default:
		return nil, fmt.Errorf("log format must be json or text, got %q", opts.Format)
	}

	root := strings.TrimSpace(opts.RootPath)
	if root != "" {
		root = strings.TrimSuffix(root, "/") + "/"
	}
	return slog.New(&handler{base: h, rootPath: root}), nil
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// handler adds the caller's source location with rootPath trimmed.
type handler struct {
	base     slog.Handler
	rootPath string
}

func (h *handler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.base.Enabled(ctx, level)
}

func (h *handler) Handle(ctx context.Context, record slog.Record) error {
	if record.PC != 0 {
		record = record.Clone()
		frames := runtime.CallersFrames([]uintptr{record.PC})
		f, _ := frames.Next()
		file := f.File
		if h.rootPath != "" && strings.HasPrefix(file, h.rootPath) {
			file = file[len(h.rootPath):]
		}
		record.AddAttrs(slog.Any(slog.SourceKey, &slog.Source{
			Function: f.Function,
			File:     file,
			Line:     f.Line,
		}))
	}
	return h.base.Handle(ctx, record)
}

func (h *handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &handler{base: h.base.WithAttrs(attrs), rootPath: h.rootPath}
}

func (h *handler) WithGroup(name string) slog.Handler {
	return &handler{base: h.base.WithGroup(name), rootPath: h.rootPath}
}
