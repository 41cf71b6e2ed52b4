// Package internal wires configuration, logging, storage and the note
// service together for a single CLI invocation.
package internal

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/starford/kasten/internal/editor"
	"github.com/starford/kasten/internal/noteservice"
	"github.com/starford/kasten/internal/picker"
	"github.com/starford/kasten/internal/storage"
)

// Action is one CLI command executed against the note service.
type Action func(ctx context.Context, svc *noteservice.Service) error

// Run builds the application from opts and executes action.
func Run(ctx context.Context, action Action, opts ...Option) error {
	app := &application{logOut: os.Stderr}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	logger := newLogger(app.logOut, cfg.App)
	slog.SetDefault(logger)

	dir, err := cfg.Kasten.Dir()
	if err != nil {
		return fmt.Errorf("resolve kasten path: %w", err)
	}

	store, err := storage.NewFS(dir)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}

	ed := app.editor
	if ed == nil {
		ed = editor.NewCommand(cfg.Editor.Command)
	}
	pk := app.picker
	if pk == nil {
		pk = picker.NewTUI()
	}

	logger.Debug("Configuration loaded",
		slog.String("kasten_path", store.Root()),
		slog.String("editor", fmt.Sprint(ed)),
		slog.String("log_level", cfg.App.LogLevel.String()))

	return action(ctx, noteservice.NewService(store, ed, pk, logger))
}

func newLogger(w io.Writer, cfg ApplicationConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	if cfg.LogFormat == LogFormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
