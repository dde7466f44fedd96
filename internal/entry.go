package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/starford/muninn/internal/mcpserver"
	"github.com/starford/muninn/internal/storage"
)

// RunMCP serves the Muninn tools over MCP stdio until stdin closes or a
// shutdown signal arrives. Logs go to stderr as JSON; stdout belongs to
// the MCP transport.
func RunMCP(ctx context.Context, opts ...Option) error {
	app := &application{}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return fmt.Errorf("config is required")
	}
	cfg := app.config

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel.Level,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("vault_path", cfg.Vault.Path),
		slog.String("output_path", cfg.Output.Path),
		slog.String("log_level", cfg.App.LogLevel.String()))

	if err := os.MkdirAll(cfg.Vault.Path, 0o755); err != nil {
		return fmt.Errorf("create vault dir: %w", err)
	}
	if err := os.MkdirAll(cfg.Output.Path, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	store, err := storage.NewFS(cfg.Vault.Path)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}

	srv := mcpserver.New(store, mcpserver.Config{
		OutputDir:   cfg.Output.Path,
		TemplateDir: cfg.Templates.Path,
		Defaults: mcpserver.PackDefaults{
			Hops:       cfg.Pack.Hops,
			RecentDays: cfg.Pack.RecentDays,
			TopK:       cfg.Pack.TopK,
			MaxTokens:  cfg.Pack.MaxTokens,
		},
	}, logger)

	logger.Info("MCP server starting on stdio")

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.Listen(gCtx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("mcp server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
			return context.Canceled
		case <-gCtx.Done():
			return nil
		}
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}
