// Command blockserver runs one ship process: it loads ship.yaml, connects
// to Postgres, dials the shipgate, and serves every configured block's
// five dialect ports until terminated.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/psoserv/blockserver/internal/config"
	"github.com/psoserv/blockserver/internal/ship"
)

const shipConfigPath = "config/ship.yaml"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	path := shipConfigPath
	if p := os.Getenv("LA2GO_SHIP_CONFIG"); p != "" {
		path = p
	}
	cfg, err := config.LoadShipConfig(path)
	if err != nil {
		return fmt.Errorf("loading ship config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	})))

	slog.Info("blockserver starting", "ship", cfg.ShipName, "blocks", len(cfg.Blocks))

	sh, err := ship.Bootstrap(ctx, cfg)
	if err != nil {
		return fmt.Errorf("bootstrapping ship: %w", err)
	}

	return sh.Run(ctx)
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
