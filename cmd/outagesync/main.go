package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/outagesync/outagesync/internal/api"
	"github.com/outagesync/outagesync/internal/client"
	"github.com/outagesync/outagesync/internal/config"
	"github.com/outagesync/outagesync/internal/metrics"
	"github.com/outagesync/outagesync/internal/notify"
	"github.com/outagesync/outagesync/internal/sync"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	once := flag.Bool("once", false, "run a single sync and exit, even when sync.interval is set")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	// Load .env if present so key_env / url_env variables resolve in dev.
	if err := godotenv.Load(); err == nil {
		slog.Info("loaded .env file")
	}

	slog.Info("outagesync starting", "config", *configPath)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	slog.Info("config loaded",
		"base_url", cfg.API.BaseURL,
		"site", cfg.Sync.SiteID,
		"interval", cfg.Sync.Interval,
		"max_retries", cfg.API.MaxRetries,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	c := client.New(cfg.API)
	reg := metrics.New()
	st := sync.NewStatus()
	runner := sync.NewRunner(c, cfg.Sync.SiteID, reg, notify.New(cfg.Notify), st)

	if *once || cfg.Sync.Interval <= 0 {
		if err := runner.Run(ctx); err != nil {
			slog.Error("sync failed", "err", err)
			os.Exit(1)
		}
		return
	}

	// Interval mode: diagnostics listener, config hot-reload, ticker loop.
	var adminSrv *http.Server
	if cfg.Admin.Listen != "" {
		adminSrv = &http.Server{
			Addr:    cfg.Admin.Listen,
			Handler: api.New(st, reg),
		}
		go func() {
			slog.Info("admin listener started", "addr", cfg.Admin.Listen)
			if err := adminSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				slog.Error("admin listener stopped", "err", err)
			}
		}()
	}

	// Watch config file for hot-reload (logs only; restart to apply
	// endpoint or interval changes).
	go func() {
		if err := config.Watch(ctx, *configPath, func(updated *config.Config) {
			slog.Info("config hot-reloaded", "site", updated.Sync.SiteID)
		}); err != nil {
			slog.Error("config watcher stopped", "err", err)
		}
	}()

	runner.RunLoop(ctx, cfg.Sync.Interval)

	slog.Info("outagesync shutting down")
	if adminSrv != nil {
		adminSrv.Shutdown(context.Background()) //nolint:errcheck
	}
}
