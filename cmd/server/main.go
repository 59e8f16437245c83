package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gyaneshwarpardhi/navigation/internal/api"
	"github.com/gyaneshwarpardhi/navigation/internal/config"
	"github.com/gyaneshwarpardhi/navigation/internal/engine"
)

func main() {
	addr := flag.String("addr", ":8080", "HTTP listen address")
	cfgPath := flag.String("config", "configs/navigation.yaml", "Path to navigation YAML config")
	flag.Parse()

	level := new(slog.LevelVar)
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	// ── Load config ──────────────────────────────────────────────────────────
	loader, err := config.NewLoader(*cfgPath)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	cfg := loader.Config()
	if err := config.Validate(cfg); err != nil {
		slog.Error("config validation failed", "err", err)
		os.Exit(1)
	}
	lvl, _ := config.ParseLevel(cfg.LogLevel)
	level.Set(lvl)

	// ── Build initial map ────────────────────────────────────────────────────
	snap, err := engine.Load(cfg, logger)
	if err != nil {
		slog.Error("failed to load map", "err", err)
		os.Exit(1)
	}
	stats := snap.Nav.Stats()
	slog.Info("map loaded", "path", snap.Path, "nodes", stats.DistanceNodes, "edges", stats.DistanceEdges, "waiting", stats.WaitingNodes)

	// ── Engine ───────────────────────────────────────────────────────────────
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	eng := engine.New(ctx, snap, cfg.Engine)

	// ── Hot-reload watcher ───────────────────────────────────────────────────
	// Engine settings apply at startup only; a reload swaps the map and the
	// log level.
	loader.OnChange(func(newCfg *config.NavConfig) error {
		if err := eng.Reload(newCfg, logger); err != nil {
			slog.Warn("hot-reload skipped", "err", err)
			return err
		}
		if lvl, err := config.ParseLevel(newCfg.LogLevel); err == nil {
			level.Set(lvl)
		}
		return nil
	})
	stopWatch, err := loader.Watch()
	if err != nil {
		slog.Warn("config watcher unavailable (hot-reload disabled)", "err", err)
	} else {
		defer stopWatch()
	}

	// ── HTTP server ──────────────────────────────────────────────────────────
	handler := api.New(eng, loader)
	srv := &http.Server{
		Addr:         *addr,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", *addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "err", err)
			os.Exit(1)
		}
	}()

	// ── Graceful shutdown ────────────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down…")

	shutCtx, shutCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutCancel()
	_ = srv.Shutdown(shutCtx)
	cancel()
	eng.Shutdown()
	slog.Info("goodbye")
}
