package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"backbeat/internal/api"
	"backbeat/internal/balance"
	"backbeat/internal/catalog"
	"backbeat/internal/config"
	"backbeat/internal/sim"
	"backbeat/internal/store"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadAPIFromEnv()
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	bal, err := balance.Load(cfg.BalancePath)
	if err != nil {
		logger.Error("load balance tables", "path", cfg.BalancePath, "err", err)
		os.Exit(1)
	}
	competitors, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		logger.Error("load competitor catalog", "path", cfg.CatalogPath, "err", err)
		os.Exit(1)
	}

	pool, err := store.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	engine, err := sim.New(bal, competitors, logger)
	if err != nil {
		logger.Error("engine init failed", "err", err)
		os.Exit(1)
	}

	server := api.New(cfg, logger, engine, store.New(pool, logger))
	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	logger.Info("backbeat api listening", "addr", cfg.Addr, "competitors", len(competitors))
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server failed", "err", err)
		os.Exit(1)
	}
}
