package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cnpycalc/internal/app/webserver"
	"cnpycalc/internal/infra/config"
	"cnpycalc/internal/infra/logging"
)

func main() {
	configPath := flag.String("config", "config.yaml", "путь к YAML-конфигу")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("config load failed", slog.Any("error", err))
		os.Exit(1)
	}

	slog.SetDefault(logging.New(cfg.Logging.Level))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv, stop, err := webserver.New(ctx, cfg)
	if err != nil {
		slog.Error("webserver init failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer stop()

	go func() {
		if err := srv.Start(); err != nil {
			slog.Info("http server stopped", slog.Any("error", err))
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	slog.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", slog.Any("error", err))
	} else {
		slog.Info("server stopped gracefully")
	}
}
