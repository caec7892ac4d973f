package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"kontak/internal/config"
	"kontak/internal/logger"
	"kontak/internal/partners"
	"kontak/internal/server"
	"kontak/internal/store"
	"kontak/internal/telemetry"
)

func main() {
	cfg, err := config.New()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger.Init(cfg.DevMode(), cfg.LogFile())

	ctx := context.Background()

	shutdownTracing, err := telemetry.Init(ctx, "kontak", cfg.OTLPEndpoint())
	if err != nil {
		logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
	}

	contacts, err := store.Open(cfg.DSN())
	if err != nil {
		logger.Log.Fatal("Failed to open contact store", zap.Error(err))
	}
	if err := contacts.EnsureSchema(ctx); err != nil {
		logger.Log.Fatal("Failed to ensure contact schema", zap.Error(err))
	}

	roster, err := partners.Load(cfg.PartnersFile())
	if err != nil {
		logger.Log.Fatal("Failed to load partner roster", zap.Error(err))
	}

	srv := server.New(server.Options{
		Addr:          net.JoinHostPort(cfg.Host(), cfg.Port()),
		SessionSecret: cfg.SessionSecret(),
		DevMode:       cfg.DevMode(),
		TemplateGlob:  "templates/*.html",
		StaticDir:     "public",
		Store:         contacts,
		Roster:        roster,
		Metrics:       true,
		Tracing:       cfg.OTLPEndpoint() != "",
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			logger.Log.Fatal("Server failed", zap.Error(err))
		}
	case sig := <-quit:
		logger.Log.Info("Shutting down", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := srv.Stop(shutdownCtx); err != nil {
		logger.Log.Error("Failed to stop HTTP server", zap.Error(err))
	}
	if err := contacts.Close(); err != nil {
		logger.Log.Error("Failed to close contact store", zap.Error(err))
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Log.Error("Failed to shut down tracing", zap.Error(err))
	}
}
