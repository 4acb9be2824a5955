package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"pet-supply-store/internal/adapters/storage/postgres"
	"pet-supply-store/internal/config"
	"pet-supply-store/internal/platform/logger"
	"pet-supply-store/internal/router"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()
	cfg.Print()

	appLog := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.LogLevel),
		Format: logger.ParseFormat(cfg.LogFormat),
		App:    "pet-supply-store",
	})

	opts := router.Options{
		Logger:      appLog,
		CatalogDir:  cfg.CatalogDir,
		CatalogURL:  cfg.CatalogURL,
		UsersAPIURL: cfg.UsersAPIURL,
	}

	if cfg.DBDSN != "" {
		db, err := postgres.Open(cfg.DBDSN)
		if err != nil {
			log.Fatalf("postgres: %v", err)
		}
		defer db.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := postgres.EnsureSchema(ctx, db); err != nil {
			cancel()
			log.Fatalf("postgres schema: %v", err)
		}
		cancel()
		opts.DB = db
	}

	handler, sessions, err := router.New(opts)
	if err != nil {
		log.Fatalf("router: %v", err)
	}
	defer sessions.Close()

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	sigCtx, stop := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		appLog.Info("starting server", map[string]any{"addr": cfg.Addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-sigCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLog.Error("shutdown", map[string]any{"err": err.Error()})
	}
	appLog.Info("server stopped", nil)
}
