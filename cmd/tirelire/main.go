package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"tirelire/internal/backend"
	"tirelire/internal/config"
	apphttp "tirelire/internal/http"
	applog "tirelire/internal/log"
	"tirelire/internal/services"
	"tirelire/internal/store"
)

func main() {
	// .env is optional; real environments set variables directly.
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", applog.FieldError, err.Error())
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	factory := backend.NewFactory(logger.Logger)
	result, err := factory.CreateStore(ctx, backend.Config{
		Type:         backend.Type(cfg.DataBackend),
		DataDir:      cfg.DataDir,
		SQLiteDBPath: cfg.SQLiteDBPath,
	})
	if err != nil {
		logger.Error("Failed to initialize storage backend",
			applog.FieldBackend, cfg.DataBackend,
			applog.FieldError, err.Error())
		os.Exit(1)
	}
	if result.Cleanup != nil {
		defer func() {
			if err := result.Cleanup(); err != nil {
				logger.Error("Storage cleanup failed", applog.FieldError, err.Error())
			}
		}()
	}

	st := store.New(result.Store, store.Options{
		SessionTTL:  cfg.SessionTTL,
		RememberTTL: cfg.RememberTTL,
		Logger:      logger.WithComponent(applog.ComponentStore),
	})
	reports := services.NewReportService(logger.WithComponent(applog.ComponentReports))

	srv := apphttp.NewServer(st, reports, apphttp.Options{
		Addr:               ":" + cfg.Port,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		DashboardCacheTTL:  cfg.DashboardCacheTTL,
		Logger:             logger.WithComponent(applog.ComponentHTTP),
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("HTTP server listening",
			"addr", srv.Addr,
			applog.FieldBackend, cfg.DataBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server exited with error", applog.FieldError, err.Error())
		os.Exit(1)
	}
	logger.Info("Server stopped")
}
