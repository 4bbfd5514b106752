// Package server boots every backend and runs the HTTP API until the process
// is asked to stop.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/shashiranjanraj/devburger/app/repositories"
	"github.com/shashiranjanraj/devburger/config"
	"github.com/shashiranjanraj/devburger/internal/kernel"
	"github.com/shashiranjanraj/devburger/pkg/auth"
	"github.com/shashiranjanraj/devburger/pkg/cache"
	"github.com/shashiranjanraj/devburger/pkg/database"
	"github.com/shashiranjanraj/devburger/pkg/docstore"
	"github.com/shashiranjanraj/devburger/pkg/events"
	"github.com/shashiranjanraj/devburger/pkg/logger"
	"github.com/shashiranjanraj/devburger/pkg/payment"
	"github.com/shashiranjanraj/devburger/pkg/storage"
	"github.com/shashiranjanraj/devburger/pkg/tracking"
)

const shutdownTimeout = 15 * time.Second

// Start connects the backends, serves on APP_PORT and blocks until SIGINT or
// SIGTERM, then drains in-flight requests.
func Start() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := config.Load(); err != nil {
		return err
	}

	if err := tracking.Init(config.SentryDSN(), config.AppEnv(), config.Get("APP_VERSION", "dev")); err != nil {
		logger.Warn("sentry disabled", "error", err)
	}
	defer tracking.Flush(2 * time.Second)

	deps, cleanup, err := boot(ctx)
	defer cleanup()
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           kernel.NewHTTPKernel(deps),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
		ErrorLog:          slog.NewLogLogger(logger.L.Handler(), slog.LevelError),
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("devburger listening", "addr", srv.Addr, "env", config.AppEnv())
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down", "timeout", shutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}

// boot opens every backend. Required ones (SQL, Mongo, storage) fail the
// start; optional ones (Redis, NATS, Stripe) degrade with a warning. The
// returned cleanup is always safe to call.
func boot(ctx context.Context) (kernel.Dependencies, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	deps := kernel.Dependencies{
		CacheTTL: config.CacheTTL(),
		Currency: config.StripeCurrency(),
		Tokens:   auth.NewTokenService(config.JWTSecret(), config.JWTExpiresIn()),
		BaseURL:  config.AppURL(),
	}

	if err := database.Connect(); err != nil {
		return deps, cleanup, err
	}
	closers = append(closers, func() { _ = database.Close() })
	deps.DB = database.DB

	if err := docstore.Connect(ctx); err != nil {
		return deps, cleanup, err
	}
	closers = append(closers, func() { _ = docstore.Disconnect(context.Background()) })
	deps.Orders = repositories.NewOrderRepository(docstore.Collection(docstore.ColOrders))

	if config.Bool("LOG_TO_MONGO", false) {
		h := logger.NewMongoHandler(ctx, docstore.Collection(docstore.ColLogs), slog.LevelInfo)
		logger.Use(h)
		closers = append(closers, h.Close)
	}

	if err := storage.Connect(ctx); err != nil {
		return deps, cleanup, err
	}
	deps.Disk = storage.Default()

	if err := cache.Connect(ctx); err != nil {
		logger.Warn("catalog cache disabled", "error", err)
	} else {
		closers = append(closers, func() { _ = cache.Close() })
		deps.Cache = cache.Store{}
	}

	if key := config.StripeSecretKey(); key != "" {
		deps.Payments = payment.NewStripe(key)
	} else {
		logger.Warn("STRIPE_SECRET_KEY not set, payment intents are created offline")
		deps.Payments = payment.Offline{}
	}

	deps.Events = events.Nop{}
	if url := config.NatsURL(); url != "" {
		nc, err := events.Connect(url)
		if err != nil {
			logger.Warn("order events disabled", "error", err)
		} else {
			closers = append(closers, nc.Close)
			deps.Events = nc
		}
	}

	return deps, cleanup, nil
}
