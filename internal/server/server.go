// Package server boots the application's dependencies and serves HTTP until
// the process is asked to stop.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/eburutu/mart/app/services"
	"github.com/eburutu/mart/config"
	"github.com/eburutu/mart/internal/kernel"
	"github.com/eburutu/mart/pkg/cache"
	"github.com/eburutu/mart/pkg/database"
	"github.com/eburutu/mart/pkg/event"
	"github.com/eburutu/mart/pkg/logger"
	"github.com/eburutu/mart/pkg/notification"
	"github.com/eburutu/mart/pkg/storage"
	"github.com/eburutu/mart/pkg/workerpool"
)

// App holds everything Boot opened so Close can release it.
type App struct {
	Kernel *kernel.HTTPKernel
	pool   *workerpool.Pool
}

// Boot loads config and connects the database, Redis (optional) and the
// storage disk, then builds the HTTP kernel.
func Boot(ctx context.Context) (*App, error) {
	if err := config.Load(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := database.Connect(); err != nil {
		return nil, err
	}
	if err := cache.Connect(ctx); err != nil {
		logger.Warn("redis unavailable, running without cache or session revocation", "error", err)
	}

	disk, err := storage.Open(ctx, config.StorageDisk())
	if err != nil {
		closeConnections()
		return nil, err
	}

	pool := workerpool.New("notifications", config.NotifyWorkers())
	svc := services.New(database.DB, services.Options{
		Media:       services.NewMediaStore(disk, config.ImageUpload()),
		Notifier:    services.NewNotifier(notification.NewSender(pool, config.NotifyWebhookURL())),
		Events:      event.NewBus(),
		CategoryTTL: config.CategoryCacheTTL(),
	})

	k := kernel.NewHTTPKernel(kernel.Options{
		DB:          database.DB,
		Services:    svc,
		Disk:        disk,
		CORSOrigins: config.CORSOrigins(),
		RateLimit:   config.RateLimit(),
	})
	return &App{Kernel: k, pool: pool}, nil
}

// Close drains pending notifications and closes connections.
func (a *App) Close(ctx context.Context) {
	if err := a.pool.Shutdown(ctx); err != nil {
		logger.Warn("notification pool did not drain", "error", err)
	}
	closeConnections()
}

func closeConnections() {
	if err := cache.Close(); err != nil {
		logger.Warn("redis close failed", "error", err)
	}
	if err := database.Close(); err != nil {
		logger.Warn("database close failed", "error", err)
	}
}

// Start serves on APP_PORT until SIGINT/SIGTERM, then shuts down gracefully
// within SHUTDOWN_TIMEOUT.
func Start() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := Boot(ctx)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           app.Kernel.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("mart listening", "addr", srv.Addr, "env", config.AppEnv())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout())
	defer cancel()

	err = srv.Shutdown(shutdownCtx)
	app.Close(shutdownCtx)
	return err
}
