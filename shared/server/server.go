// Package server holds the process plumbing every service shares: router
// setup, store bootstrap and signal-driven graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/Jpjss/family-finance/shared/config"
	"github.com/Jpjss/family-finance/shared/database"
	"github.com/Jpjss/family-finance/shared/middleware"
	"github.com/Jpjss/family-finance/shared/token"
)

// NewRouter returns a gin engine with recovery, request logging and /health.
func NewRouter(logger *slog.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.LoggingMiddleware(logger))
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return router
}

// OpenDatabase connects to the configured store, applying migrations first
// when enabled.
func OpenDatabase(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*database.DB, error) {
	if cfg.MigrateOnStart {
		if err := database.RunMigrations(cfg.DBDriver, cfg.DatabaseURL); err != nil {
			return nil, err
		}
		logger.Info("migrations applied", "driver", cfg.DBDriver)
	}
	return database.Open(ctx, cfg.DBDriver, cfg.DatabaseURL)
}

func NewCodec(cfg *config.Config) (token.Codec, error) {
	return token.New(cfg.TokenScheme, []byte(cfg.TokenSecret), token.WithTTL(cfg.TokenTTL))
}

// Worker is a background loop that returns when ctx is cancelled.
type Worker func(ctx context.Context) error

// Run serves handler on addr next to workers until ctx is cancelled, then
// drains in-flight requests within shutdownTimeout.
func Run(ctx context.Context, addr string, handler http.Handler, shutdownTimeout time.Duration, logger *slog.Logger, workers ...Worker) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("http server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	for _, w := range workers {
		g.Go(func() error { return w(gctx) })
	}

	return g.Wait()
}
