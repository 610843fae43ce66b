package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Jpjss/family-finance/auth-service/internal/handler"
	authqry "github.com/Jpjss/family-finance/auth-service/internal/query"
	"github.com/Jpjss/family-finance/auth-service/internal/repository"
	"github.com/Jpjss/family-finance/shared/config"
	"github.com/Jpjss/family-finance/shared/logging"
	"github.com/Jpjss/family-finance/shared/server"
)

func main() {
	cfg := config.Load("auth-service")
	logger := logging.New(cfg.ServiceName, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := server.OpenDatabase(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	codec, err := server.NewCodec(cfg)
	if err != nil {
		logger.Error("failed to build token codec", "error", err)
		os.Exit(1)
	}

	userRepo := repository.NewUserRepository(db)
	querySvc, err := authqry.NewAuthQueryService(userRepo, codec, cfg.BcryptCost)
	if err != nil {
		logger.Error("failed to build auth service", "error", err)
		os.Exit(1)
	}
	authHandler := handler.NewAuthHandler(querySvc)

	router := server.NewRouter(logger)
	auth := router.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.RefreshToken)
	}

	if err := server.Run(ctx, ":"+cfg.Port, router, cfg.ShutdownTimeout, logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
