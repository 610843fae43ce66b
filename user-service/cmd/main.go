package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Jpjss/family-finance/shared/config"
	"github.com/Jpjss/family-finance/shared/events"
	"github.com/Jpjss/family-finance/shared/logging"
	"github.com/Jpjss/family-finance/shared/middleware"
	sharedredis "github.com/Jpjss/family-finance/shared/redis"
	"github.com/Jpjss/family-finance/shared/server"
	usercmd "github.com/Jpjss/family-finance/user-service/internal/command"
	"github.com/Jpjss/family-finance/user-service/internal/handler"
	userqry "github.com/Jpjss/family-finance/user-service/internal/query"
	"github.com/Jpjss/family-finance/user-service/internal/repository"
)

func main() {
	cfg := config.Load("user-service")
	logger := logging.New(cfg.ServiceName, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Write store
	db, err := server.OpenDatabase(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Read model store + event streaming
	redis := sharedredis.Connect(cfg.RedisAddr, cfg.RedisPassword, logger)
	defer redis.Close()

	codec, err := server.NewCodec(cfg)
	if err != nil {
		logger.Error("failed to build token codec", "error", err)
		os.Exit(1)
	}

	// --- CQRS wiring ---
	publisher := events.NewPublisher(redis.Raw())

	writeRepo := repository.NewUserWriteRepository(db)
	readRepo := repository.NewUserReadRepository(db, redis.Raw(), cfg.CacheTTL)

	commandSvc := usercmd.NewUserCommandService(writeRepo, readRepo, publisher, cfg.BcryptCost)
	querySvc := userqry.NewUserQueryService(readRepo)

	userHandler := handler.NewUserHandler(commandSvc, querySvc)

	router := server.NewRouter(logger)
	auth := router.Group("/auth")
	{
		auth.POST("/register", userHandler.Register)
		auth.GET("/me", middleware.AuthMiddleware(codec), userHandler.Me)
	}

	if err := server.Run(ctx, ":"+cfg.Port, router, cfg.ShutdownTimeout, logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
