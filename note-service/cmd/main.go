package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	notecmd "github.com/Jpjss/family-finance/note-service/internal/command"
	"github.com/Jpjss/family-finance/note-service/internal/handler"
	noteqry "github.com/Jpjss/family-finance/note-service/internal/query"
	"github.com/Jpjss/family-finance/note-service/internal/repository"
	"github.com/Jpjss/family-finance/shared/config"
	"github.com/Jpjss/family-finance/shared/events"
	"github.com/Jpjss/family-finance/shared/logging"
	"github.com/Jpjss/family-finance/shared/middleware"
	sharedredis "github.com/Jpjss/family-finance/shared/redis"
	"github.com/Jpjss/family-finance/shared/server"
)

func main() {
	cfg := config.Load("note-service")
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

	writeRepo := repository.NewNoteWriteRepository(db)
	readRepo := repository.NewNoteReadRepository(db, redis.Raw(), cfg.CacheTTL)

	commandSvc := notecmd.NewNoteCommandService(writeRepo, readRepo, publisher)
	querySvc := noteqry.NewNoteQueryService(readRepo)

	noteHandler := handler.NewNoteHandler(commandSvc, querySvc)

	router := server.NewRouter(logger)
	notes := router.Group("/monthly-notes", middleware.AuthMiddleware(codec))
	{
		notes.GET("", noteHandler.GetNote)
		notes.POST("", noteHandler.SaveNote)
		notes.DELETE("", noteHandler.ClearNote)
		notes.GET("/months", noteHandler.ListMonths)
	}

	if err := server.Run(ctx, ":"+cfg.Port, router, cfg.ShutdownTimeout, logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
