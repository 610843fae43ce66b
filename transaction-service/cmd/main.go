package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Jpjss/family-finance/shared/config"
	"github.com/Jpjss/family-finance/shared/events"
	"github.com/Jpjss/family-finance/shared/ledger"
	"github.com/Jpjss/family-finance/shared/logging"
	"github.com/Jpjss/family-finance/shared/middleware"
	sharedredis "github.com/Jpjss/family-finance/shared/redis"
	"github.com/Jpjss/family-finance/shared/server"
	txcmd "github.com/Jpjss/family-finance/transaction-service/internal/command"
	"github.com/Jpjss/family-finance/transaction-service/internal/handler"
	txqry "github.com/Jpjss/family-finance/transaction-service/internal/query"
	"github.com/Jpjss/family-finance/transaction-service/internal/repository"
)

const summaryProjectorGroup = "summary-projector"

func main() {
	cfg := config.Load("transaction-service")
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

	// Summary projection + event streaming
	redis := sharedredis.Connect(cfg.RedisAddr, cfg.RedisPassword, logger)
	defer redis.Close()

	codec, err := server.NewCodec(cfg)
	if err != nil {
		logger.Error("failed to build token codec", "error", err)
		os.Exit(1)
	}
	formatter, err := ledger.NewFormatter(cfg.Locale, cfg.Currency)
	if err != nil {
		logger.Error("invalid currency settings", "error", err)
		os.Exit(1)
	}

	// --- CQRS wiring ---
	publisher := events.NewPublisher(redis.Raw())

	writeRepo := repository.NewTransactionWriteRepository(db)
	readRepo := repository.NewTransactionReadRepository(db)
	summaryRepo := repository.NewSummaryRepository(redis.Raw(), cfg.CacheTTL)

	commandSvc := txcmd.NewTransactionCommandService(writeRepo, summaryRepo, publisher)
	querySvc := txqry.NewTransactionQueryService(readRepo, summaryRepo, formatter)

	transactionHandler := handler.NewTransactionHandler(commandSvc, querySvc)

	router := server.NewRouter(logger)
	transactions := router.Group("/transactions", middleware.AuthMiddleware(codec))
	{
		transactions.GET("", transactionHandler.ListTransactions)
		transactions.POST("", transactionHandler.CreateTransaction)
		transactions.GET("/summary", transactionHandler.Summary)
		transactions.PATCH("/:id", transactionHandler.UpdatePaymentStatus)
		transactions.DELETE("/:id", transactionHandler.DeleteTransaction)
	}

	var workers []server.Worker
	if client := redis.Raw(); client != nil {
		consumer, _ := os.Hostname()
		projector := events.NewSubscriber(client, events.SubscriberConfig{
			Group:    summaryProjectorGroup,
			Consumer: cfg.ServiceName + "-" + consumer,
			Stream:   events.TransactionEventsStream,
			Handler:  querySvc.HandleTransactionEvent,
			Logger:   logger,
		})
		workers = append(workers, projector.Start)
	}

	if err := server.Run(ctx, ":"+cfg.Port, router, cfg.ShutdownTimeout, logger, workers...); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
