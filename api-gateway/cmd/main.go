package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Jpjss/family-finance/api-gateway/internal/proxy"
	"github.com/Jpjss/family-finance/shared/config"
	"github.com/Jpjss/family-finance/shared/logging"
	"github.com/Jpjss/family-finance/shared/server"
)

func main() {
	cfg := config.Load("api-gateway")
	upstreams := config.LoadGateway()
	logger := logging.New(cfg.ServiceName, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	codec, err := server.NewCodec(cfg)
	if err != nil {
		logger.Error("failed to build token codec", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	router := server.NewRouter(logger)
	proxy.Register(router, codec, upstreams)

	logger.Info("routing",
		"auth", upstreams.AuthURL,
		"user", upstreams.UserURL,
		"transaction", upstreams.TransactionURL,
		"note", upstreams.NoteURL,
	)
	if err := server.Run(ctx, ":"+cfg.Port, router, cfg.ShutdownTimeout, logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
