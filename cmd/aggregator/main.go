package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"statistics-aggregator/internal/config"
	"statistics-aggregator/internal/logging"
	_ "statistics-aggregator/internal/pkg/dotenv/autoload"
	"statistics-aggregator/internal/pkg/version"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	logger.SetDefault()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting statistics aggregator",
		"version", version.Version,
		"commit", version.Commit,
		"http_port", cfg.HTTPPort,
		"grpc_port", cfg.GRPCPort,
		"db_driver", cfg.Database.Driver,
		"generator", cfg.Generator.Enabled,
		"kafka", len(cfg.Kafka.Brokers) > 0,
		"redis", cfg.Redis.Addr != "",
	)

	app, cleanup, err := initApplication(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialise application", logging.AttachError(err)...)
		os.Exit(1)
	}

	runErr := app.run(ctx)
	cleanup()
	if runErr != nil {
		logger.Error("application stopped with error", logging.AttachError(runErr)...)
		os.Exit(1)
	}
	logger.Info("application stopped")
}
