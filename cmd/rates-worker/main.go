package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"donorboard/internal/amqp"
	"donorboard/internal/config"
	"donorboard/internal/fred"
	"donorboard/internal/log"
	"donorboard/internal/ratestore"
	"donorboard/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := log.New(log.Config{
		Component: log.ComponentApp,
		Handler:   slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
	})
	log.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, logger); err != nil {
		logger.Error("rates-worker failed", log.FieldError, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *log.Logger) error {
	logger.Info("Starting rates-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}

	store, err := ratestore.Open(cfg.RatesDBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	// AMQP is optional: without a broker the worker still refreshes the
	// store, consumers just won't be notified.
	var publisher worker.RefreshPublisher
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("AMQP unavailable, refresh events disabled", log.FieldError, err)
		} else {
			defer amqpClient.Close()
			publisher = amqpClient
			logger.Info("AMQP refresh events enabled", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	}

	start, end := cfg.RateWindow()
	w := worker.NewRatesWorker(fred.NewClient(cfg.FREDBaseURL), store, publisher, start, end)

	if os.Getenv("RUN_ONCE") == "true" {
		if err := w.RefreshOnce(ctx); err != nil {
			return err
		}
		logger.Info("Rate refresh completed")
		return nil
	}

	logger.Info("Refreshing rates on interval", "interval", cfg.RefreshInterval.String())
	if err := w.Run(ctx, cfg.RefreshInterval); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Info("Worker stopped gracefully")
	return nil
}
