package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"donorboard/internal/amqp"
	"donorboard/internal/config"
	"donorboard/internal/dataset"
	"donorboard/internal/log"
	"donorboard/internal/metrics"
	"donorboard/internal/ratestore"
	"donorboard/internal/report"
	"donorboard/internal/source"
	"donorboard/internal/source/csvfile"
	gsheet "donorboard/internal/source/google"
	"donorboard/internal/worker"
)

// errRowsExcluded distinguishes a report computed over partial data, so the
// process can exit nonzero after the report was already printed.
var errRowsExcluded = errors.New("rows excluded from USD aggregates")

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	// The report goes to stdout, logs to stderr
	logger := log.New(log.Config{
		Component: log.ComponentApp,
		Handler:   slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}),
	})
	log.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, logger); err != nil {
		if errors.Is(err, errRowsExcluded) {
			os.Exit(2)
		}
		logger.Error("donorboard failed", log.FieldError, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *log.Logger) error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}

	csvSource := csvfile.New(cfg.DataDir)

	var (
		payments source.PaymentSource = csvSource
		pledges  source.PledgeSource  = csvSource
	)
	if cfg.DataBackend == "sheets" {
		cli, err := gsheet.NewFromEnv(ctx)
		if err != nil {
			return fmt.Errorf("initialize Google Sheets backend: %w", err)
		}
		payments, pledges = cli, cli
		logger.Info("Initialized Google Sheets backend")
	}

	var rates source.RateSource = csvSource
	if cfg.RatesBackend == "sqlite" {
		store, err := ratestore.Open(cfg.RatesDBPath)
		if err != nil {
			return fmt.Errorf("open rate store %s: %w", cfg.RatesDBPath, err)
		}
		defer store.Close()
		rates = store
		logger.Info("Using sqlite rate store", "path", cfg.RatesDBPath)
	}

	start, end := cfg.RateWindow()
	loader := dataset.NewLoader(payments, pledges, rates, start, end)

	snap, err := loader.Load(ctx)
	if err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}

	if err := printReport(cfg, snap); err != nil {
		return err
	}

	if os.Getenv("WATCH") == "true" {
		if err := watch(ctx, cfg, loader, logger); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
	}

	if n := len(snap.PaymentFailures) + len(snap.PledgeFailures); n > 0 {
		logger.Warn("Rows excluded from USD aggregates due to missing rates",
			"payment_rows", len(snap.PaymentFailures),
			"pledge_rows", len(snap.PledgeFailures))
		return errRowsExcluded
	}
	return nil
}

// watch blocks consuming rates-refresh events; each one rebuilds the
// snapshot and prints a fresh report.
func watch(ctx context.Context, cfg *config.Config, loader *dataset.Loader, logger *log.Logger) error {
	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		return fmt.Errorf("connect AMQP for watch mode: %w", err)
	}
	defer client.Close()

	logger.Info("Watching for rates refresh events", "queue", cfg.AMQPQueue)
	listener := worker.NewRefreshListener(client, func(ctx context.Context) error {
		snap, err := loader.Load(ctx)
		if err != nil {
			return err
		}
		return printReport(cfg, snap)
	})
	return listener.Listen(ctx)
}

// printReport resolves the reporting scope and writes the context block to
// stdout.
func printReport(cfg *config.Config, snap *dataset.Snapshot) error {
	scope := metrics.All()
	switch {
	case cfg.FiscalYear != "":
		var err error
		scope, err = metrics.ForLabel(cfg.FiscalYear)
		if err != nil {
			return err
		}
	default:
		if fy, ok := snap.LatestFiscalYear(); ok {
			scope = metrics.ForFiscalYear(fy)
		}
	}
	fmt.Print(report.BuildContext(snap.Payments, snap.Pledges, scope))
	return nil
}
