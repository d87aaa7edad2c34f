// Package worker keeps the local exchange-rate store in sync with FRED.
package worker

import (
	"context"
	"fmt"
	"time"

	"donorboard/internal/fx"
	"donorboard/internal/log"
)

// SeriesFetcher downloads one raw rate series over a date window.
type SeriesFetcher interface {
	FetchSeries(ctx context.Context, series string, start, end time.Time) ([]fx.RatePoint, error)
}

// SeriesStore persists fetched observations.
type SeriesStore interface {
	UpsertSeries(ctx context.Context, series string, points []fx.RatePoint) error
}

// RefreshPublisher announces a completed refresh. Optional.
type RefreshPublisher interface {
	PublishRatesRefresh(ctx context.Context, series []string) error
}

// RatesWorker refreshes every configured currency's series and publishes a
// refresh event so running dashboards rebuild their snapshots.
type RatesWorker struct {
	fetcher   SeriesFetcher
	store     SeriesStore
	publisher RefreshPublisher
	logger    *log.Logger

	start, end time.Time
}

func NewRatesWorker(fetcher SeriesFetcher, store SeriesStore, publisher RefreshPublisher, start, end time.Time) *RatesWorker {
	return &RatesWorker{
		fetcher:   fetcher,
		store:     store,
		publisher: publisher,
		logger:    log.ForComponent(log.ComponentWorker),
		start:     start,
		end:       end,
	}
}

// RefreshOnce fetches and stores every configured series. A failing series
// aborts the refresh; partial updates of earlier series remain stored and
// are harmless since upserts are idempotent.
func (w *RatesWorker) RefreshOnce(ctx context.Context) error {
	refreshed := make([]string, 0, len(fx.Currencies))
	for _, spec := range fx.Currencies {
		points, err := w.fetcher.FetchSeries(ctx, spec.Series, w.start, w.end)
		if err != nil {
			return fmt.Errorf("refresh %s (%s): %w", spec.Code, spec.Series, err)
		}
		if err := w.store.UpsertSeries(ctx, spec.Series, points); err != nil {
			return fmt.Errorf("store %s (%s): %w", spec.Code, spec.Series, err)
		}
		w.logger.InfoContext(ctx, "Refreshed rate series",
			log.FieldCurrency, spec.Code,
			log.FieldSeries, spec.Series,
			"points", len(points))
		refreshed = append(refreshed, spec.Series)
	}

	if w.publisher != nil {
		if err := w.publisher.PublishRatesRefresh(ctx, refreshed); err != nil {
			// The data is already stored; consumers catch up on next refresh
			w.logger.ErrorContext(ctx, "Failed to publish refresh event", log.FieldError, err)
		}
	}
	return nil
}

// Run refreshes immediately and then on every tick until the context is
// done.
func (w *RatesWorker) Run(ctx context.Context, interval time.Duration) error {
	if err := w.RefreshOnce(ctx); err != nil {
		w.logger.ErrorContext(ctx, "Initial rate refresh failed", log.FieldError, err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.RefreshOnce(ctx); err != nil {
				w.logger.ErrorContext(ctx, "Rate refresh failed", log.FieldError, err)
			}
		}
	}
}
