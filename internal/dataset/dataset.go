// Package dataset assembles one immutable snapshot of the loaded and
// normalized tables. A snapshot is built once, shared read-only by every
// computation, and replaced wholesale on reload; nothing mutates a snapshot
// in use.
package dataset

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"donorboard/internal/core"
	"donorboard/internal/fx"
	"donorboard/internal/log"
	"donorboard/internal/metrics"
	"donorboard/internal/normalize"
	"donorboard/internal/source"
)

// Snapshot holds the normalized tables, the gap-filled rate table, the
// per-row normalization failures, and the fiscal years present in the data.
type Snapshot struct {
	Payments []core.Payment
	Pledges  []core.Pledge
	Rates    *fx.Table

	PaymentFailures []normalize.RowError
	PledgeFailures  []normalize.RowError

	FiscalYears []core.FiscalYear
	LoadedAt    time.Time
}

// LatestFiscalYear returns the most recent fiscal year in the payment data.
func (s *Snapshot) LatestFiscalYear() (core.FiscalYear, bool) {
	if len(s.FiscalYears) == 0 {
		return core.FiscalYear{}, false
	}
	return s.FiscalYears[len(s.FiscalYears)-1], true
}

// Loader builds snapshots from the configured sources.
type Loader struct {
	payments source.PaymentSource
	pledges  source.PledgeSource
	rates    source.RateSource

	rateStart, rateEnd time.Time
	logger             *log.Logger

	mu      sync.RWMutex
	current *Snapshot
}

func NewLoader(payments source.PaymentSource, pledges source.PledgeSource, rates source.RateSource, rateStart, rateEnd time.Time) *Loader {
	return &Loader{
		payments:  payments,
		pledges:   pledges,
		rates:     rates,
		rateStart: rateStart,
		rateEnd:   rateEnd,
		logger:    log.ForComponent(log.ComponentDataset),
	}
}

// Load fetches all tables concurrently, builds the rate table, and
// normalizes both transaction tables. The returned snapshot also becomes
// the loader's current one.
func (l *Loader) Load(ctx context.Context) (*Snapshot, error) {
	var (
		payments []core.Payment
		pledges  []core.Pledge
		series   = make(map[string][]fx.RatePoint, len(fx.Currencies))
		seriesMu sync.Mutex
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		payments, err = l.payments.LoadPayments(gctx)
		if err != nil {
			return fmt.Errorf("load payments: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		pledges, err = l.pledges.LoadPledges(gctx)
		if err != nil {
			return fmt.Errorf("load pledges: %w", err)
		}
		return nil
	})
	for _, spec := range fx.Currencies {
		spec := spec
		g.Go(func() error {
			points, err := l.rates.LoadRateSeries(gctx, spec.Series)
			if err != nil {
				return fmt.Errorf("load rate series %s: %w", spec.Series, err)
			}
			seriesMu.Lock()
			series[spec.Code] = points
			seriesMu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	table := fx.NewTable(l.rateStart, l.rateEnd, series)

	normPayments, paymentFailures := normalize.Payments(payments, table)
	normPledges, pledgeFailures := normalize.Pledges(pledges, table)

	snap := &Snapshot{
		Payments:        normPayments,
		Pledges:         normPledges,
		Rates:           table,
		PaymentFailures: paymentFailures,
		PledgeFailures:  pledgeFailures,
		FiscalYears:     metrics.AvailableFiscalYears(normPayments),
		LoadedAt:        time.Now().UTC(),
	}

	if len(paymentFailures) > 0 || len(pledgeFailures) > 0 {
		l.logger.WarnContext(ctx, "Some rows failed normalization",
			"payment_failures", len(paymentFailures),
			"pledge_failures", len(pledgeFailures))
	}
	l.logger.InfoContext(ctx, "Dataset snapshot built",
		"payments", len(normPayments),
		"pledges", len(normPledges),
		"fiscal_years", len(snap.FiscalYears))

	l.mu.Lock()
	l.current = snap
	l.mu.Unlock()
	return snap, nil
}

// Current returns the most recently loaded snapshot, or nil before the
// first Load.
func (l *Loader) Current() *Snapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.current
}
