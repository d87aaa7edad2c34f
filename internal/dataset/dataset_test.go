package dataset

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"donorboard/internal/core"
	"donorboard/internal/fx"
)

type fakePayments struct {
	rows []core.Payment
	err  error
}

func (f *fakePayments) LoadPayments(ctx context.Context) ([]core.Payment, error) {
	return f.rows, f.err
}

type fakePledges struct {
	rows []core.Pledge
	err  error
}

func (f *fakePledges) LoadPledges(ctx context.Context) ([]core.Pledge, error) {
	return f.rows, f.err
}

type fakeRates struct {
	points map[string][]fx.RatePoint
	err    error
}

func (f *fakeRates) LoadRateSeries(ctx context.Context, series string) ([]fx.RatePoint, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.points[series], nil
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// flatRates serves one observation at the end of the test window; backward
// fill then covers the whole window with the same rate.
func flatRates(rate string) *fakeRates {
	points := make(map[string][]fx.RatePoint)
	for _, spec := range fx.Currencies {
		points[spec.Series] = []fx.RatePoint{
			{Date: day(2025, time.June, 30), Rate: decimal.RequireFromString(rate)},
		}
	}
	return &fakeRates{points: points}
}

func TestLoadBuildsSnapshot(t *testing.T) {
	payments := &fakePayments{rows: []core.Payment{
		{ID: "P-1", Date: day(2024, time.August, 15), Amount: decimal.NewFromInt(100), Currency: "USD"},
		{ID: "P-2", Date: day(2025, time.March, 1), Amount: decimal.NewFromInt(50), Currency: "EUR"},
	}}
	pledges := &fakePledges{rows: []core.Pledge{
		{PledgeID: "PL-1", DonorID: "D-1", Status: core.StatusActive, CreatedAt: day(2024, time.July, 10), StartsAt: day(2024, time.August, 1), ContributionAmount: decimal.NewFromInt(25), Currency: "USD", Frequency: core.Monthly},
	}}

	loader := NewLoader(payments, pledges, flatRates("1"), day(2024, time.July, 1), day(2025, time.June, 30))
	snap, err := loader.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if len(snap.Payments) != 2 || len(snap.Pledges) != 1 {
		t.Fatalf("snapshot has %d payments, %d pledges", len(snap.Payments), len(snap.Pledges))
	}
	for _, p := range snap.Payments {
		if !p.AmountUSD.Valid {
			t.Errorf("payment %s not normalized", p.ID)
		}
	}
	if len(snap.PaymentFailures) != 0 || len(snap.PledgeFailures) != 0 {
		t.Errorf("unexpected failures: %v %v", snap.PaymentFailures, snap.PledgeFailures)
	}
	if len(snap.FiscalYears) != 1 || snap.FiscalYears[0].Label() != "FY2024-2025" {
		t.Errorf("fiscal years = %v", snap.FiscalYears)
	}
	if snap.LoadedAt.IsZero() {
		t.Error("LoadedAt not set")
	}
	if loader.Current() != snap {
		t.Error("Current should return the loaded snapshot")
	}
}

func TestLoadRecordsNormalizationFailures(t *testing.T) {
	// The rate window starts after the payment date, so no rate exists.
	payments := &fakePayments{rows: []core.Payment{
		{ID: "P-1", Date: day(2020, time.January, 15), Amount: decimal.NewFromInt(100), Currency: "EUR"},
	}}
	pledges := &fakePledges{}

	loader := NewLoader(payments, pledges, flatRates("1.08"), day(2024, time.July, 1), day(2025, time.June, 30))
	snap, err := loader.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if len(snap.PaymentFailures) != 1 {
		t.Fatalf("got %d payment failures, want 1", len(snap.PaymentFailures))
	}
	if snap.Payments[0].AmountUSD.Valid {
		t.Error("payment without a rate must stay unconverted")
	}
}

func TestLoadSourceErrorAborts(t *testing.T) {
	loader := NewLoader(
		&fakePayments{err: errors.New("sheet unavailable")},
		&fakePledges{},
		flatRates("1"),
		day(2024, time.July, 1), day(2025, time.June, 30),
	)
	if _, err := loader.Load(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if loader.Current() != nil {
		t.Error("failed load must not install a snapshot")
	}
}

func TestLoadRateSeriesErrorAborts(t *testing.T) {
	loader := NewLoader(
		&fakePayments{},
		&fakePledges{},
		&fakeRates{err: errors.New("no such table")},
		day(2024, time.July, 1), day(2025, time.June, 30),
	)
	if _, err := loader.Load(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestLatestFiscalYear(t *testing.T) {
	var empty Snapshot
	if _, ok := empty.LatestFiscalYear(); ok {
		t.Error("empty snapshot should have no fiscal year")
	}

	snap := Snapshot{FiscalYears: []core.FiscalYear{{StartYear: 2023}, {StartYear: 2024}}}
	fy, ok := snap.LatestFiscalYear()
	if !ok || fy.StartYear != 2024 {
		t.Errorf("got %v, %v", fy, ok)
	}
}
