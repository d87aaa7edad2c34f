package ratestore

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"donorboard/internal/fx"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "rates.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestUpsertAndLoad(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	points := []fx.RatePoint{
		{Date: day(2024, time.May, 13), Rate: decimal.RequireFromString("1.0871")},
		{Date: day(2024, time.May, 10), Rate: decimal.RequireFromString("1.0852")},
	}
	if err := store.UpsertSeries(ctx, "DEXUSEU", points); err != nil {
		t.Fatal(err)
	}

	got, err := store.LoadRateSeries(ctx, "DEXUSEU")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d points, want 2", len(got))
	}
	// Stored rows come back ordered by day regardless of insert order.
	if !got[0].Date.Equal(day(2024, time.May, 10)) || got[0].Rate.String() != "1.0852" {
		t.Errorf("first point = %+v", got[0])
	}
	if !got[1].Date.Equal(day(2024, time.May, 13)) || got[1].Rate.String() != "1.0871" {
		t.Errorf("second point = %+v", got[1])
	}
}

func TestUpsertOverwrites(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	d := day(2024, time.May, 10)
	if err := store.UpsertSeries(ctx, "DEXUSUK", []fx.RatePoint{{Date: d, Rate: decimal.RequireFromString("1.25")}}); err != nil {
		t.Fatal(err)
	}
	if err := store.UpsertSeries(ctx, "DEXUSUK", []fx.RatePoint{{Date: d, Rate: decimal.RequireFromString("1.26")}}); err != nil {
		t.Fatal(err)
	}

	got, err := store.LoadRateSeries(ctx, "DEXUSUK")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d points, want 1", len(got))
	}
	if got[0].Rate.String() != "1.26" {
		t.Errorf("rate = %s, want 1.26", got[0].Rate)
	}
}

func TestSeriesAreIsolated(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	d := day(2024, time.May, 10)
	if err := store.UpsertSeries(ctx, "DEXUSEU", []fx.RatePoint{{Date: d, Rate: decimal.RequireFromString("1.08")}}); err != nil {
		t.Fatal(err)
	}

	got, err := store.LoadRateSeries(ctx, "DEXCAUS")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("unseeded series returned %d points", len(got))
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rates.db")
	first, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	first.Close()

	second, err := Open(path)
	if err != nil {
		t.Fatalf("reopening migrated database: %v", err)
	}
	second.Close()
}
