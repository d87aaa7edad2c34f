package fx

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCurrencyConventions(t *testing.T) {
	// The quote direction is load-bearing: getting it wrong silently skews
	// every USD amount for that currency.
	want := map[string]Direction{
		"GBP": Multiply,
		"AUD": Multiply,
		"EUR": Multiply,
		"CAD": Divide,
		"SGD": Divide,
		"CHF": Divide,
	}
	if len(Currencies) != len(want) {
		t.Fatalf("expected %d currencies, got %d", len(want), len(Currencies))
	}
	for code, dir := range want {
		spec, ok := CurrencyByCode(code)
		if !ok {
			t.Errorf("missing currency %s", code)
			continue
		}
		if spec.Direction != dir {
			t.Errorf("%s direction = %v, want %v", code, spec.Direction, dir)
		}
		if spec.Series == "" {
			t.Errorf("%s has no series", code)
		}
	}
}

func TestBackwardFill(t *testing.T) {
	start, end := day(2024, time.January, 4), day(2024, time.January, 12)
	table := NewTable(start, end, map[string][]RatePoint{
		"EUR": {
			{Date: day(2024, time.January, 6), Rate: decimal.NewFromFloat(1.08)},
			{Date: day(2024, time.January, 9), Rate: decimal.NewFromFloat(1.10)},
		},
	})

	cases := []struct {
		d    time.Time
		want string
		ok   bool
	}{
		{day(2024, time.January, 4), "1.08", true}, // filled from the 6th
		{day(2024, time.January, 5), "1.08", true},
		{day(2024, time.January, 6), "1.08", true},
		{day(2024, time.January, 7), "1.1", true}, // filled from the 9th
		{day(2024, time.January, 8), "1.1", true},
		{day(2024, time.January, 9), "1.1", true},
		{day(2024, time.January, 10), "", false}, // tail gap stays missing
		{day(2024, time.January, 12), "", false},
	}
	for _, tc := range cases {
		got, ok := table.Rate("EUR", tc.d)
		if ok != tc.ok {
			t.Errorf("Rate(EUR, %s) ok = %v, want %v", tc.d.Format("2006-01-02"), ok, tc.ok)
			continue
		}
		if ok && got.String() != tc.want {
			t.Errorf("Rate(EUR, %s) = %s, want %s", tc.d.Format("2006-01-02"), got, tc.want)
		}
	}
}

func TestBackwardFillCoversWholeRange(t *testing.T) {
	start, end := day(2024, time.March, 1), day(2024, time.March, 31)
	table := NewTable(start, end, map[string][]RatePoint{
		"GBP": {
			{Date: day(2024, time.March, 31), Rate: decimal.NewFromFloat(1.27)},
			{Date: day(2024, time.March, 15), Rate: decimal.NewFromFloat(1.26)},
		},
	})
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if _, ok := table.Rate("GBP", d); !ok {
			t.Errorf("no GBP rate for %s despite trailing observation", d.Format("2006-01-02"))
		}
	}
}

func TestToUSDMultiplyConvention(t *testing.T) {
	d := day(2024, time.May, 10)
	table := NewTable(d, d, map[string][]RatePoint{
		"EUR": {{Date: d, Rate: decimal.NewFromFloat(1.08)}},
	})
	got, err := table.ToUSD(decimal.NewFromInt(100), "EUR", d)
	if err != nil {
		t.Fatal(err)
	}
	if got.StringFixed(2) != "108.00" {
		t.Errorf("100 EUR at 1.08 = %s USD, want 108.00", got.StringFixed(2))
	}
}

func TestToUSDDivideConvention(t *testing.T) {
	d := day(2024, time.May, 10)
	table := NewTable(d, d, map[string][]RatePoint{
		"CAD": {{Date: d, Rate: decimal.NewFromFloat(1.35)}},
	})
	got, err := table.ToUSD(decimal.NewFromInt(100), "CAD", d)
	if err != nil {
		t.Fatal(err)
	}
	if got.StringFixed(2) != "74.07" {
		t.Errorf("100 CAD at 1.35 = %s USD, want 74.07", got.StringFixed(2))
	}
}

func TestToUSDBaseCurrencyIdentity(t *testing.T) {
	table := NewTable(day(2024, time.May, 1), day(2024, time.May, 1), nil)
	amount := decimal.NewFromFloat(42.50)
	got, err := table.ToUSD(amount, "USD", day(2024, time.May, 1))
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(amount) {
		t.Errorf("USD identity: got %s, want %s", got, amount)
	}
}

func TestToUSDErrors(t *testing.T) {
	d := day(2024, time.May, 10)
	table := NewTable(d, d, map[string][]RatePoint{})

	_, err := table.ToUSD(decimal.NewFromInt(1), "XYZ", d)
	var unknown *UnknownCurrencyError
	if !errors.As(err, &unknown) {
		t.Errorf("unknown currency: got %v, want *UnknownCurrencyError", err)
	}

	_, err = table.ToUSD(decimal.NewFromInt(1), "EUR", d)
	var gap *RateGapError
	if !errors.As(err, &gap) {
		t.Fatalf("rate gap: got %v, want *RateGapError", err)
	}
	if gap.Currency != "EUR" {
		t.Errorf("gap currency = %s, want EUR", gap.Currency)
	}
}
