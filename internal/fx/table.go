package fx

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// dayKey formats a date as the table's lookup key. All lookups are by
// calendar day; intraday times are irrelevant to daily rate series.
const dayKey = "2006-01-02"

// RatePoint is one observed rate on one day, as delivered by the source
// series (gaps on weekends and holidays are expected).
type RatePoint struct {
	Date time.Time
	Rate decimal.Decimal
}

// RateGapError reports that no rate could be resolved for a currency on a
// date, even after gap-filling. The affected row must fail normalization
// explicitly rather than fall back to the raw amount.
type RateGapError struct {
	Currency string
	Date     time.Time
}

func (e *RateGapError) Error() string {
	return fmt.Sprintf("no %s rate for %s", e.Currency, e.Date.Format(dayKey))
}

// UnknownCurrencyError reports a currency with no configured series at all.
type UnknownCurrencyError struct {
	Currency string
}

func (e *UnknownCurrencyError) Error() string {
	return fmt.Sprintf("no rate series configured for currency %q", e.Currency)
}

// Table is the immutable, gap-filled rate table covering one history window.
// It is built once at load time and safe for concurrent reads.
type Table struct {
	start, end time.Time
	rates      map[string]map[string]decimal.Decimal // currency -> day -> rate
}

// NewTable builds a table covering every calendar day in [start, end] from
// raw per-currency series. Missing days are backward-filled: each gap takes
// the rate of the nearest later observation. A tail gap (no later value)
// stays missing and surfaces as a RateGapError on lookup.
func NewTable(start, end time.Time, series map[string][]RatePoint) *Table {
	start = truncateDay(start)
	end = truncateDay(end)
	t := &Table{
		start: start,
		end:   end,
		rates: make(map[string]map[string]decimal.Decimal, len(series)),
	}
	for code, points := range series {
		observed := make(map[string]decimal.Decimal, len(points))
		for _, p := range points {
			if p.Rate.IsZero() {
				continue
			}
			observed[truncateDay(p.Date).Format(dayKey)] = p.Rate
		}
		filled := make(map[string]decimal.Decimal, len(observed))
		var next decimal.Decimal
		haveNext := false
		for d := end; !d.Before(start); d = d.AddDate(0, 0, -1) {
			key := d.Format(dayKey)
			if r, ok := observed[key]; ok {
				next = r
				haveNext = true
			}
			if haveNext {
				filled[key] = next
			}
		}
		t.rates[code] = filled
	}
	return t
}

// Start returns the first covered day.
func (t *Table) Start() time.Time { return t.start }

// End returns the last covered day.
func (t *Table) End() time.Time { return t.end }

// Rate returns the gap-filled rate for the currency on the given day.
func (t *Table) Rate(currency string, date time.Time) (decimal.Decimal, bool) {
	days, ok := t.rates[currency]
	if !ok {
		return decimal.Decimal{}, false
	}
	r, ok := days[truncateDay(date).Format(dayKey)]
	return r, ok
}

// ToUSD converts a local-currency amount on a date to USD using the
// currency's declared quote direction. The base currency passes through
// unchanged (identity rate).
func (t *Table) ToUSD(amount decimal.Decimal, currency string, date time.Time) (decimal.Decimal, error) {
	if currency == BaseCurrency {
		return amount, nil
	}
	spec, ok := CurrencyByCode(currency)
	if !ok {
		return decimal.Decimal{}, &UnknownCurrencyError{Currency: currency}
	}
	rate, ok := t.Rate(currency, date)
	if !ok {
		return decimal.Decimal{}, &RateGapError{Currency: currency, Date: date}
	}
	switch spec.Direction {
	case Divide:
		return amount.Div(rate), nil
	default:
		return amount.Mul(rate), nil
	}
}

func truncateDay(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
}
