// Fiscal year handling. The reporting year runs July 1 through June 30 and is
// labeled by its two calendar years, e.g. "FY2024-2025".
package core

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FiscalYear identifies one July-June reporting window by its starting
// calendar year.
type FiscalYear struct {
	StartYear int
}

// FiscalYearParseError reports a fiscal-year label that could not be parsed.
// It is a hard error for the computation using the label; callers must not
// substitute a default year.
type FiscalYearParseError struct {
	Label  string
	Reason string
}

func (e *FiscalYearParseError) Error() string {
	return fmt.Sprintf("parse fiscal year %q: %s", e.Label, e.Reason)
}

// FiscalYearOf returns the fiscal year containing the date: July-December
// belong to the year starting that July, January-June to the year started
// the previous July.
func FiscalYearOf(date time.Time) FiscalYear {
	if date.Month() >= time.July {
		return FiscalYear{StartYear: date.Year()}
	}
	return FiscalYear{StartYear: date.Year() - 1}
}

// FiscalMonthOf maps a date to its month position within the fiscal year:
// July=1 ... December=6, January=7 ... June=12.
func FiscalMonthOf(date time.Time) int {
	m := int(date.Month())
	if m >= 7 {
		return m - 6
	}
	return m + 6
}

// ParseFiscalYear parses a "FYnnnn-nnnn" label. The two years must be
// consecutive.
func ParseFiscalYear(label string) (FiscalYear, error) {
	s := strings.TrimSpace(label)
	if !strings.HasPrefix(s, "FY") {
		return FiscalYear{}, &FiscalYearParseError{Label: label, Reason: "missing FY prefix"}
	}
	parts := strings.Split(strings.TrimPrefix(s, "FY"), "-")
	if len(parts) != 2 {
		return FiscalYear{}, &FiscalYearParseError{Label: label, Reason: "expected two dash-separated years"}
	}
	first, err := strconv.Atoi(parts[0])
	if err != nil {
		return FiscalYear{}, &FiscalYearParseError{Label: label, Reason: "first year is not a number"}
	}
	second, err := strconv.Atoi(parts[1])
	if err != nil {
		return FiscalYear{}, &FiscalYearParseError{Label: label, Reason: "second year is not a number"}
	}
	if second != first+1 {
		return FiscalYear{}, &FiscalYearParseError{Label: label, Reason: "years are not consecutive"}
	}
	return FiscalYear{StartYear: first}, nil
}

// Label renders the canonical "FYnnnn-nnnn" form.
func (fy FiscalYear) Label() string {
	return fmt.Sprintf("FY%d-%d", fy.StartYear, fy.StartYear+1)
}

// Start returns July 1 of the starting calendar year (UTC).
func (fy FiscalYear) Start() time.Time {
	return time.Date(fy.StartYear, time.July, 1, 0, 0, 0, 0, time.UTC)
}

// End returns June 30 of the following calendar year (UTC), inclusive.
func (fy FiscalYear) End() time.Time {
	return time.Date(fy.StartYear+1, time.June, 30, 0, 0, 0, 0, time.UTC)
}

// Contains reports whether the date falls inside the fiscal year.
func (fy FiscalYear) Contains(date time.Time) bool {
	return FiscalYearOf(date) == fy
}
