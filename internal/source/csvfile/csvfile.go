// Package csvfile reads the pledge, payment, and exchange-rate tables from
// delimited text files. It is the default data backend.
package csvfile

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"donorboard/internal/core"
	"donorboard/internal/fx"
	"donorboard/internal/log"
	"donorboard/internal/source"

	"github.com/shopspring/decimal"
)

// Source loads tables from a base directory. Expected files:
// Payments.csv, Pledge.csv, and one <SERIES>_exchange_rates.csv per
// configured currency.
type Source struct {
	dir    string
	logger *log.Logger
}

// Interface conformance.
var (
	_ source.PaymentSource = (*Source)(nil)
	_ source.PledgeSource  = (*Source)(nil)
	_ source.RateSource    = (*Source)(nil)
)

func New(dir string) *Source {
	return &Source{dir: dir, logger: log.ForComponent(log.ComponentCSV)}
}

// LoadPayments reads and parses the payments table. A malformed row aborts
// the load with its row number; data problems are surfaced, not coerced.
func (s *Source) LoadPayments(ctx context.Context) ([]core.Payment, error) {
	var out []core.Payment
	err := s.readTable(ctx, "Payments.csv", []string{
		source.ColDate, source.ColAmount, source.ColCurrency,
	}, func(h source.Header, fields []string, line int) error {
		p, err := source.ParsePayment(h, fields)
		if err != nil {
			return fmt.Errorf("row %d: %w", line, err)
		}
		out = append(out, p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "Loaded payments", log.FieldRowCount, len(out), "dir", s.dir)
	return out, nil
}

// LoadPledges reads and parses the pledges table.
func (s *Source) LoadPledges(ctx context.Context) ([]core.Pledge, error) {
	var out []core.Pledge
	err := s.readTable(ctx, "Pledge.csv", []string{
		source.ColPledgeID, source.ColPledgeCreatedAt,
		source.ColContributionAmount, source.ColCurrency,
	}, func(h source.Header, fields []string, line int) error {
		p, err := source.ParsePledge(h, fields)
		if err != nil {
			return fmt.Errorf("row %d: %w", line, err)
		}
		out = append(out, p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "Loaded pledges", log.FieldRowCount, len(out), "dir", s.dir)
	return out, nil
}

// LoadRateSeries reads one two-column (DATE, <SERIES>) rate file. Rows with
// an empty or "." value are missing observations and are skipped; the table
// builder fills them.
func (s *Source) LoadRateSeries(ctx context.Context, series string) ([]fx.RatePoint, error) {
	name := fmt.Sprintf("%s_exchange_rates.csv", series)
	var points []fx.RatePoint
	err := s.readTable(ctx, name, nil, func(h source.Header, fields []string, line int) error {
		if len(fields) < 2 {
			return nil
		}
		value := strings.TrimSpace(fields[1])
		if value == "" || value == "." {
			return nil
		}
		date, err := source.ParseDay(strings.TrimSpace(fields[0]))
		if err != nil {
			return fmt.Errorf("row %d: %w", line, err)
		}
		rate, err := decimal.NewFromString(value)
		if err != nil {
			return fmt.Errorf("row %d: invalid rate %q", line, value)
		}
		points = append(points, fx.RatePoint{Date: date, Rate: rate})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return points, nil
}

// readTable streams a CSV file row by row. required names the columns that
// must appear in the header; nil skips the check (positional files).
func (s *Source) readTable(ctx context.Context, name string, required []string, handle func(source.Header, []string, int) error) error {
	path := filepath.Join(s.dir, name)
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", name, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // tolerate ragged rows, parsing decides validity

	first, err := r.Read()
	if err != nil {
		return fmt.Errorf("read header of %s: %w", name, err)
	}
	header := source.NewHeader(first)
	if required != nil {
		if err := header.Require(required...); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}

	for line := 2; ; line++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		fields, err := r.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read %s: %w", name, err)
		}
		if blankRow(fields) {
			continue
		}
		if err := handle(header, fields, line); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
}

func blankRow(fields []string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
