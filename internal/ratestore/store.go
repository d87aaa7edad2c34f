// Package ratestore caches fetched exchange-rate series in SQLite so the
// dashboard can build its rate table without hitting FRED on every start.
package ratestore

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"donorboard/internal/fx"
	"donorboard/internal/log"
	"donorboard/internal/source"
)

const dayFormat = "2006-01-02"

type Store struct {
	db     *sql.DB
	logger *log.Logger
}

var _ source.RateSource = (*Store)(nil)

func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db, logger: log.ForComponent(log.ComponentStore)}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// UpsertSeries replaces observations for one series. Only observed points
// are stored; gap-filling stays a load-time concern.
func (s *Store) UpsertSeries(ctx context.Context, series string, points []fx.RatePoint) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO exchange_rates (series, day, rate, fetched_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (series, day) DO UPDATE SET rate = excluded.rate, fetched_at = excluded.fetched_at`)
	if err != nil {
		return fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339)
	for _, p := range points {
		if _, err := stmt.ExecContext(ctx, series, p.Date.Format(dayFormat), p.Rate.String(), now); err != nil {
			return fmt.Errorf("upsert %s %s: %w", series, p.Date.Format(dayFormat), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	s.logger.InfoContext(ctx, "Stored rate series", log.FieldSeries, series, "points", len(points))
	return nil
}

// LoadRateSeries implements source.RateSource.
func (s *Store) LoadRateSeries(ctx context.Context, series string) ([]fx.RatePoint, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT day, rate FROM exchange_rates WHERE series = ? ORDER BY day`, series)
	if err != nil {
		return nil, fmt.Errorf("query series %s: %w", series, err)
	}
	defer rows.Close()

	var points []fx.RatePoint
	for rows.Next() {
		var day, rate string
		if err := rows.Scan(&day, &rate); err != nil {
			return nil, fmt.Errorf("scan series %s: %w", series, err)
		}
		d, err := time.Parse(dayFormat, day)
		if err != nil {
			return nil, fmt.Errorf("stored day %q: %w", day, err)
		}
		r, err := decimal.NewFromString(rate)
		if err != nil {
			return nil, fmt.Errorf("stored rate %q: %w", rate, err)
		}
		points = append(points, fx.RatePoint{Date: d, Rate: r})
	}
	return points, rows.Err()
}
