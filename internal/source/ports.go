// Package source defines the inbound data ports and the row-parsing rules
// shared by every backend. The core never assumes a particular file
// encoding; backends deliver in-memory tables through these interfaces.
package source

import (
	"context"

	"donorboard/internal/core"
	"donorboard/internal/fx"
)

// Ports for inbound data adapters.
type (
	PaymentSource interface {
		LoadPayments(ctx context.Context) ([]core.Payment, error)
	}

	PledgeSource interface {
		LoadPledges(ctx context.Context) ([]core.Pledge, error)
	}

	// RateSource delivers one raw daily rate series by its FRED series ID.
	// Gaps (weekends, holidays) are expected; filling happens downstream.
	RateSource interface {
		LoadRateSeries(ctx context.Context, series string) ([]fx.RatePoint, error)
	}
)
