package worker

import (
	"context"
	"fmt"

	"donorboard/internal/amqp"
	"donorboard/internal/log"
)

// RefreshConsumer delivers rates-refresh events until the context is done.
type RefreshConsumer interface {
	ConsumeRatesRefresh(ctx context.Context, handler func(*amqp.RatesRefreshMessage) error) error
}

// RefreshListener rebuilds dashboard state whenever the rates worker
// announces refreshed series. A failed rebuild is returned to the consumer
// so the delivery is requeued and retried.
type RefreshListener struct {
	consumer RefreshConsumer
	reload   func(context.Context) error
	logger   *log.Logger
}

func NewRefreshListener(consumer RefreshConsumer, reload func(context.Context) error) *RefreshListener {
	return &RefreshListener{
		consumer: consumer,
		reload:   reload,
		logger:   log.ForComponent(log.ComponentWorker),
	}
}

// Listen blocks consuming refresh events until the context is done.
func (l *RefreshListener) Listen(ctx context.Context) error {
	return l.consumer.ConsumeRatesRefresh(ctx, func(msg *amqp.RatesRefreshMessage) error {
		l.logger.InfoContext(ctx, "Rates refreshed, rebuilding snapshot", log.FieldSeries, msg.Series)
		if err := l.reload(ctx); err != nil {
			return fmt.Errorf("rebuild snapshot: %w", err)
		}
		return nil
	})
}
