package worker

import (
	"context"
	"errors"
	"testing"

	"donorboard/internal/amqp"
)

// fakeConsumer hands every queued message to the handler and records what
// the handler returned, mirroring the ack/requeue decision the real
// consumer makes from that error.
type fakeConsumer struct {
	messages    []*amqp.RatesRefreshMessage
	handlerErrs []error
}

func (f *fakeConsumer) ConsumeRatesRefresh(ctx context.Context, handler func(*amqp.RatesRefreshMessage) error) error {
	for _, m := range f.messages {
		f.handlerErrs = append(f.handlerErrs, handler(m))
	}
	return ctx.Err()
}

func TestListenReloadsPerEvent(t *testing.T) {
	consumer := &fakeConsumer{messages: []*amqp.RatesRefreshMessage{
		amqp.NewRatesRefreshMessage([]string{"DEXUSEU"}),
		amqp.NewRatesRefreshMessage([]string{"DEXUSUK", "DEXCAUS"}),
	}}

	var reloads int
	l := NewRefreshListener(consumer, func(ctx context.Context) error {
		reloads++
		return nil
	})
	if err := l.Listen(context.Background()); err != nil {
		t.Fatal(err)
	}

	if reloads != 2 {
		t.Errorf("reloaded %d times, want 2", reloads)
	}
	for i, err := range consumer.handlerErrs {
		if err != nil {
			t.Errorf("message %d: handler returned %v, want nil (ack)", i, err)
		}
	}
}

func TestListenFailedReloadRequeues(t *testing.T) {
	consumer := &fakeConsumer{messages: []*amqp.RatesRefreshMessage{
		amqp.NewRatesRefreshMessage([]string{"DEXUSEU"}),
		amqp.NewRatesRefreshMessage([]string{"DEXUSEU"}),
	}}

	reloadErr := errors.New("source unavailable")
	calls := 0
	l := NewRefreshListener(consumer, func(ctx context.Context) error {
		calls++
		if calls == 1 {
			return reloadErr
		}
		return nil
	})
	if err := l.Listen(context.Background()); err != nil {
		t.Fatal(err)
	}

	// The first handler error must surface so the delivery is requeued;
	// later events keep being handled.
	if len(consumer.handlerErrs) != 2 {
		t.Fatalf("handled %d messages, want 2", len(consumer.handlerErrs))
	}
	if !errors.Is(consumer.handlerErrs[0], reloadErr) {
		t.Errorf("first handler error = %v, want wrapped %v", consumer.handlerErrs[0], reloadErr)
	}
	if consumer.handlerErrs[1] != nil {
		t.Errorf("second handler error = %v, want nil", consumer.handlerErrs[1])
	}
}
