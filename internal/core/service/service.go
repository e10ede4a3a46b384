package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/niksmo/shop-admin/internal/core/domain"
	"github.com/niksmo/shop-admin/internal/core/port"
)

const defaultPublishTimeout = 10 * time.Second

type discardEvents struct{}

func (discardEvents) ProduceEvent(context.Context, domain.Event) error {
	return nil
}

// publisher sends confirmed mutations in the background.
// The response of a mutation never waits for the broker.
type publisher struct {
	events  port.EventsProducer
	timeout time.Duration
	pending *sync.WaitGroup
}

func newPublisher(p port.EventsProducer) publisher {
	if p == nil {
		p = discardEvents{}
	}
	return publisher{
		events:  p,
		timeout: defaultPublishTimeout,
		pending: new(sync.WaitGroup),
	}
}

// publish detaches the event from the request context.
// A failure is logged and the mutation is not rolled back.
func (p publisher) publish(ctx context.Context, evt domain.Event) {
	const op = "service.publish"

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
	p.pending.Add(1)
	go func() {
		defer p.pending.Done()
		defer cancel()

		if err := p.events.ProduceEvent(ctx, evt); err != nil {
			slog.Error(
				"failed to publish event",
				"op", op, "entityID", evt.EntityID(), "err", err,
			)
		}
	}()
}

func (p publisher) wait() {
	p.pending.Wait()
}

func utcNow() time.Time {
	return time.Now().UTC()
}
