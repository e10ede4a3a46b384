package kafka

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/niksmo/shop-admin/internal/core/domain"
	"github.com/niksmo/shop-admin/internal/core/port"
	"github.com/niksmo/shop-admin/pkg/schema"
	"github.com/twmb/franz-go/pkg/kgo"
)

var _ port.EventsProducer = (*EventsProducer)(nil)

// EventsProducer publishes admin events keyed by the entity ID.
type EventsProducer struct {
	cl      ProducerClient
	encoder Encoder
}

func NewEventsProducer(opts ...ProducerOpt) (EventsProducer, error) {
	const op = "NewEventsProducer"

	if len(opts) != 2 {
		panic(fmt.Errorf("%s: %w", op, ErrTooFewOpts)) // develop mistake
	}

	var options producerOpts
	for _, opt := range opts {
		if err := opt(&options); err != nil {
			return EventsProducer{}, fmt.Errorf("%s: %w", op, err)
		}
	}
	return EventsProducer{options.cl, options.encoder}, nil
}

func (p EventsProducer) Close() {
	const op = "EventsProducer.Close"
	log := slog.With("op", op)
	log.Info("closing producer...")
	p.cl.Close()
	log.Info("producer is closed")
}

func (p EventsProducer) ProduceEvent(ctx context.Context, evt domain.Event) error {
	const op = "EventsProducer.ProduceEvent"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s, err := eventToSchemaV1(evt)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	v, err := p.encoder.Encode(s)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	r := &kgo.Record{Key: []byte(s.EntityID), Value: v}
	if err := p.cl.ProduceSync(ctx, r).FirstErr(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func eventToSchemaV1(evt domain.Event) (s schema.AdminEventV1, err error) {
	s.EntityID = evt.EntityID()
	s.OccurredAt = evt.OccurredAt()

	switch e := evt.(type) {
	case domain.OrderStatusChanged:
		s.Kind = string(domain.KindOrderStatusChanged)
		s.Status = ptr(string(e.Status))
	case domain.OrderDeleted:
		s.Kind = string(domain.KindOrderDeleted)
	case domain.ProductCreated:
		s.Kind = string(domain.KindProductCreated)
		s.Title = ptr(e.Product.Title)
		s.Price = ptr(e.Product.Price)
		s.ImageRef = ptr(string(e.Product.ImageRef))
	case domain.ProductUpdated:
		s.Kind = string(domain.KindProductUpdated)
		s.Title = ptr(e.Patch.Title)
		s.Price = ptr(e.Patch.Price)
		if e.Patch.ImageRef != "" {
			s.ImageRef = ptr(string(e.Patch.ImageRef))
		}
	case domain.ProductDeleted:
		s.Kind = string(domain.KindProductDeleted)
	default:
		return schema.AdminEventV1{}, fmt.Errorf("%w: %T", ErrUnknownEventKind, evt)
	}
	return s, nil
}

func ptr[T any](v T) *T {
	return &v
}
