package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/niksmo/shop-admin/internal/core/domain"
	"github.com/niksmo/shop-admin/internal/core/port"
)

var _ port.OrdersManager = (*Orders)(nil)

type Orders struct {
	gateway port.OrdersGateway
	events  publisher
	now     func() time.Time
}

func NewOrders(gateway port.OrdersGateway, events port.EventsProducer) Orders {
	return Orders{
		gateway: gateway,
		events:  newPublisher(events),
		now:     utcNow,
	}
}

func (s Orders) ListOrders(ctx context.Context) ([]domain.Order, error) {
	const op = "Orders.ListOrders"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	orders, err := s.gateway.ListOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, domain.ErrFetch, err)
	}
	return orders, nil
}

func (s Orders) GetOrder(ctx context.Context, id string) (domain.Order, error) {
	const op = "Orders.GetOrder"

	if err := ctx.Err(); err != nil {
		return domain.Order{}, fmt.Errorf("%s: %w", op, err)
	}

	o, err := s.gateway.GetOrder(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Order{}, fmt.Errorf("%s: %w", op, err)
		}
		return domain.Order{}, fmt.Errorf("%s: %w: %w", op, domain.ErrFetch, err)
	}
	return o, nil
}

// SetOrderStatus patches the order status remotely.
//
// The returned event is the only thing a view may apply:
// local state changes after the remote call succeeded.
func (s Orders) SetOrderStatus(
	ctx context.Context, id string, status domain.OrderStatus,
) (domain.OrderStatusChanged, error) {
	const op = "Orders.SetOrderStatus"

	if err := ctx.Err(); err != nil {
		return domain.OrderStatusChanged{}, fmt.Errorf("%s: %w", op, err)
	}

	if !status.Settable() {
		return domain.OrderStatusChanged{}, fmt.Errorf(
			"%s: %w: %q", op, domain.ErrInvalidStatus, status,
		)
	}

	if err := s.gateway.PatchOrderStatus(ctx, id, status); err != nil {
		return domain.OrderStatusChanged{}, fmt.Errorf(
			"%s: %w: %w", op, domain.ErrUpdate, err,
		)
	}

	evt := domain.OrderStatusChanged{OrderID: id, Status: status, At: s.now()}
	s.events.publish(ctx, evt)
	return evt, nil
}

// DeleteOrder permanently deletes the order.
// Nothing happens until the operator confirmed the action.
func (s Orders) DeleteOrder(
	ctx context.Context, id string, confirmed bool,
) (domain.OrderDeleted, error) {
	const op = "Orders.DeleteOrder"

	if err := ctx.Err(); err != nil {
		return domain.OrderDeleted{}, fmt.Errorf("%s: %w", op, err)
	}

	if !confirmed {
		return domain.OrderDeleted{}, fmt.Errorf("%s: %w", op, domain.ErrNotConfirmed)
	}

	if err := s.gateway.DeleteOrder(ctx, id); err != nil {
		return domain.OrderDeleted{}, fmt.Errorf(
			"%s: %w: %w", op, domain.ErrDelete, err,
		)
	}

	evt := domain.OrderDeleted{OrderID: id, At: s.now()}
	s.events.publish(ctx, evt)
	return evt, nil
}

// Wait blocks until the events of finished mutations are published
// or have failed.
func (s Orders) Wait() {
	s.events.wait()
}
