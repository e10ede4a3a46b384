package domain

import "time"

// An Event is a confirmed mutation of a remote document.
type Event interface {
	EntityID() string
	OccurredAt() time.Time
}

type EventKind string

const (
	KindOrderStatusChanged EventKind = "order_status_changed"
	KindOrderDeleted       EventKind = "order_deleted"
	KindProductCreated     EventKind = "product_created"
	KindProductUpdated     EventKind = "product_updated"
	KindProductDeleted     EventKind = "product_deleted"
)

type (
	OrderStatusChanged struct {
		OrderID string
		Status  OrderStatus
		At      time.Time
	}

	OrderDeleted struct {
		OrderID string
		At      time.Time
	}

	ProductCreated struct {
		Product Product
		At      time.Time
	}

	ProductUpdated struct {
		ProductID string
		Patch     ProductPatch
		At        time.Time
	}

	ProductDeleted struct {
		ProductID string
		At        time.Time
	}
)

func (e OrderStatusChanged) EntityID() string      { return e.OrderID }
func (e OrderStatusChanged) OccurredAt() time.Time { return e.At }
func (e OrderDeleted) EntityID() string            { return e.OrderID }
func (e OrderDeleted) OccurredAt() time.Time       { return e.At }
func (e ProductCreated) EntityID() string          { return e.Product.ID }
func (e ProductCreated) OccurredAt() time.Time     { return e.At }
func (e ProductUpdated) EntityID() string          { return e.ProductID }
func (e ProductUpdated) OccurredAt() time.Time     { return e.At }
func (e ProductDeleted) EntityID() string          { return e.ProductID }
func (e ProductDeleted) OccurredAt() time.Time     { return e.At }
