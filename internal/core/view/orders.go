package view

import (
	"fmt"
	"slices"
	"sync"

	"github.com/niksmo/shop-admin/internal/core/domain"
)

type OrdersState struct {
	Loaded   bool
	Filter   string
	Expanded string
	Orders   []domain.Order
}

// Visible returns the orders that pass the status filter.
func (s OrdersState) Visible() []domain.Order {
	return domain.FilterOrders(s.Orders, s.Filter)
}

// Orders is an operator's orders list.
//
// It changes only by loading a fetched list or by applying
// confirmed mutation events.
type Orders struct {
	mu    sync.Mutex
	state OrdersState
}

func NewOrders() *Orders {
	return &Orders{state: OrdersState{Filter: domain.FilterAll}}
}

func (v *Orders) Load(orders []domain.Order) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state.Loaded = true
	v.state.Orders = slices.Clone(orders)
	if v.state.Expanded != "" && !v.contains(v.state.Expanded) {
		v.state.Expanded = ""
	}
}

func (v *Orders) SetFilter(filter string) error {
	const op = "view.Orders.SetFilter"

	if filter != domain.FilterAll && !domain.OrderStatus(filter).Settable() {
		return fmt.Errorf("%s: %w: %q", op, domain.ErrInvalidStatus, filter)
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	v.state.Filter = filter
	return nil
}

// Toggle expands the order details or collapses them when the order is
// already expanded. At most one order is expanded.
func (v *Orders) Toggle(id string) (expanded string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.state.Expanded == id {
		v.state.Expanded = ""
	} else {
		v.state.Expanded = id
	}
	return v.state.Expanded
}

// Replace puts a freshly fetched order in place of the one with the same ID.
func (v *Orders) Replace(o domain.Order) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for i := range v.state.Orders {
		if v.state.Orders[i].ID == o.ID {
			v.state.Orders[i] = o
			return
		}
	}
}

// Apply reduces an order event into the list.
// Events of other entities are ignored.
func (v *Orders) Apply(evt domain.Event) {
	v.mu.Lock()
	defer v.mu.Unlock()

	switch e := evt.(type) {
	case domain.OrderStatusChanged:
		for i := range v.state.Orders {
			if v.state.Orders[i].ID == e.OrderID {
				v.state.Orders[i].Status = e.Status
			}
		}
	case domain.OrderDeleted:
		v.state.Orders = slices.DeleteFunc(v.state.Orders, func(o domain.Order) bool {
			return o.ID == e.OrderID
		})
		if v.state.Expanded == e.OrderID {
			v.state.Expanded = ""
		}
	}
}

func (v *Orders) Get(id string) (domain.Order, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, o := range v.state.Orders {
		if o.ID == id {
			return o, true
		}
	}
	return domain.Order{}, false
}

func (v *Orders) Snapshot() OrdersState {
	v.mu.Lock()
	defer v.mu.Unlock()
	s := v.state
	s.Orders = slices.Clone(v.state.Orders)
	return s
}

func (v *Orders) contains(id string) bool {
	return slices.ContainsFunc(v.state.Orders, func(o domain.Order) bool {
		return o.ID == id
	})
}
