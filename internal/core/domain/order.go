package domain

import "time"

type OrderStatus string

const (
	StatusUnset    OrderStatus = ""
	StatusPending  OrderStatus = "pending"
	StatusDispatch OrderStatus = "dispatch"
	StatusSuccess  OrderStatus = "success"
)

// FilterAll is the status filter that matches every order.
const FilterAll = "All"

// ImagePlaceholder is shown instead of a cart item image that can not be resolved.
const ImagePlaceholder = "No Image"

// Settable reports whether an operator may set the status.
// The unset status is only ever read.
func (s OrderStatus) Settable() bool {
	switch s {
	case StatusPending, StatusDispatch, StatusSuccess:
		return true
	default:
		return false
	}
}

type (
	Order struct {
		ID        string
		FirstName string
		LastName  string
		Phone     string
		Email     string
		Address   Address
		Total     float64
		OrderDate time.Time
		Status    OrderStatus
		Cart      []CartItem
	}

	Address struct {
		Street   string
		City     string
		Province string
		Zip      string
		Country  string
	}

	CartItem struct {
		ProductID string
		Title     string
		ImageURL  string
	}
)

// Image returns the item image URL or [ImagePlaceholder] when the
// item has no resolvable image.
func (i CartItem) Image() (url string, ok bool) {
	if i.ImageURL == "" {
		return ImagePlaceholder, false
	}
	return i.ImageURL, true
}

// FilterOrders returns the orders whose status equals filter.
// [FilterAll] returns the input unchanged.
func FilterOrders(orders []Order, filter string) []Order {
	if filter == FilterAll {
		return orders
	}
	filtered := make([]Order, 0, len(orders))
	for _, o := range orders {
		if string(o.Status) == filter {
			filtered = append(filtered, o)
		}
	}
	return filtered
}
