package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/niksmo/shop-admin/internal/core/domain"
	"github.com/niksmo/shop-admin/internal/core/port"
)

var (
	_ port.OrdersGateway   = (*Documents)(nil)
	_ port.ProductsGateway = (*Documents)(nil)
)

// Documents is an in-process document store.
//
// Cart items reference products by ID and are resolved on read,
// so a deleted product leaves a cart item without title and image.
type Documents struct {
	mu       sync.RWMutex
	orders   []orderDoc
	products []domain.Product
	images   port.ImageURLResolver
	newID    func() string
}

type orderDoc struct {
	order      domain.Order
	productIDs []string
}

func NewDocuments(images port.ImageURLResolver) *Documents {
	return &Documents{images: images, newID: uuid.NewString}
}

// SeedOrder stores an order created outside of the admin.
// Only the product IDs of the cart items are kept.
func (d *Documents) SeedOrder(o domain.Order) domain.Order {
	d.mu.Lock()
	defer d.mu.Unlock()

	if o.ID == "" {
		o.ID = d.newID()
	}
	doc := orderDoc{order: o}
	for _, item := range o.Cart {
		doc.productIDs = append(doc.productIDs, item.ProductID)
	}
	doc.order.Cart = nil
	d.orders = append(d.orders, doc)
	return d.resolve(doc)
}

func (d *Documents) ListOrders(ctx context.Context) ([]domain.Order, error) {
	const op = "Documents.ListOrders"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	orders := make([]domain.Order, 0, len(d.orders))
	for _, doc := range d.orders {
		orders = append(orders, d.resolve(doc))
	}
	return orders, nil
}

func (d *Documents) GetOrder(ctx context.Context, id string) (domain.Order, error) {
	const op = "Documents.GetOrder"

	if err := ctx.Err(); err != nil {
		return domain.Order{}, fmt.Errorf("%s: %w", op, err)
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	idx := d.orderIndex(id)
	if idx < 0 {
		return domain.Order{}, fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}
	return d.resolve(d.orders[idx]), nil
}

func (d *Documents) PatchOrderStatus(
	ctx context.Context, id string, s domain.OrderStatus,
) error {
	const op = "Documents.PatchOrderStatus"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	idx := d.orderIndex(id)
	if idx < 0 {
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}
	d.orders[idx].order.Status = s
	return nil
}

func (d *Documents) DeleteOrder(ctx context.Context, id string) error {
	const op = "Documents.DeleteOrder"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.orders = slices.DeleteFunc(d.orders, func(doc orderDoc) bool {
		return doc.order.ID == id
	})
	return nil
}

func (d *Documents) ListProducts(ctx context.Context) ([]domain.Product, error) {
	const op = "Documents.ListProducts"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	return slices.Clone(d.products), nil
}

func (d *Documents) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	const op = "Documents.GetProduct"

	if err := ctx.Err(); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	idx := d.productIndex(id)
	if idx < 0 {
		return domain.Product{}, fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}
	return d.products[idx], nil
}

func (d *Documents) CreateProduct(
	ctx context.Context, draft domain.ProductDraft,
) (domain.Product, error) {
	const op = "Documents.CreateProduct"

	if err := ctx.Err(); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	url, err := d.images.URL(draft.ImageRef)
	if err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	p := domain.Product{
		ID:          d.newID(),
		Title:       draft.Title,
		Description: draft.Description,
		Price:       draft.Price,
		ImageRef:    draft.ImageRef,
		ImageURL:    url,
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.products = append(d.products, p)
	return p, nil
}

func (d *Documents) UpdateProduct(
	ctx context.Context, id string, patch domain.ProductPatch,
) error {
	const op = "Documents.UpdateProduct"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if patch.ImageRef != "" && patch.ImageURL == "" {
		url, err := d.images.URL(patch.ImageRef)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		patch.ImageURL = url
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	idx := d.productIndex(id)
	if idx < 0 {
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}
	d.products[idx] = d.products[idx].Apply(patch)
	return nil
}

func (d *Documents) DeleteProduct(ctx context.Context, id string) error {
	const op = "Documents.DeleteProduct"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.products = slices.DeleteFunc(d.products, func(p domain.Product) bool {
		return p.ID == id
	})
	return nil
}

func (d *Documents) resolve(doc orderDoc) domain.Order {
	o := doc.order
	o.Cart = make([]domain.CartItem, len(doc.productIDs))
	for i, pid := range doc.productIDs {
		o.Cart[i].ProductID = pid
		if idx := d.productIndex(pid); idx >= 0 {
			o.Cart[i].Title = d.products[idx].Title
			o.Cart[i].ImageURL = d.products[idx].ImageURL
		}
	}
	return o
}

func (d *Documents) orderIndex(id string) int {
	return slices.IndexFunc(d.orders, func(doc orderDoc) bool {
		return doc.order.ID == id
	})
}

func (d *Documents) productIndex(id string) int {
	return slices.IndexFunc(d.products, func(p domain.Product) bool {
		return p.ID == id
	})
}
