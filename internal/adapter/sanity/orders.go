package sanity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/niksmo/shop-admin/internal/core/domain"
	"github.com/niksmo/shop-admin/internal/core/port"
)

var _ port.OrdersGateway = (*Client)(nil)

const orderProjection = `{
  _id,
  firstName,
  lastName,
  email,
  phone,
  street,
  city,
  province,
  zip,
  country,
  orderDate,
  status,
  total,
  cart[]->{
    _id,
    title,
    "imageUrl": productImage.asset->url
  }
}`

const (
	ordersQuery = `*[_type == "order"]` + orderProjection
	orderQuery  = `*[_type == "order" && _id == $id][0]` + orderProjection
)

type (
	orderDoc struct {
		ID        string     `json:"_id"`
		FirstName string     `json:"firstName"`
		LastName  string     `json:"lastName"`
		Email     string     `json:"email"`
		Phone     string     `json:"phone"`
		Street    string     `json:"street"`
		City      string     `json:"city"`
		Province  string     `json:"province"`
		Zip       string     `json:"zip"`
		Country   string     `json:"country"`
		OrderDate string     `json:"orderDate"`
		Status    *string    `json:"status"`
		Total     float64    `json:"total"`
		Cart      []*cartDoc `json:"cart"`
	}

	// cartDoc is nil when the referenced product was deleted.
	cartDoc struct {
		ID       string `json:"_id"`
		Title    string `json:"title"`
		ImageURL string `json:"imageUrl"`
	}
)

func (d orderDoc) toDomain() domain.Order {
	o := domain.Order{
		ID:        d.ID,
		FirstName: d.FirstName,
		LastName:  d.LastName,
		Phone:     d.Phone,
		Email:     d.Email,
		Address: domain.Address{
			Street:   d.Street,
			City:     d.City,
			Province: d.Province,
			Zip:      d.Zip,
			Country:  d.Country,
		},
		Total:     d.Total,
		OrderDate: parseDate(d.OrderDate),
		Cart:      make([]domain.CartItem, 0, len(d.Cart)),
	}
	if d.Status != nil {
		o.Status = domain.OrderStatus(*d.Status)
	}
	for _, item := range d.Cart {
		if item == nil {
			o.Cart = append(o.Cart, domain.CartItem{})
			continue
		}
		o.Cart = append(o.Cart, domain.CartItem{
			ProductID: item.ID,
			Title:     item.Title,
			ImageURL:  item.ImageURL,
		})
	}
	return o
}

func (c *Client) ListOrders(ctx context.Context) ([]domain.Order, error) {
	const op = "Client.ListOrders"

	var docs []orderDoc
	if err := c.query(ctx, ordersQuery, nil, &docs); err != nil {
		if errors.Is(err, ErrNullResult) {
			return []domain.Order{}, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	orders := make([]domain.Order, 0, len(docs))
	for _, d := range docs {
		orders = append(orders, d.toDomain())
	}
	return orders, nil
}

func (c *Client) GetOrder(ctx context.Context, id string) (domain.Order, error) {
	const op = "Client.GetOrder"

	var doc orderDoc
	err := c.query(ctx, orderQuery, map[string]string{"id": id}, &doc)
	if err != nil {
		if errors.Is(err, ErrNullResult) {
			return domain.Order{}, fmt.Errorf("%s: %w", op, domain.ErrNotFound)
		}
		return domain.Order{}, fmt.Errorf("%s: %w", op, err)
	}
	return doc.toDomain(), nil
}

// PatchOrderStatus sets only the status field of the order document.
func (c *Client) PatchOrderStatus(
	ctx context.Context, id string, s domain.OrderStatus,
) error {
	const op = "Client.PatchOrderStatus"

	_, err := c.mutate(ctx, mutation{
		Patch: &patch{ID: id, Set: map[string]any{"status": string(s)}},
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (c *Client) DeleteOrder(ctx context.Context, id string) error {
	const op = "Client.DeleteOrder"

	if _, err := c.mutate(ctx, mutation{Delete: &deleteByID{ID: id}}); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func parseDate(s string) time.Time {
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
