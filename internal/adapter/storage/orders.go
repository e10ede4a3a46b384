package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/niksmo/shop-admin/internal/core/domain"
	"github.com/niksmo/shop-admin/internal/core/port"
)

var _ port.OrdersGateway = (*Gateway)(nil)

// Gateway keeps order and product documents in PostgreSQL.
type Gateway struct {
	sqldb  sqldb
	images port.ImageURLResolver
}

func NewGateway(sqldb sqldb, images port.ImageURLResolver) Gateway {
	return Gateway{sqldb: sqldb, images: images}
}

const selectOrders = `
	SELECT
		id, first_name, last_name, phone, email,
		street, city, province, zip, country,
		total, order_date, status
	FROM orders`

// Cart items whose product was deleted come back with NULL columns.
const selectCartItems = `
	SELECT c.order_id, c.product_id, p.title, p.image_ref
	FROM order_cart_items c
	LEFT JOIN products p ON p.id = c.product_id`

func (g Gateway) ListOrders(ctx context.Context) ([]domain.Order, error) {
	const op = "Gateway.ListOrders"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	orders, err := g.queryOrders(ctx, selectOrders+` ORDER BY order_date DESC, id;`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	carts, err := g.queryCarts(ctx, selectCartItems+` ORDER BY c.order_id, c.position;`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for i := range orders {
		orders[i].Cart = cartOrEmpty(carts[orders[i].ID])
	}
	return orders, nil
}

func (g Gateway) GetOrder(ctx context.Context, id string) (domain.Order, error) {
	const op = "Gateway.GetOrder"

	if err := ctx.Err(); err != nil {
		return domain.Order{}, fmt.Errorf("%s: %w", op, err)
	}

	orders, err := g.queryOrders(ctx, selectOrders+` WHERE id = $1;`, id)
	if err != nil {
		return domain.Order{}, fmt.Errorf("%s: %w", op, err)
	}
	if len(orders) == 0 {
		return domain.Order{}, fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}

	carts, err := g.queryCarts(
		ctx, selectCartItems+` WHERE c.order_id = $1 ORDER BY c.position;`, id,
	)
	if err != nil {
		return domain.Order{}, fmt.Errorf("%s: %w", op, err)
	}

	o := orders[0]
	o.Cart = cartOrEmpty(carts[o.ID])
	return o, nil
}

func (g Gateway) PatchOrderStatus(
	ctx context.Context, id string, s domain.OrderStatus,
) error {
	const op = "Gateway.PatchOrderStatus"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	query := `UPDATE orders SET status = $2 WHERE id = $1;`
	res, err := g.sqldb.ExecContext(ctx, query, id, string(s))
	if err != nil {
		return fmt.Errorf("%s: failed to exec: %w", op, err)
	}
	return mustAffect(op, res)
}

// DeleteOrder removes the order. Cart items are removed by cascade.
func (g Gateway) DeleteOrder(ctx context.Context, id string) error {
	const op = "Gateway.DeleteOrder"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	query := `DELETE FROM orders WHERE id = $1;`
	if _, err := g.sqldb.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("%s: failed to exec: %w", op, err)
	}
	return nil
}

func (g Gateway) queryOrders(
	ctx context.Context, query string, args ...any,
) ([]domain.Order, error) {
	const op = "Gateway.queryOrders"

	rows, err := g.sqldb.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to query: %w", op, err)
	}
	defer closeRows(op, rows)

	orders := []domain.Order{}
	for rows.Next() {
		var (
			o      domain.Order
			status sql.NullString
		)
		err := rows.Scan(
			&o.ID, &o.FirstName, &o.LastName, &o.Phone, &o.Email,
			&o.Address.Street, &o.Address.City, &o.Address.Province,
			&o.Address.Zip, &o.Address.Country,
			&o.Total, &o.OrderDate, &status,
		)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to scan: %w", op, err)
		}
		o.Status = domain.OrderStatus(status.String)
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return orders, nil
}

func (g Gateway) queryCarts(
	ctx context.Context, query string, args ...any,
) (map[string][]domain.CartItem, error) {
	const op = "Gateway.queryCarts"

	rows, err := g.sqldb.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to query: %w", op, err)
	}
	defer closeRows(op, rows)

	carts := make(map[string][]domain.CartItem)
	for rows.Next() {
		var (
			orderID  string
			item     domain.CartItem
			title    sql.NullString
			imageRef sql.NullString
		)
		err := rows.Scan(&orderID, &item.ProductID, &title, &imageRef)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to scan: %w", op, err)
		}
		item.Title = title.String
		item.ImageURL = g.imageURL(domain.AssetRef(imageRef.String))
		carts[orderID] = append(carts[orderID], item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return carts, nil
}

func (g Gateway) imageURL(ref domain.AssetRef) string {
	const op = "Gateway.imageURL"

	if ref == "" {
		return ""
	}
	url, err := g.images.URL(ref)
	if err != nil {
		slog.Warn("stored image reference is malformed", "op", op, "err", err)
		return ""
	}
	return url
}

func cartOrEmpty(items []domain.CartItem) []domain.CartItem {
	if items == nil {
		return []domain.CartItem{}
	}
	return items
}

func mustAffect(op string, res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}
	return nil
}

func closeRows(op string, rows *sql.Rows) {
	if err := rows.Close(); err != nil {
		slog.Error("failed to close rows", "op", op, "err", err)
	}
}
