package storage

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/niksmo/shop-admin/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testImages = domain.ImageURLBuilder{BaseURL: "http://localhost/assets"}

func newTestGateway(t *testing.T) (Gateway, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return NewGateway(db, testImages), mock
}

var orderColumns = []string{
	"id", "first_name", "last_name", "phone", "email",
	"street", "city", "province", "zip", "country",
	"total", "order_date", "status",
}

func TestListOrders(t *testing.T) {
	g, mock := newTestGateway(t)
	date := time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`FROM orders ORDER BY order_date DESC`).WillReturnRows(
		sqlmock.NewRows(orderColumns).
			AddRow("o1", "Ann", "Lee", "1", "a@b.c", "Main", "Lahore", "PB", "54000", "PK", 10.5, date, "pending").
			AddRow("o2", "Bob", "Ray", "2", "b@b.c", "", "", "", "", "", 3.0, date, nil),
	)
	mock.ExpectQuery(`FROM order_cart_items c\s+LEFT JOIN products p`).WillReturnRows(
		sqlmock.NewRows([]string{"order_id", "product_id", "title", "image_ref"}).
			AddRow("o1", "p1", "Chair", "image-abc-10x20-png").
			AddRow("o1", "p9", nil, nil),
	)

	orders, err := g.ListOrders(t.Context())
	require.NoError(t, err)
	require.Len(t, orders, 2)

	o1 := orders[0]
	assert.Equal(t, domain.StatusPending, o1.Status)
	assert.Equal(t, "Lahore", o1.Address.City)
	assert.Equal(t, date, o1.OrderDate)
	require.Len(t, o1.Cart, 2)
	assert.Equal(t, domain.CartItem{
		ProductID: "p1", Title: "Chair", ImageURL: "http://localhost/assets/abc-10x20.png",
	}, o1.Cart[0])
	assert.Equal(t, domain.CartItem{ProductID: "p9"}, o1.Cart[1])

	assert.Equal(t, domain.StatusUnset, orders[1].Status)
	assert.NotNil(t, orders[1].Cart)
	assert.Empty(t, orders[1].Cart)
}

func TestListOrdersFailure(t *testing.T) {
	g, mock := newTestGateway(t)
	mock.ExpectQuery(`FROM orders`).WillReturnError(errors.New("connection refused"))

	_, err := g.ListOrders(t.Context())
	assert.ErrorContains(t, err, "connection refused")
}

func TestGetOrder(t *testing.T) {
	t.Run("Found", func(t *testing.T) {
		g, mock := newTestGateway(t)
		mock.ExpectQuery(`FROM orders WHERE id = \$1`).WithArgs("o1").WillReturnRows(
			sqlmock.NewRows(orderColumns).
				AddRow("o1", "", "", "", "", "", "", "", "", "", 1.0, time.Now(), "success"),
		)
		mock.ExpectQuery(`WHERE c.order_id = \$1`).WithArgs("o1").WillReturnRows(
			sqlmock.NewRows([]string{"order_id", "product_id", "title", "image_ref"}),
		)

		o, err := g.GetOrder(t.Context(), "o1")
		require.NoError(t, err)
		assert.Equal(t, domain.StatusSuccess, o.Status)
		assert.Empty(t, o.Cart)
	})

	t.Run("NotFound", func(t *testing.T) {
		g, mock := newTestGateway(t)
		mock.ExpectQuery(`FROM orders WHERE id = \$1`).WithArgs("o1").
			WillReturnRows(sqlmock.NewRows(orderColumns))

		_, err := g.GetOrder(t.Context(), "o1")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestPatchOrderStatus(t *testing.T) {
	g, mock := newTestGateway(t)
	mock.ExpectExec(`UPDATE orders SET status = \$2 WHERE id = \$1`).
		WithArgs("o1", "dispatch").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE orders`).
		WithArgs("missing", "dispatch").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, g.PatchOrderStatus(t.Context(), "o1", domain.StatusDispatch))
	err := g.PatchOrderStatus(t.Context(), "missing", domain.StatusDispatch)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteOrder(t *testing.T) {
	g, mock := newTestGateway(t)
	mock.ExpectExec(`DELETE FROM orders WHERE id = \$1`).
		WithArgs("o1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, g.DeleteOrder(t.Context(), "o1"))
}

func TestProducts(t *testing.T) {
	productColumns := []string{"id", "title", "description", "price", "image_ref"}

	t.Run("List", func(t *testing.T) {
		g, mock := newTestGateway(t)
		mock.ExpectQuery(`FROM products ORDER BY created_at`).WillReturnRows(
			sqlmock.NewRows(productColumns).
				AddRow("p1", "Chair", "oak", 10.0, "image-abc-10x20-png").
				AddRow("p2", "Lamp", "", 5.0, nil),
		)

		products, err := g.ListProducts(t.Context())
		require.NoError(t, err)
		require.Len(t, products, 2)
		assert.Equal(t, "http://localhost/assets/abc-10x20.png", products[0].ImageURL)
		assert.Empty(t, products[1].ImageURL)
	})

	t.Run("GetNotFound", func(t *testing.T) {
		g, mock := newTestGateway(t)
		mock.ExpectQuery(`FROM products WHERE id = \$1`).WithArgs("p1").
			WillReturnError(sql.ErrNoRows)

		_, err := g.GetProduct(t.Context(), "p1")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("Create", func(t *testing.T) {
		g, mock := newTestGateway(t)
		mock.ExpectQuery(`INSERT INTO products`).
			WithArgs("Chair", "oak", 10.0, "image-abc-10x20-png").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("p1"))

		p, err := g.CreateProduct(t.Context(), domain.ProductDraft{
			ProductFields: domain.ProductFields{Title: "Chair", Description: "oak", Price: 10},
			ImageRef:      "image-abc-10x20-png",
		})
		require.NoError(t, err)
		assert.Equal(t, "p1", p.ID)
		assert.Equal(t, "http://localhost/assets/abc-10x20.png", p.ImageURL)
	})

	t.Run("Update", func(t *testing.T) {
		g, mock := newTestGateway(t)
		mock.ExpectExec(`UPDATE products SET`).
			WithArgs("p1", "T", "D", 2.0, "").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE products SET`).
			WithArgs("p2", "T", "D", 2.0, "").
			WillReturnResult(sqlmock.NewResult(0, 0))

		fields := domain.ProductFields{Title: "T", Description: "D", Price: 2}
		require.NoError(t, g.UpdateProduct(t.Context(), "p1", domain.ProductPatch{ProductFields: fields}))
		err := g.UpdateProduct(t.Context(), "p2", domain.ProductPatch{ProductFields: fields})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		g, mock := newTestGateway(t)
		mock.ExpectExec(`DELETE FROM products WHERE id = \$1`).
			WithArgs("p1").
			WillReturnResult(sqlmock.NewResult(0, 0))

		require.NoError(t, g.DeleteProduct(t.Context(), "p1"))
	})
}
