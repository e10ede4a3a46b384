package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/niksmo/shop-admin/internal/core/domain"
	"github.com/niksmo/shop-admin/internal/core/port"
)

var _ port.ProductsGateway = (*Gateway)(nil)

const selectProducts = `
	SELECT id, title, description, price, image_ref
	FROM products`

func (g Gateway) ListProducts(ctx context.Context) ([]domain.Product, error) {
	const op = "Gateway.ListProducts"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := g.sqldb.QueryContext(ctx, selectProducts+` ORDER BY created_at, id;`)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to query: %w", op, err)
	}
	defer closeRows(op, rows)

	products := []domain.Product{}
	for rows.Next() {
		p, err := g.scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return products, nil
}

func (g Gateway) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	const op = "Gateway.GetProduct"

	if err := ctx.Err(); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	row := g.sqldb.QueryRowContext(ctx, selectProducts+` WHERE id = $1;`, id)
	p, err := g.scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Product{}, fmt.Errorf("%s: %w", op, domain.ErrNotFound)
		}
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

func (g Gateway) CreateProduct(
	ctx context.Context, draft domain.ProductDraft,
) (domain.Product, error) {
	const op = "Gateway.CreateProduct"

	if err := ctx.Err(); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	query := `
		INSERT INTO products (title, description, price, image_ref)
		VALUES ($1, $2, $3, $4)
		RETURNING id;`

	p := domain.Product{
		Title:       draft.Title,
		Description: draft.Description,
		Price:       draft.Price,
		ImageRef:    draft.ImageRef,
	}
	err := g.sqldb.QueryRowContext(
		ctx, query, p.Title, p.Description, p.Price, string(p.ImageRef),
	).Scan(&p.ID)
	if err != nil {
		return domain.Product{}, fmt.Errorf("%s: failed to insert: %w", op, err)
	}
	p.ImageURL = g.imageURL(p.ImageRef)
	return p, nil
}

// UpdateProduct keeps the stored image reference when the patch has none.
func (g Gateway) UpdateProduct(
	ctx context.Context, id string, p domain.ProductPatch,
) error {
	const op = "Gateway.UpdateProduct"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	query := `
		UPDATE products SET
			title = $2,
			description = $3,
			price = $4,
			image_ref = COALESCE(NULLIF($5, ''), image_ref),
			updated_at = now()
		WHERE id = $1;`

	res, err := g.sqldb.ExecContext(
		ctx, query, id, p.Title, p.Description, p.Price, string(p.ImageRef),
	)
	if err != nil {
		return fmt.Errorf("%s: failed to exec: %w", op, err)
	}
	return mustAffect(op, res)
}

func (g Gateway) DeleteProduct(ctx context.Context, id string) error {
	const op = "Gateway.DeleteProduct"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	query := `DELETE FROM products WHERE id = $1;`
	if _, err := g.sqldb.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("%s: failed to exec: %w", op, err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func (g Gateway) scanProduct(s scanner) (domain.Product, error) {
	var (
		p        domain.Product
		imageRef sql.NullString
	)
	if err := s.Scan(&p.ID, &p.Title, &p.Description, &p.Price, &imageRef); err != nil {
		return domain.Product{}, err
	}
	p.ImageRef = domain.AssetRef(imageRef.String)
	p.ImageURL = g.imageURL(p.ImageRef)
	return p, nil
}
