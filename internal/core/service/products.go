package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/niksmo/shop-admin/internal/core/domain"
	"github.com/niksmo/shop-admin/internal/core/port"
)

var _ port.ProductsManager = (*Products)(nil)

type Products struct {
	gateway  port.ProductsGateway
	assets   port.AssetUploader
	images   port.ImageURLResolver
	events   publisher
	validate *validator.Validate
	now      func() time.Time
}

func NewProducts(
	gateway port.ProductsGateway,
	assets port.AssetUploader,
	images port.ImageURLResolver,
	events port.EventsProducer,
) Products {
	return Products{
		gateway:  gateway,
		assets:   assets,
		images:   images,
		events:   newPublisher(events),
		validate: validator.New(validator.WithRequiredStructEnabled()),
		now:      utcNow,
	}
}

func (s Products) ListProducts(ctx context.Context) ([]domain.Product, error) {
	const op = "Products.ListProducts"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	products, err := s.gateway.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, domain.ErrFetch, err)
	}
	return products, nil
}

func (s Products) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	const op = "Products.GetProduct"

	if err := ctx.Err(); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	p, err := s.gateway.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Product{}, fmt.Errorf("%s: %w", op, err)
		}
		return domain.Product{}, fmt.Errorf("%s: %w: %w", op, domain.ErrFetch, err)
	}
	return p, nil
}

// AddProduct uploads the image and then creates the product document.
//
// When the document can not be created the uploaded asset stays orphaned.
func (s Products) AddProduct(
	ctx context.Context, np domain.NewProduct,
) (domain.ProductCreated, error) {
	const op = "Products.AddProduct"
	log := slog.With("op", op)

	if err := ctx.Err(); err != nil {
		return domain.ProductCreated{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.validate.Struct(np); err != nil {
		return domain.ProductCreated{}, fmt.Errorf("%s: %w", op, domain.ErrValidation)
	}

	price, err := parsePrice(np.Price)
	if err != nil {
		return domain.ProductCreated{}, fmt.Errorf("%s: %w", op, err)
	}

	ref, err := s.assets.UploadImage(ctx, *np.Image)
	if err != nil {
		return domain.ProductCreated{}, fmt.Errorf(
			"%s: %w: %w", op, domain.ErrUpload, err,
		)
	}

	draft := domain.ProductDraft{
		ProductFields: domain.ProductFields{
			Title:       np.Title,
			Description: np.Description,
			Price:       price,
		},
		ImageRef: ref,
	}

	p, err := s.gateway.CreateProduct(ctx, draft)
	if err != nil {
		log.Warn("uploaded image is orphaned", "imageRef", ref)
		return domain.ProductCreated{}, fmt.Errorf(
			"%s: %w: %w", op, domain.ErrCreate, err,
		)
	}

	if p.ImageRef == "" {
		p.ImageRef = ref
	}
	p.ImageURL = s.imageURL(p.ImageRef)

	evt := domain.ProductCreated{Product: p, At: s.now()}
	s.events.publish(ctx, evt)
	return evt, nil
}

// EditProduct resends title, description and price.
// The image is uploaded and replaced only if a new file was provided.
func (s Products) EditProduct(
	ctx context.Context, id string, e domain.ProductEdit,
) (domain.ProductUpdated, error) {
	const op = "Products.EditProduct"

	if err := ctx.Err(); err != nil {
		return domain.ProductUpdated{}, fmt.Errorf("%s: %w", op, err)
	}

	price, err := parsePrice(e.Price)
	if err != nil {
		return domain.ProductUpdated{}, fmt.Errorf("%s: %w", op, err)
	}

	patch := domain.ProductPatch{
		ProductFields: domain.ProductFields{
			Title:       e.Title,
			Description: e.Description,
			Price:       price,
		},
	}

	if e.Image != nil {
		ref, err := s.assets.UploadImage(ctx, *e.Image)
		if err != nil {
			return domain.ProductUpdated{}, fmt.Errorf(
				"%s: %w: %w", op, domain.ErrUpload, err,
			)
		}
		patch.ImageRef = ref
		patch.ImageURL = s.imageURL(ref)
	}

	if err := s.gateway.UpdateProduct(ctx, id, patch); err != nil {
		return domain.ProductUpdated{}, fmt.Errorf(
			"%s: %w: %w", op, domain.ErrUpdate, err,
		)
	}

	evt := domain.ProductUpdated{ProductID: id, Patch: patch, At: s.now()}
	s.events.publish(ctx, evt)
	return evt, nil
}

func (s Products) DeleteProduct(
	ctx context.Context, id string, confirmed bool,
) (domain.ProductDeleted, error) {
	const op = "Products.DeleteProduct"

	if err := ctx.Err(); err != nil {
		return domain.ProductDeleted{}, fmt.Errorf("%s: %w", op, err)
	}

	if !confirmed {
		return domain.ProductDeleted{}, fmt.Errorf("%s: %w", op, domain.ErrNotConfirmed)
	}

	if err := s.gateway.DeleteProduct(ctx, id); err != nil {
		return domain.ProductDeleted{}, fmt.Errorf(
			"%s: %w: %w", op, domain.ErrDelete, err,
		)
	}

	evt := domain.ProductDeleted{ProductID: id, At: s.now()}
	s.events.publish(ctx, evt)
	return evt, nil
}

func (s Products) imageURL(ref domain.AssetRef) string {
	const op = "Products.imageURL"

	url, err := s.images.URL(ref)
	if err != nil {
		slog.Warn("failed to derive image url", "op", op, "err", err)
		return ""
	}
	return url
}

func parsePrice(raw string) (float64, error) {
	price, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, domain.ErrInvalidPrice
	}
	return price, nil
}

// Wait blocks until the events of finished mutations are published
// or have failed.
func (s Products) Wait() {
	s.events.wait()
}
