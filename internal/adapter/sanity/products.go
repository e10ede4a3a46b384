package sanity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/niksmo/shop-admin/internal/core/domain"
	"github.com/niksmo/shop-admin/internal/core/port"
)

var (
	_ port.ProductsGateway = (*Client)(nil)
	_ port.AssetUploader   = (*Client)(nil)
	_ port.DocumentGateway = (*Client)(nil)
)

const productProjection = `{
  _id,
  title,
  description,
  price,
  "imageRef": productImage.asset._ref,
  "imageUrl": productImage.asset->url
}`

const (
	productsQuery = `*[_type == "product"]` + productProjection
	productQuery  = `*[_type == "product" && _id == $id][0]` + productProjection
)

type (
	productDoc struct {
		ID          string  `json:"_id"`
		Title       string  `json:"title"`
		Description string  `json:"description"`
		Price       float64 `json:"price"`
		ImageRef    string  `json:"imageRef"`
		ImageURL    string  `json:"imageUrl"`
	}

	productWrite struct {
		Type         string      `json:"_type"`
		Title        string      `json:"title"`
		Description  string      `json:"description"`
		Price        float64     `json:"price"`
		ProductImage *imageField `json:"productImage,omitempty"`
	}

	// productStored is a product document as returned by a mutation.
	productStored struct {
		ID           string      `json:"_id"`
		Title        string      `json:"title"`
		Description  string      `json:"description"`
		Price        float64     `json:"price"`
		ProductImage *imageField `json:"productImage"`
	}

	imageField struct {
		Type  string    `json:"_type"`
		Asset reference `json:"asset"`
	}

	reference struct {
		Type string `json:"_type"`
		Ref  string `json:"_ref"`
	}
)

func newImageField(ref domain.AssetRef) *imageField {
	return &imageField{
		Type:  "image",
		Asset: reference{Type: "reference", Ref: string(ref)},
	}
}

func (c *Client) productToDomain(d productDoc) domain.Product {
	p := domain.Product{
		ID:          d.ID,
		Title:       d.Title,
		Description: d.Description,
		Price:       d.Price,
		ImageRef:    domain.AssetRef(d.ImageRef),
		ImageURL:    d.ImageURL,
	}
	if p.ImageURL == "" && p.ImageRef != "" {
		p.ImageURL, _ = c.images.URL(p.ImageRef)
	}
	return p
}

func (c *Client) ListProducts(ctx context.Context) ([]domain.Product, error) {
	const op = "Client.ListProducts"

	var docs []productDoc
	if err := c.query(ctx, productsQuery, nil, &docs); err != nil {
		if errors.Is(err, ErrNullResult) {
			return []domain.Product{}, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	products := make([]domain.Product, 0, len(docs))
	for _, d := range docs {
		products = append(products, c.productToDomain(d))
	}
	return products, nil
}

func (c *Client) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	const op = "Client.GetProduct"

	var doc productDoc
	err := c.query(ctx, productQuery, map[string]string{"id": id}, &doc)
	if err != nil {
		if errors.Is(err, ErrNullResult) {
			return domain.Product{}, fmt.Errorf("%s: %w", op, domain.ErrNotFound)
		}
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}
	return c.productToDomain(doc), nil
}

func (c *Client) CreateProduct(
	ctx context.Context, draft domain.ProductDraft,
) (domain.Product, error) {
	const op = "Client.CreateProduct"

	results, err := c.mutate(ctx, mutation{Create: &productWrite{
		Type:         "product",
		Title:        draft.Title,
		Description:  draft.Description,
		Price:        draft.Price,
		ProductImage: newImageField(draft.ImageRef),
	}})
	if err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}
	if len(results) == 0 {
		return domain.Product{}, fmt.Errorf("%s: empty mutation result", op)
	}

	var stored productStored
	if err := json.Unmarshal(results[0].Document, &stored); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	doc := productDoc{
		ID:          stored.ID,
		Title:       stored.Title,
		Description: stored.Description,
		Price:       stored.Price,
	}
	if doc.ID == "" {
		doc.ID = results[0].ID
	}
	if stored.ProductImage != nil {
		doc.ImageRef = stored.ProductImage.Asset.Ref
	}
	return c.productToDomain(doc), nil
}

// UpdateProduct resends title, description and price and replaces
// the image reference only when the patch carries one.
func (c *Client) UpdateProduct(
	ctx context.Context, id string, p domain.ProductPatch,
) error {
	const op = "Client.UpdateProduct"

	set := map[string]any{
		"title":       p.Title,
		"description": p.Description,
		"price":       p.Price,
	}
	if p.ImageRef != "" {
		set["productImage"] = newImageField(p.ImageRef)
	}

	if _, err := c.mutate(ctx, mutation{Patch: &patch{ID: id, Set: set}}); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	const op = "Client.DeleteProduct"

	if _, err := c.mutate(ctx, mutation{Delete: &deleteByID{ID: id}}); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (c *Client) UploadImage(
	ctx context.Context, f domain.ImageFile,
) (domain.AssetRef, error) {
	const op = "Client.UploadImage"

	q := url.Values{}
	if f.Name != "" {
		q.Set("filename", f.Name)
	}
	u := c.baseURL + "/assets/images/" + url.PathEscape(c.dataset)
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, f.Content)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if f.ContentType != "" {
		req.Header.Set("Content-Type", f.ContentType)
	}
	if f.Size > 0 {
		req.ContentLength = f.Size
	}

	var resp struct {
		Document struct {
			ID string `json:"_id"`
		} `json:"document"`
	}
	if err := c.do(req, &resp); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	ref := domain.AssetRef(resp.Document.ID)
	if _, err := ref.Parts(); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return ref, nil
}
