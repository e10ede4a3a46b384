package domain

import "io"

type (
	Product struct {
		ID          string
		Title       string
		Description string
		Price       float64
		ImageRef    AssetRef
		ImageURL    string
	}

	// ProductFields are always resent on product update.
	ProductFields struct {
		Title       string
		Description string
		Price       float64
	}

	// ProductDraft is a product document ready to be created.
	ProductDraft struct {
		ProductFields
		ImageRef AssetRef
	}

	// ProductPatch is an update of an existing product document.
	// Zero ImageRef leaves the stored image untouched.
	ProductPatch struct {
		ProductFields
		ImageRef AssetRef
		ImageURL string
	}

	ImageFile struct {
		Name        string
		ContentType string
		Size        int64
		Content     io.Reader `validate:"required"`
	}
)

// Apply merges the patch into p.
func (p Product) Apply(patch ProductPatch) Product {
	p.Title = patch.Title
	p.Description = patch.Description
	p.Price = patch.Price
	if patch.ImageRef != "" {
		p.ImageRef = patch.ImageRef
		p.ImageURL = patch.ImageURL
	}
	return p
}

type (
	// NewProduct is the operator input for a product to be added.
	NewProduct struct {
		Title       string     `validate:"required"`
		Description string     `validate:"required"`
		Price       string     `validate:"required"`
		Image       *ImageFile `validate:"required"`
	}

	// ProductEdit is the operator input for a product update.
	// Nil Image keeps the current image.
	ProductEdit struct {
		Title       string
		Description string
		Price       string
		Image       *ImageFile
	}
)
