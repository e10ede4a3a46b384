package view_test

import (
	"testing"

	"github.com/niksmo/shop-admin/internal/core/domain"
	"github.com/niksmo/shop-admin/internal/core/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadedProducts() *view.Products {
	v := view.NewProducts()
	v.Load([]domain.Product{
		{ID: "p1", Title: "Chair", Price: 10, ImageURL: "u1", ImageRef: "image-a-1x1-png"},
		{ID: "p2", Title: "Table", Price: 20, ImageURL: "u2", ImageRef: "image-b-1x1-png"},
		{ID: "p3", Title: "Lamp", Price: 30, ImageURL: "u3", ImageRef: "image-c-1x1-png"},
	})
	return v
}

func TestProductsApply(t *testing.T) {
	t.Run("Created", func(t *testing.T) {
		v := loadedProducts()
		v.Apply(domain.ProductCreated{Product: domain.Product{ID: "p4", Title: "Sofa"}})

		s := v.Snapshot()
		require.Len(t, s.Products, 4)
		assert.Equal(t, "p4", s.Products[3].ID)
	})

	t.Run("CreatedTwiceNoDuplicate", func(t *testing.T) {
		v := loadedProducts()
		evt := domain.ProductCreated{Product: domain.Product{ID: "p4"}}
		v.Apply(evt)
		v.Apply(evt)
		assert.Len(t, v.Snapshot().Products, 4)
	})

	t.Run("UpdatedMergesFields", func(t *testing.T) {
		v := loadedProducts()
		v.Apply(domain.ProductUpdated{
			ProductID: "p2",
			Patch: domain.ProductPatch{
				ProductFields: domain.ProductFields{
					Title: "Desk", Description: "Oak", Price: 25,
				},
			},
		})

		p, ok := v.Get("p2")
		require.True(t, ok)
		assert.Equal(t, "Desk", p.Title)
		assert.Equal(t, "Oak", p.Description)
		assert.Equal(t, 25.0, p.Price)
		assert.Equal(t, "u2", p.ImageURL)

		other, _ := v.Get("p1")
		assert.Equal(t, "Chair", other.Title)
	})

	t.Run("DeletedRemovesExactlyOne", func(t *testing.T) {
		v := loadedProducts()
		v.Apply(domain.ProductDeleted{ProductID: "p2"})

		s := v.Snapshot()
		require.Len(t, s.Products, 2)
		for _, p := range s.Products {
			assert.NotEqual(t, "p2", p.ID)
		}
	})

	t.Run("DeletedUnknownIsNoop", func(t *testing.T) {
		v := loadedProducts()
		v.Apply(domain.ProductDeleted{ProductID: "p9"})
		assert.Len(t, v.Snapshot().Products, 3)
	})
}

func TestRegistry(t *testing.T) {
	r := view.NewRegistry()
	ws := r.Workspace("t1")
	assert.Same(t, ws, r.Workspace("t1"))
	assert.NotSame(t, ws, r.Workspace("t2"))
	assert.Equal(t, 2, r.Len())

	r.Drop("t1")
	assert.Equal(t, 1, r.Len())
	assert.NotSame(t, ws, r.Workspace("t1"))
}
