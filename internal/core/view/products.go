package view

import (
	"slices"
	"sync"

	"github.com/niksmo/shop-admin/internal/core/domain"
)

type ProductsState struct {
	Loaded   bool
	Products []domain.Product
}

// Products is an operator's products list.
type Products struct {
	mu    sync.Mutex
	state ProductsState
}

func NewProducts() *Products {
	return &Products{}
}

func (v *Products) Load(products []domain.Product) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state.Loaded = true
	v.state.Products = slices.Clone(products)
}

// Apply reduces a product event into the list.
// Events of other entities are ignored.
func (v *Products) Apply(evt domain.Event) {
	v.mu.Lock()
	defer v.mu.Unlock()

	switch e := evt.(type) {
	case domain.ProductCreated:
		idx := v.index(e.Product.ID)
		if idx < 0 {
			v.state.Products = append(v.state.Products, e.Product)
			return
		}
		v.state.Products[idx] = e.Product
	case domain.ProductUpdated:
		if idx := v.index(e.ProductID); idx >= 0 {
			v.state.Products[idx] = v.state.Products[idx].Apply(e.Patch)
		}
	case domain.ProductDeleted:
		v.state.Products = slices.DeleteFunc(v.state.Products, func(p domain.Product) bool {
			return p.ID == e.ProductID
		})
	}
}

func (v *Products) Get(id string) (domain.Product, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if idx := v.index(id); idx >= 0 {
		return v.state.Products[idx], true
	}
	return domain.Product{}, false
}

func (v *Products) Snapshot() ProductsState {
	v.mu.Lock()
	defer v.mu.Unlock()
	s := v.state
	s.Products = slices.Clone(v.state.Products)
	return s
}

func (v *Products) index(id string) int {
	return slices.IndexFunc(v.state.Products, func(p domain.Product) bool {
		return p.ID == id
	})
}
