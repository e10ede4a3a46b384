package httphandler

import (
	"time"

	"github.com/niksmo/shop-admin/internal/core/domain"
)

type (
	ErrorBody struct {
		Error ErrorDetail `json:"error"`
	}

	ErrorDetail struct {
		Kind    string `json:"kind"`
		Message string `json:"message"`
	}
)

type (
	LoginRequest struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	LoginResponse struct {
		Token     string    `json:"token"`
		ExpiresAt time.Time `json:"expires_at"`
	}
)

type (
	Order struct {
		ID        string     `json:"id"`
		FirstName string     `json:"first_name"`
		LastName  string     `json:"last_name"`
		Phone     string     `json:"phone"`
		Email     string     `json:"email"`
		Address   Address    `json:"address"`
		Total     float64    `json:"total"`
		OrderDate time.Time  `json:"order_date"`
		Status    *string    `json:"status"`
		Cart      []CartItem `json:"cart"`
	}

	Address struct {
		Street   string `json:"street"`
		City     string `json:"city"`
		Province string `json:"province"`
		Zip      string `json:"zip"`
		Country  string `json:"country"`
	}

	// CartItem.Image is the image URL or the placeholder text
	// when HasImage is false.
	CartItem struct {
		ProductID string `json:"product_id"`
		Title     string `json:"title"`
		Image     string `json:"image"`
		HasImage  bool   `json:"has_image"`
	}

	OrdersPage struct {
		Filter   string  `json:"filter"`
		Expanded *string `json:"expanded"`
		Orders   []Order `json:"orders"`
		Notice   string  `json:"notice,omitempty"`
	}

	ToggleResponse struct {
		Expanded *string `json:"expanded"`
	}

	StatusRequest struct {
		Status string `json:"status"`
	}
)

type (
	Product struct {
		ID          string  `json:"id"`
		Title       string  `json:"title"`
		Description string  `json:"description"`
		Price       float64 `json:"price"`
		ImageRef    string  `json:"image_ref"`
		ImageURL    string  `json:"image_url"`
	}

	ProductsPage struct {
		Products []Product `json:"products"`
		Notice   string    `json:"notice,omitempty"`
	}
)

type Landing struct {
	Service string            `json:"service"`
	Links   map[string]string `json:"links"`
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func orderFromDomain(o domain.Order) Order {
	dto := Order{
		ID:        o.ID,
		FirstName: o.FirstName,
		LastName:  o.LastName,
		Phone:     o.Phone,
		Email:     o.Email,
		Address: Address{
			Street:   o.Address.Street,
			City:     o.Address.City,
			Province: o.Address.Province,
			Zip:      o.Address.Zip,
			Country:  o.Address.Country,
		},
		Total:     o.Total,
		OrderDate: o.OrderDate,
		Status:    nullable(string(o.Status)),
		Cart:      make([]CartItem, 0, len(o.Cart)),
	}
	for _, item := range o.Cart {
		image, ok := item.Image()
		dto.Cart = append(dto.Cart, CartItem{
			ProductID: item.ProductID,
			Title:     item.Title,
			Image:     image,
			HasImage:  ok,
		})
	}
	return dto
}

func ordersFromDomain(orders []domain.Order) []Order {
	dtos := make([]Order, 0, len(orders))
	for _, o := range orders {
		dtos = append(dtos, orderFromDomain(o))
	}
	return dtos
}

func productFromDomain(p domain.Product) Product {
	return Product{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Price:       p.Price,
		ImageRef:    string(p.ImageRef),
		ImageURL:    p.ImageURL,
	}
}

func productsFromDomain(products []domain.Product) []Product {
	dtos := make([]Product, 0, len(products))
	for _, p := range products {
		dtos = append(dtos, productFromDomain(p))
	}
	return dtos
}
