package port

import (
	"context"

	"github.com/niksmo/shop-admin/internal/core/domain"
)

type OrdersGateway interface {
	ListOrders(context.Context) ([]domain.Order, error)
	GetOrder(ctx context.Context, id string) (domain.Order, error)
	PatchOrderStatus(ctx context.Context, id string, s domain.OrderStatus) error
	DeleteOrder(ctx context.Context, id string) error
}

type ProductsGateway interface {
	ListProducts(context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, id string) (domain.Product, error)
	CreateProduct(context.Context, domain.ProductDraft) (domain.Product, error)
	UpdateProduct(ctx context.Context, id string, p domain.ProductPatch) error
	DeleteProduct(ctx context.Context, id string) error
}

type AssetUploader interface {
	UploadImage(context.Context, domain.ImageFile) (domain.AssetRef, error)
}

// A DocumentGateway is the remote document store and asset service.
type DocumentGateway interface {
	OrdersGateway
	ProductsGateway
	AssetUploader
}

type ImageURLResolver interface {
	URL(domain.AssetRef) (string, error)
}

type EventsProducer interface {
	ProduceEvent(context.Context, domain.Event) error
}

type CredentialVerifier interface {
	Verify(ctx context.Context, email, password string) error
}

type SessionStore interface {
	Save(context.Context, domain.Session) error
	Load(ctx context.Context, token string) (domain.Session, error)
	Delete(ctx context.Context, token string) error
}

type SessionJanitor interface {
	Run(context.Context)
}

type OrdersManager interface {
	ListOrders(context.Context) ([]domain.Order, error)
	GetOrder(ctx context.Context, id string) (domain.Order, error)
	SetOrderStatus(
		ctx context.Context, id string, s domain.OrderStatus,
	) (domain.OrderStatusChanged, error)
	DeleteOrder(
		ctx context.Context, id string, confirmed bool,
	) (domain.OrderDeleted, error)
}

type ProductsManager interface {
	ListProducts(context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, id string) (domain.Product, error)
	AddProduct(context.Context, domain.NewProduct) (domain.ProductCreated, error)
	EditProduct(
		ctx context.Context, id string, e domain.ProductEdit,
	) (domain.ProductUpdated, error)
	DeleteProduct(
		ctx context.Context, id string, confirmed bool,
	) (domain.ProductDeleted, error)
}

type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (domain.Session, error)
	Authorize(ctx context.Context, token string) (domain.Session, error)
	Logout(ctx context.Context, token string) error
}
