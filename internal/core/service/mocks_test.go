package service

import (
	"context"

	"github.com/niksmo/shop-admin/internal/core/domain"
	"github.com/stretchr/testify/mock"
)

type MockOrdersGateway struct {
	mock.Mock
}

func (m *MockOrdersGateway) ListOrders(ctx context.Context) ([]domain.Order, error) {
	args := m.Called(ctx)
	orders, _ := args.Get(0).([]domain.Order)
	return orders, args.Error(1)
}

func (m *MockOrdersGateway) GetOrder(ctx context.Context, id string) (domain.Order, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Order), args.Error(1)
}

func (m *MockOrdersGateway) PatchOrderStatus(
	ctx context.Context, id string, s domain.OrderStatus,
) error {
	return m.Called(ctx, id, s).Error(0)
}

func (m *MockOrdersGateway) DeleteOrder(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockProductsGateway struct {
	mock.Mock
}

func (m *MockProductsGateway) ListProducts(ctx context.Context) ([]domain.Product, error) {
	args := m.Called(ctx)
	products, _ := args.Get(0).([]domain.Product)
	return products, args.Error(1)
}

func (m *MockProductsGateway) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Product), args.Error(1)
}

func (m *MockProductsGateway) CreateProduct(
	ctx context.Context, d domain.ProductDraft,
) (domain.Product, error) {
	args := m.Called(ctx, d)
	return args.Get(0).(domain.Product), args.Error(1)
}

func (m *MockProductsGateway) UpdateProduct(
	ctx context.Context, id string, p domain.ProductPatch,
) error {
	return m.Called(ctx, id, p).Error(0)
}

func (m *MockProductsGateway) DeleteProduct(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockAssetUploader struct {
	mock.Mock
}

func (m *MockAssetUploader) UploadImage(
	ctx context.Context, f domain.ImageFile,
) (domain.AssetRef, error) {
	args := m.Called(ctx, f)
	return args.Get(0).(domain.AssetRef), args.Error(1)
}

type MockEventsProducer struct {
	mock.Mock
}

func (m *MockEventsProducer) ProduceEvent(ctx context.Context, evt domain.Event) error {
	return m.Called(ctx, evt).Error(0)
}

type MockCredentialVerifier struct {
	mock.Mock
}

func (m *MockCredentialVerifier) Verify(ctx context.Context, email, password string) error {
	return m.Called(ctx, email, password).Error(0)
}

type MockSessionStore struct {
	mock.Mock
}

func (m *MockSessionStore) Save(ctx context.Context, s domain.Session) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockSessionStore) Load(ctx context.Context, token string) (domain.Session, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(domain.Session), args.Error(1)
}

func (m *MockSessionStore) Delete(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

// stalledEvents holds every event until release is closed and
// records the state of the publish context at that moment.
type stalledEvents struct {
	release chan struct{}
	ctxErr  error
}

func newStalledEvents() *stalledEvents {
	return &stalledEvents{release: make(chan struct{})}
}

func (e *stalledEvents) ProduceEvent(ctx context.Context, _ domain.Event) error {
	<-e.release
	e.ctxErr = ctx.Err()
	return nil
}
