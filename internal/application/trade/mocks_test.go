package trade

import (
	"context"
	"time"

	"github.com/drobe/backend/internal/domain/catalog"
	"github.com/drobe/backend/internal/domain/shared"
	"github.com/drobe/backend/internal/domain/trade"
	"github.com/drobe/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

var _ MetricsRecorder = (*telemetry.BusinessMetrics)(nil)

// MockCartRepository is a mock implementation of CartRepository
type MockCartRepository struct {
	mock.Mock
}

func (m *MockCartRepository) FindByOwner(ctx context.Context, owner trade.CartOwner) (*trade.Cart, error) {
	args := m.Called(ctx, owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.Cart), args.Error(1)
}

func (m *MockCartRepository) FindByOwnerForUpdate(ctx context.Context, owner trade.CartOwner) (*trade.Cart, error) {
	args := m.Called(ctx, owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.Cart), args.Error(1)
}

func (m *MockCartRepository) FindItemCartID(ctx context.Context, itemID uuid.UUID) (uuid.UUID, error) {
	args := m.Called(ctx, itemID)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockCartRepository) Save(ctx context.Context, cart *trade.Cart) error {
	args := m.Called(ctx, cart)
	return args.Error(0)
}

func (m *MockCartRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCartRepository) DeleteByCustomer(ctx context.Context, customerID uuid.UUID) (int64, error) {
	args := m.Called(ctx, customerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCartRepository) DeleteAnonymousIdleSince(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

// MockOrderRepository is a mock implementation of OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]trade.Order, error) {
	args := m.Called(ctx, customerID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]trade.Order), args.Error(1)
}

func (m *MockOrderRepository) CountByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, customerID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) Create(ctx context.Context, order *trade.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) UpdateState(ctx context.Context, order *trade.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) DeleteByCustomer(ctx context.Context, customerID uuid.UUID) (int64, error) {
	args := m.Called(ctx, customerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) DeleteAbandoned(ctx context.Context, status trade.OrderStatus, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, status, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

// MockSavedItemRepository is a mock implementation of SavedItemRepository
type MockSavedItemRepository struct {
	mock.Mock
}

func (m *MockSavedItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.SavedItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.SavedItem), args.Error(1)
}

func (m *MockSavedItemRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID) ([]trade.SavedItem, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]trade.SavedItem), args.Error(1)
}

func (m *MockSavedItemRepository) FindByCustomerAndTarget(ctx context.Context, customerID uuid.UUID, target trade.LineTarget) (*trade.SavedItem, error) {
	args := m.Called(ctx, customerID, target)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.SavedItem), args.Error(1)
}

func (m *MockSavedItemRepository) Save(ctx context.Context, item *trade.SavedItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockSavedItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSavedItemRepository) DeleteByCustomer(ctx context.Context, customerID uuid.UUID) (int64, error) {
	args := m.Called(ctx, customerID)
	return args.Get(0).(int64), args.Error(1)
}

// MockProductRepository is a mock implementation of ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindVariantByID(ctx context.Context, variantID uuid.UUID) (*catalog.Product, *catalog.ProductVariant, error) {
	args := m.Called(ctx, variantID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*catalog.Product), args.Get(1).(*catalog.ProductVariant), args.Error(2)
}

func (m *MockProductRepository) List(ctx context.Context, filter catalog.ProductFilter) ([]catalog.Product, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]catalog.Product), args.Get(1).(int64), args.Error(2)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockDiscountRepository is a mock implementation of DiscountRepository
type MockDiscountRepository struct {
	mock.Mock
}

func (m *MockDiscountRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Discount, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Discount), args.Error(1)
}

func (m *MockDiscountRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Discount, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Discount), args.Error(1)
}

func (m *MockDiscountRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDiscountRepository) FindActiveOn(ctx context.Context, asOf time.Time) ([]catalog.Discount, error) {
	args := m.Called(ctx, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Discount), args.Error(1)
}

func (m *MockDiscountRepository) Save(ctx context.Context, discount *catalog.Discount) error {
	args := m.Called(ctx, discount)
	return args.Error(0)
}

func (m *MockDiscountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockReviewRepository is a mock implementation of ReviewRepository
type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.ProductReview, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.ProductReview), args.Error(1)
}

func (m *MockReviewRepository) FindApprovedByProduct(ctx context.Context, productID uuid.UUID) ([]catalog.ProductReview, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.ProductReview), args.Error(1)
}

func (m *MockReviewRepository) Exists(ctx context.Context, productID, customerID uuid.UUID, variantID *uuid.UUID) (bool, error) {
	args := m.Called(ctx, productID, customerID, variantID)
	return args.Bool(0), args.Error(1)
}

func (m *MockReviewRepository) Save(ctx context.Context, review *catalog.ProductReview) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *MockReviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockReviewRepository) DeleteByCustomer(ctx context.Context, customerID uuid.UUID) (int64, error) {
	args := m.Called(ctx, customerID)
	return args.Get(0).(int64), args.Error(1)
}

// MockIdempotencyStore is a mock implementation of IdempotencyStore
type MockIdempotencyStore struct {
	mock.Mock
}

func (m *MockIdempotencyStore) MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdempotencyStore) IsProcessed(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdempotencyStore) Forget(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockIdempotencyStore) Close() error {
	return m.Called().Error(0)
}

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

// staticDiscounts is a DiscountSource returning a fixed list
type staticDiscounts []catalog.Discount

func (s staticDiscounts) ActiveDiscounts(context.Context, time.Time) ([]catalog.Discount, error) {
	return s, nil
}

// testRepos bundles the mocks behind a NoOpTransactionScope
type testRepos struct {
	carts     *MockCartRepository
	orders    *MockOrderRepository
	saved     *MockSavedItemRepository
	products  *MockProductRepository
	discounts *MockDiscountRepository
	reviews   *MockReviewRepository
	scope     *NoOpTransactionScope
}

func newTestRepos() *testRepos {
	r := &testRepos{
		carts:     new(MockCartRepository),
		orders:    new(MockOrderRepository),
		saved:     new(MockSavedItemRepository),
		products:  new(MockProductRepository),
		discounts: new(MockDiscountRepository),
		reviews:   new(MockReviewRepository),
	}
	r.scope = NewNoOpTransactionScope(r.carts, r.orders, r.saved, r.products, r.discounts, r.reviews)
	return r
}

// pinnedNow is the clock every service test runs at
var pinnedNow = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

func testClock() shared.Clock {
	return shared.FixedClock{At: pinnedNow}
}

func newTestProduct(name string, price string) *catalog.Product {
	p, err := catalog.NewProduct(name, catalog.CategoryMens, uuid.New(), decimal.RequireFromString(price))
	if err != nil {
		panic(err)
	}
	p.DiscardEvents()
	return p
}

func newCustomerCart(customerID uuid.UUID) *trade.Cart {
	owner, _ := trade.CustomerOwner(customerID)
	cart, _ := trade.NewCart(owner)
	return cart
}

func newSessionCart(key string) *trade.Cart {
	owner, _ := trade.SessionOwner(key)
	cart, _ := trade.NewCart(owner)
	return cart
}

func customerOwner(customerID uuid.UUID) trade.CartOwner {
	owner, _ := trade.CustomerOwner(customerID)
	return owner
}

func sessionOwner(key string) trade.CartOwner {
	owner, _ := trade.SessionOwner(key)
	return owner
}
