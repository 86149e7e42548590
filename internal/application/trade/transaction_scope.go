package trade

import (
	"context"

	"github.com/drobe/backend/internal/domain/catalog"
	"github.com/drobe/backend/internal/domain/trade"
)

// TransactionScope provides transactional access to the shop repositories.
// Every repository handed to fn shares one database transaction, which is
// committed when fn returns nil and rolled back otherwise.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to all repositories within a transaction.
//
// Cart mutations must load the cart through CartRepo().FindByOwnerForUpdate so
// concurrent requests of the same owner serialize on the cart row. Catalog
// reads made while pricing a checkout go through ProductRepo and DiscountRepo
// so the frozen prices come from the same snapshot that is committed.
type TransactionalRepositories interface {
	CartRepo() trade.CartRepository
	OrderRepo() trade.OrderRepository
	SavedItemRepo() trade.SavedItemRepository
	ProductRepo() catalog.ProductRepository
	DiscountRepo() catalog.DiscountRepository
	ReviewRepo() catalog.ReviewRepository
}

// NoOpTransactionScope runs fn against plain repositories without a transaction.
// Unit tests use it with mocks.
type NoOpTransactionScope struct {
	cartRepo      trade.CartRepository
	orderRepo     trade.OrderRepository
	savedItemRepo trade.SavedItemRepository
	productRepo   catalog.ProductRepository
	discountRepo  catalog.DiscountRepository
	reviewRepo    catalog.ReviewRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	cartRepo trade.CartRepository,
	orderRepo trade.OrderRepository,
	savedItemRepo trade.SavedItemRepository,
	productRepo catalog.ProductRepository,
	discountRepo catalog.DiscountRepository,
	reviewRepo catalog.ReviewRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		cartRepo:      cartRepo,
		orderRepo:     orderRepo,
		savedItemRepo: savedItemRepo,
		productRepo:   productRepo,
		discountRepo:  discountRepo,
		reviewRepo:    reviewRepo,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

func (s *NoOpTransactionScope) CartRepo() trade.CartRepository           { return s.cartRepo }
func (s *NoOpTransactionScope) OrderRepo() trade.OrderRepository         { return s.orderRepo }
func (s *NoOpTransactionScope) SavedItemRepo() trade.SavedItemRepository { return s.savedItemRepo }
func (s *NoOpTransactionScope) ProductRepo() catalog.ProductRepository   { return s.productRepo }
func (s *NoOpTransactionScope) DiscountRepo() catalog.DiscountRepository { return s.discountRepo }
func (s *NoOpTransactionScope) ReviewRepo() catalog.ReviewRepository     { return s.reviewRepo }

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
