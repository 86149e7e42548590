package trade

import (
	"context"
	"time"

	"github.com/drobe/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SessionRevoker invalidates the tokens already issued to a customer
type SessionRevoker interface {
	RevokeCustomer(ctx context.Context, customerID string, ttl time.Duration) error
}

// CustomerDataService erases everything the shop stores about a customer
type CustomerDataService struct {
	scope     TransactionScope
	revoker   SessionRevoker
	revokeTTL time.Duration
	logger    *zap.Logger
}

// NewCustomerDataService creates a new CustomerDataService
func NewCustomerDataService(scope TransactionScope, logger *zap.Logger) *CustomerDataService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CustomerDataService{scope: scope, logger: logger}
}

// SetSessionRevoker makes Erase also revoke the customer's tokens. ttl should
// cover the longest token lifetime.
func (s *CustomerDataService) SetSessionRevoker(revoker SessionRevoker, ttl time.Duration) {
	s.revoker = revoker
	s.revokeTTL = ttl
}

// Erase deletes the customer's cart, orders with their items, wishlist and
// reviews in one transaction
func (s *CustomerDataService) Erase(ctx context.Context, customerID uuid.UUID) (*ErasureResult, error) {
	if customerID == uuid.Nil {
		return nil, shared.NewValidationError("Customer ID cannot be empty")
	}

	result := &ErasureResult{CustomerID: customerID}
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		if result.CartsDeleted, err = repos.CartRepo().DeleteByCustomer(ctx, customerID); err != nil {
			return err
		}
		if result.OrdersDeleted, err = repos.OrderRepo().DeleteByCustomer(ctx, customerID); err != nil {
			return err
		}
		if result.SavedItemsDeleted, err = repos.SavedItemRepo().DeleteByCustomer(ctx, customerID); err != nil {
			return err
		}
		result.ReviewsDeleted, err = repos.ReviewRepo().DeleteByCustomer(ctx, customerID)
		return err
	})
	if err != nil {
		return nil, err
	}

	// The data is already gone; a failed revocation only leaves tokens that
	// resolve to an empty account.
	if s.revoker != nil {
		if err := s.revoker.RevokeCustomer(ctx, customerID.String(), s.revokeTTL); err != nil {
			s.logger.Warn("Failed to revoke customer tokens",
				zap.String("customer_id", customerID.String()),
				zap.Error(err),
			)
		} else {
			result.TokensRevoked = true
		}
	}

	s.logger.Info("Customer data erased",
		zap.String("customer_id", customerID.String()),
		zap.Int64("carts", result.CartsDeleted),
		zap.Int64("orders", result.OrdersDeleted),
		zap.Int64("saved_items", result.SavedItemsDeleted),
		zap.Int64("reviews", result.ReviewsDeleted),
	)
	return result, nil
}
