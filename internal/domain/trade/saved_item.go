package trade

import (
	"time"

	"github.com/drobe/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// SavedItem is a wishlist entry. A customer saves a target at most once.
type SavedItem struct {
	ID         uuid.UUID
	CustomerID uuid.UUID
	Target     LineTarget
	AddedAt    time.Time
}

// NewSavedItem creates a wishlist entry
func NewSavedItem(customerID uuid.UUID, target LineTarget) (*SavedItem, error) {
	if customerID == uuid.Nil {
		return nil, shared.NewValidationError("Customer ID cannot be empty")
	}
	if err := target.Validate(); err != nil {
		return nil, err
	}
	return &SavedItem{
		ID:         uuid.New(),
		CustomerID: customerID,
		Target:     target,
		AddedAt:    time.Now(),
	}, nil
}

// IsOwnedBy reports whether customerID saved the item
func (s *SavedItem) IsOwnedBy(customerID uuid.UUID) bool {
	return s.CustomerID == customerID
}
