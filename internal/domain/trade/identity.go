package trade

import (
	"strings"

	"github.com/drobe/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// MaxSessionKeyLength bounds anonymous session keys
const MaxSessionKeyLength = 40

// CartOwner identifies who a cart belongs to: an authenticated customer or
// an anonymous session, never both.
type CartOwner struct {
	customerID uuid.UUID
	sessionKey string
}

// CustomerOwner returns the owner for an authenticated customer
func CustomerOwner(customerID uuid.UUID) (CartOwner, error) {
	if customerID == uuid.Nil {
		return CartOwner{}, shared.NewValidationError("Customer ID cannot be empty")
	}
	return CartOwner{customerID: customerID}, nil
}

// SessionOwner returns the owner for an anonymous session
func SessionOwner(sessionKey string) (CartOwner, error) {
	sessionKey = strings.TrimSpace(sessionKey)
	if sessionKey == "" {
		return CartOwner{}, shared.NewValidationError("Session key cannot be empty")
	}
	if len(sessionKey) > MaxSessionKeyLength {
		return CartOwner{}, shared.NewValidationError("Session key cannot exceed 40 characters")
	}
	return CartOwner{sessionKey: sessionKey}, nil
}

// IsCustomer reports whether the owner is an authenticated customer
func (o CartOwner) IsCustomer() bool {
	return o.customerID != uuid.Nil
}

// IsZero reports whether the owner is unset
func (o CartOwner) IsZero() bool {
	return o.customerID == uuid.Nil && o.sessionKey == ""
}

// CustomerID returns the customer ID and whether the owner is a customer
func (o CartOwner) CustomerID() (uuid.UUID, bool) {
	return o.customerID, o.customerID != uuid.Nil
}

// SessionKey returns the session key and whether the owner is anonymous
func (o CartOwner) SessionKey() (string, bool) {
	return o.sessionKey, o.customerID == uuid.Nil && o.sessionKey != ""
}

// String renders the owner for logs
func (o CartOwner) String() string {
	if o.IsCustomer() {
		return "customer:" + o.customerID.String()
	}
	if o.sessionKey != "" {
		return "session:" + o.sessionKey
	}
	return "nobody"
}

// Identity is what the session provider knows about the caller of one
// request. Either field may be empty. When both are set the caller has just
// logged in and any cart held by the session is merged into the customer's.
type Identity struct {
	CustomerID uuid.UUID
	SessionKey string
}

// IsAuthenticated reports whether the caller is a known customer
func (i Identity) IsAuthenticated() bool {
	return i.CustomerID != uuid.Nil
}

// Owner returns the owner of the cart this request operates on
func (i Identity) Owner() (CartOwner, error) {
	if i.IsAuthenticated() {
		return CustomerOwner(i.CustomerID)
	}
	if strings.TrimSpace(i.SessionKey) != "" {
		return SessionOwner(i.SessionKey)
	}
	return CartOwner{}, shared.NewValidationError("Request has neither a customer nor a session")
}

// PendingMerge returns the anonymous owner whose cart must be merged into
// the customer's cart, if any
func (i Identity) PendingMerge() (CartOwner, bool) {
	if !i.IsAuthenticated() || strings.TrimSpace(i.SessionKey) == "" {
		return CartOwner{}, false
	}
	owner, err := SessionOwner(i.SessionKey)
	if err != nil {
		return CartOwner{}, false
	}
	return owner, true
}
