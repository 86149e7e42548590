package auth

import (
	"errors"
	"slices"
	"time"

	"github.com/drobe/backend/internal/infrastructure/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Common errors
var (
	ErrInvalidToken        = errors.New("invalid token")
	ErrExpiredToken        = errors.New("token has expired")
	ErrTokenNotYetValid    = errors.New("token is not yet valid")
	ErrMissingCustomerID   = errors.New("missing customer_id in claims")
	ErrTokenRevoked        = errors.New("token has been revoked")
	ErrInvalidSigningInput = errors.New("customer id is required")
)

// Claims identifies a customer. Roles carries coarse grants such as "admin".
type Claims struct {
	jwt.RegisteredClaims
	CustomerID string   `json:"customer_id"`
	Roles      []string `json:"roles,omitempty"`
}

// CustomerUUID parses the customer id claim
func (c *Claims) CustomerUUID() (uuid.UUID, error) {
	return uuid.Parse(c.CustomerID)
}

// HasRole reports whether the token grants role
func (c *Claims) HasRole(role string) bool {
	return slices.Contains(c.Roles, role)
}

// IssuedAtTime returns the issued-at claim, or the zero time when absent
func (c *Claims) IssuedAtTime() time.Time {
	if c.IssuedAt != nil {
		return c.IssuedAt.Time
	}
	return time.Time{}
}

// RemainingTTL returns the time until the token expires
func (c *Claims) RemainingTTL(now time.Time) time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	if remaining := c.ExpiresAt.Sub(now); remaining > 0 {
		return remaining
	}
	return 0
}

// JWTService signs and verifies HS256 customer tokens. Tokens are normally
// minted by the identity provider sharing the secret; GenerateToken exists
// for tooling and tests.
type JWTService struct {
	secret     []byte
	issuer     string
	expiration time.Duration
	now        func() time.Time
}

// NewJWTService creates a new JWT service
func NewJWTService(cfg config.JWTConfig) *JWTService {
	return &JWTService{
		secret:     []byte(cfg.Secret),
		issuer:     cfg.Issuer,
		expiration: cfg.AccessTokenExpiration,
		now:        time.Now,
	}
}

// GenerateToken signs a token for customerID with the given roles
func (s *JWTService) GenerateToken(customerID uuid.UUID, roles ...string) (string, time.Time, error) {
	if customerID == uuid.Nil {
		return "", time.Time{}, ErrInvalidSigningInput
	}
	now := s.now()
	expiresAt := now.Add(s.expiration)
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Issuer:    s.issuer,
			Subject:   customerID.String(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		CustomerID: customerID.String(),
		Roles:      roles,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// ValidateToken verifies signature, issuer and time claims and returns the
// claims of a usable token
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithTimeFunc(s.now),
	)
	token, err := parser.ParseWithClaims(tokenString, &Claims{}, func(*jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpiredToken
		case errors.Is(err, jwt.ErrTokenNotValidYet):
			return nil, ErrTokenNotYetValid
		default:
			return nil, ErrInvalidToken
		}
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.CustomerID == "" {
		return nil, ErrMissingCustomerID
	}
	if _, err := claims.CustomerUUID(); err != nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Expiration returns the lifetime of generated tokens
func (s *JWTService) Expiration() time.Duration {
	return s.expiration
}
