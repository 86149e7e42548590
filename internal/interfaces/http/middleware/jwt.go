package middleware

import (
	"errors"
	"strings"

	"github.com/drobe/backend/internal/domain/trade"
	"github.com/drobe/backend/internal/infrastructure/auth"
	"github.com/drobe/backend/internal/infrastructure/logger"
	"github.com/drobe/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Identity context keys
const (
	JWTClaimsKey         = "jwt_claims"
	CustomerIDKey        = "customer_id"
	SessionKeyKey        = "session_key"
	AuthHeaderKey        = "Authorization"
	BearerPrefix         = "Bearer "
	DefaultSessionHeader = "X-Session-Key"
)

// IdentityConfig holds configuration for the identity middleware
type IdentityConfig struct {
	// JWTService is required for token validation
	JWTService *auth.JWTService
	// Revocations is optional; when set, tokens issued before a customer's
	// revocation are rejected
	Revocations auth.RevocationList
	// SessionHeader carries the anonymous session key (default X-Session-Key)
	SessionHeader string
	Logger        *zap.Logger
}

// Identity resolves who is calling. A bearer token is optional, but one that
// is present must be valid. The session header is always read so a freshly
// logged-in customer can carry an anonymous cart across.
func Identity(cfg IdentityConfig) gin.HandlerFunc {
	if cfg.SessionHeader == "" {
		cfg.SessionHeader = DefaultSessionHeader
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		if key := strings.TrimSpace(c.GetHeader(cfg.SessionHeader)); key != "" {
			c.Set(SessionKeyKey, key)
		}

		authHeader := c.GetHeader(AuthHeaderKey)
		if authHeader == "" {
			c.Next()
			return
		}
		if !strings.HasPrefix(authHeader, BearerPrefix) {
			abortAuth(c, cfg.Logger, auth.ErrInvalidToken)
			return
		}
		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, BearerPrefix))
		if tokenString == "" {
			abortAuth(c, cfg.Logger, auth.ErrInvalidToken)
			return
		}

		claims, err := cfg.JWTService.ValidateToken(tokenString)
		if err != nil {
			abortAuth(c, cfg.Logger, err)
			return
		}

		if cfg.Revocations != nil {
			revoked, err := cfg.Revocations.IsRevoked(c.Request.Context(), claims.CustomerID, claims.IssuedAtTime())
			if err != nil {
				// Fail open when the revocation store is unreachable
				cfg.Logger.Error("Failed to check token revocation",
					zap.String("customer_id", claims.CustomerID),
					zap.Error(err))
			} else if revoked {
				abortAuth(c, cfg.Logger, auth.ErrTokenRevoked)
				return
			}
		}

		customerID, _ := claims.CustomerUUID()
		c.Set(JWTClaimsKey, claims)
		c.Set(CustomerIDKey, customerID)
		c.Request = c.Request.WithContext(logger.WithCustomerID(c.Request.Context(), claims.CustomerID))

		c.Next()
	}
}

// RequireCustomer rejects requests without an authenticated customer
func RequireCustomer() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := GetCustomerID(c); !ok {
			abortWithCode(c, dto.ErrCodeUnauthorized, "Authentication required")
			return
		}
		c.Next()
	}
}

// RequireRole rejects requests whose token lacks role
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetJWTClaims(c)
		if claims == nil {
			abortWithCode(c, dto.ErrCodeUnauthorized, "Authentication required")
			return
		}
		if !claims.HasRole(role) {
			abortWithCode(c, dto.ErrCodeForbidden, "Insufficient permissions")
			return
		}
		c.Next()
	}
}

func abortAuth(c *gin.Context, log *zap.Logger, err error) {
	log.Warn("Authentication failed",
		zap.Error(err),
		zap.String("path", c.Request.URL.Path),
	)

	code, message := dto.ErrCodeTokenInvalid, "Invalid token"
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		code, message = dto.ErrCodeTokenExpired, "Token has expired"
	case errors.Is(err, auth.ErrTokenNotYetValid):
		message = "Token is not yet valid"
	case errors.Is(err, auth.ErrMissingCustomerID):
		message = "Token does not identify a customer"
	case errors.Is(err, auth.ErrTokenRevoked):
		code, message = dto.ErrCodeUnauthorized, "Token has been revoked"
	}
	abortWithCode(c, code, message)
}

// abortWithCode aborts with the standard error envelope
func abortWithCode(c *gin.Context, code, message string) {
	c.AbortWithStatusJSON(dto.GetHTTPStatus(code),
		dto.NewErrorResponseWithRequestID(code, message, c.GetString(RequestIDKey)))
}

// GetJWTClaims retrieves JWT claims from gin.Context
func GetJWTClaims(c *gin.Context) *auth.Claims {
	if claims, exists := c.Get(JWTClaimsKey); exists {
		if jwtClaims, ok := claims.(*auth.Claims); ok {
			return jwtClaims
		}
	}
	return nil
}

// GetCustomerID returns the authenticated customer, if any
func GetCustomerID(c *gin.Context) (uuid.UUID, bool) {
	if v, exists := c.Get(CustomerIDKey); exists {
		if id, ok := v.(uuid.UUID); ok && id != uuid.Nil {
			return id, true
		}
	}
	return uuid.Nil, false
}

// GetSessionKey returns the anonymous session key sent with the request
func GetSessionKey(c *gin.Context) string {
	return c.GetString(SessionKeyKey)
}

// GetIdentity returns everything known about the caller
func GetIdentity(c *gin.Context) trade.Identity {
	customerID, _ := GetCustomerID(c)
	return trade.Identity{CustomerID: customerID, SessionKey: GetSessionKey(c)}
}
