package utils

import (
	"errors" // For the method mismatch error
	"time"   // Time for token expiration

	"wallet_ledger/internal/domain" // Role type

	"github.com/golang-jwt/jwt/v5" // JWT library
)

// Claims carries the verified caller identity
type Claims struct {
	AccountID            uint        `json:"account_id"` // Custom claim for account ID
	Role                 domain.Role `json:"role"`       // Custom claim for role
	jwt.RegisteredClaims             // Standard JWT claims
}

// ErrUnexpectedSigningMethod is returned for tokens not signed with HS256
var ErrUnexpectedSigningMethod = errors.New("unexpected signing method")

// GenerateJWT creates a JWT token for a given account
func GenerateJWT(accountID uint, role domain.Role, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		AccountID: accountID,
		Role:      role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)), // Token expiry
			IssuedAt:  jwt.NewNumericDate(now),          // Issued at current time
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims) // Create token with claims
	return token.SignedString([]byte(secret))                  // Sign the token with the secret
}

// ParseJWT parses and validates a JWT token string
func ParseJWT(tokenStr, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrUnexpectedSigningMethod
		}
		return []byte(secret), nil // Return the secret key for validation
	})
	if err != nil {
		return nil, err // Return error if parsing fails
	}
	// Validate token and extract claims
	if claims, ok := token.Claims.(*Claims); ok && token.Valid && claims.AccountID != 0 && claims.Role.Valid() {
		return claims, nil
	}
	return nil, jwt.ErrTokenInvalidClaims
}
