package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims is the signed token payload. Without an expiry configured it
// serializes to exactly {"id": <account id>}.
type SessionClaims struct {
	ID uint `json:"id"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256 session tokens.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService creates a token service bound to secret. A zero ttl issues
// tokens without an expiry.
func NewTokenService(secret []byte, ttl time.Duration) (*TokenService, error) {
	if len(secret) == 0 {
		return nil, ErrSecretRequired
	}
	key := make([]byte, len(secret))
	copy(key, secret)

	return &TokenService{
		secret: key,
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// Issue signs a token for the account.
func (s *TokenService) Issue(accountID uint) (string, error) {
	claims := SessionClaims{ID: accountID}
	if s.ttl > 0 {
		now := s.now()
		claims.IssuedAt = jwt.NewNumericDate(now)
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(s.ttl))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies the signature and returns the claims. Every failure wraps
// ErrInvalidToken.
func (s *TokenService) Parse(tokenString string) (*SessionClaims, error) {
	claims := &SessionClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.ID == 0 {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
