package services

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Rajgupta764/legal-saarthi/internal/common"
)

// TokenClaims is what the client can read from its bearer token. The
// signature is not checked here; only the backend can do that.
type TokenClaims struct {
	Email     string
	Name      string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Expired reports whether the token's exp lies before now. Tokens without
// an exp never expire.
func (c *TokenClaims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && now.After(c.ExpiresAt)
}

type sessionClaims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

// ParseTokenClaims reads the claims of a JWT without verifying it. Opaque
// tokens return common.ErrInvalidToken.
func ParseTokenClaims(token string) (*TokenClaims, error) {
	var claims sessionClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return nil, common.ErrInvalidToken
	}

	out := &TokenClaims{Email: claims.Email, Name: claims.Name}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}

// TokenClaims reads the claims of the stored token. It returns
// ErrNotAuthenticated when no token is stored.
func (s *SessionStore) TokenClaims(ctx context.Context) (*TokenClaims, error) {
	token, err := s.GetToken(ctx)
	if err != nil {
		return nil, err
	}
	if token == "" {
		return nil, ErrNotAuthenticated
	}
	return ParseTokenClaims(token)
}
