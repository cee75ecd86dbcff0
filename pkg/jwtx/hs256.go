package jwtx

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Signer mints signed session tokens.
type Signer interface {
	Sign(Claims) (string, error)
}

// Verifier checks a raw token's signature and returns its claims.
// Expiry is validated separately via Claims.ValidateExpiry so callers can
// choose their own leeway policy.
type Verifier interface {
	Verify(raw string) (Claims, error)
}

// HS256 signs and verifies session tokens with a shared secret. Session
// tokens never leave the service boundary, so a symmetric scheme is enough
// here; there is no third party that needs to verify them.
type HS256 struct {
	secret []byte
}

// NewHS256 builds a signer/verifier from the configured session secret.
func NewHS256(secret []byte) (*HS256, error) {
	if len(secret) < 32 {
		return nil, errors.New("jwtx: session secret must be at least 32 bytes")
	}
	return &HS256{secret: secret}, nil
}

func (h *HS256) Sign(claims Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(h.secret)
	if err != nil {
		return "", fmt.Errorf("jwtx: signing failed: %w", err)
	}
	return signed, nil
}

func (h *HS256) Verify(raw string) (Claims, error) {
	var claims Claims

	token, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return h.secret, nil
	}, jwt.WithoutClaimsValidation())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenMalformed) {
			return Claims{}, ErrMalformed
		}
		return Claims{}, ErrSignature
	}

	if !token.Valid {
		return Claims{}, ErrSignature
	}

	return claims, nil
}
