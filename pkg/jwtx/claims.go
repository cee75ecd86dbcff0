// Package jwtx defines the session claim set and the HS256 signer/verifier
// used to mint and check session tokens.
package jwtx

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultSessionTTL is the default lifetime of a session token.
const DefaultSessionTTL = 12 * time.Hour

// Claims are the identity facts carried by a session token. This is a
// closed set: credential material (password hashes, one-time tokens) must
// never be added here.
type Claims struct {
	jwt.RegisteredClaims

	// Role is "user" or "admin"; immutable for the life of the session.
	Role string `json:"role,omitempty"`

	// DisplayName is "First Last" at issue or last refresh time.
	DisplayName string `json:"display_name,omitempty"`

	// AvatarURL is the profile picture at issue or last refresh time.
	AvatarURL string `json:"avatar_url,omitempty"`
}

// NewSessionClaims builds minimally-correct session claims for an account.
func NewSessionClaims(
	subject, role, displayName, avatarURL string,
	issuer string,
	ttl time.Duration,
	now time.Time,
) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        NewJTI(),
		},
		Role:        role,
		DisplayName: displayName,
		AvatarURL:   avatarURL,
	}
}

// NewJTI returns a URL-safe random identifier for the "jti" claim.
func NewJTI() string {
	var b [20]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}

// ValidateIssuer checks the issuer against the expected value, if any.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected == "" {
		return nil
	}

	if c.Issuer != expected {
		return ErrIssuer
	}

	return nil
}

// ValidateExpiry ensures the token hasn't expired (exp) and isn't used
// before it is valid (nbf).
func (c *Claims) ValidateExpiry() error {
	now := time.Now().UTC()

	if c.ExpiresAt != nil && now.After(c.ExpiresAt.Time) {
		return ErrExpired
	}

	if c.NotBefore != nil && now.Before(c.NotBefore.Time) {
		return ErrNotYetValid
	}

	return nil
}
