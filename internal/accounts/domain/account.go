package domain

import (
	"fmt"
	"time"
)

// Variant selects the account namespace. Users and admins live in separate
// namespaces: the same email may exist once in each.
type Variant string

const (
	VariantUser  Variant = "user"
	VariantAdmin Variant = "admin"
)

// Valid reports whether v is a known variant.
func (v Variant) Valid() bool {
	return v == VariantUser || v == VariantAdmin
}

// IDPrefix returns the display prefix used in account ids.
func (v Variant) IDPrefix() string {
	if v == VariantAdmin {
		return "Admin"
	}
	return "User"
}

// FormatID renders a sequence number as an account id, e.g. "User-00042".
func (v Variant) FormatID(seq int64) string {
	return fmt.Sprintf("%s-%05d", v.IDPrefix(), seq)
}

type Account struct {
	ID           string
	Variant      Variant
	Email        string // lowercased, immutable after creation
	PasswordHash string // argon2 encoded
	FirstName    string
	LastName     string
	Contact      string

	AvatarURL    string
	AvatarFileID string // object storage key for the current avatar

	IsVerified                 bool
	VerificationToken          *string // plaintext one-time token (nullable)
	VerificationTokenExpiresAt *time.Time
	ResetTokenHash             *string // sha256 fingerprint only (nullable)
	ResetTokenExpiresAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// DisplayName is the name presented in session claims and emails.
func (a *Account) DisplayName() string {
	return a.FirstName + " " + a.LastName
}
