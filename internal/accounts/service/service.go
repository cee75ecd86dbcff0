package service

import (
	"errors"
	"time"

	"github.com/harborline/accountd/internal/accounts/store"
)

const (
	// DefaultTokenTTL is how long verification and reset tokens stay valid.
	DefaultTokenTTL = 24 * time.Hour
)

var (
	ErrAccountNotFound = errors.New("account not found")
)

// AccountService owns the account lifecycle: registration, verification,
// credential checks, password reset, profile and administrative management.
type AccountService struct {
	Store    store.Store
	Notifier Notifier
	Storage  AvatarStorage

	// BaseURL is the public application origin used to build links in
	// outgoing emails, e.g. "https://accounts.example.com".
	BaseURL string

	// ITApprovalEmail receives admin verification links. Admins never get
	// their own verification link directly.
	ITApprovalEmail string

	// TokenTTL overrides DefaultTokenTTL when positive.
	TokenTTL time.Duration
}

func (s *AccountService) tokenTTL() time.Duration {
	if s.TokenTTL > 0 {
		return s.TokenTTL
	}
	return DefaultTokenTTL
}
