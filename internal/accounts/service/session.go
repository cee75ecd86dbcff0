package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/harborline/accountd/internal/accounts/domain"
	"github.com/harborline/accountd/internal/accounts/store"
	"github.com/harborline/accountd/pkg/jwtx"
	"github.com/harborline/accountd/pkg/slogx"
)

// SessionService mints and refreshes session tokens carrying identity facts
// only: subject id, role, display name, avatar url.
type SessionService struct {
	Store  store.Store
	Signer jwtx.Signer

	// Issuer names this service in the "iss" claim.
	Issuer string

	// TTL overrides jwtx.DefaultSessionTTL when positive.
	TTL time.Duration
}

func (s *SessionService) ttl() time.Duration {
	if s.TTL > 0 {
		return s.TTL
	}
	return jwtx.DefaultSessionTTL
}

// Issue signs a fresh session token for a verified account.
func (s *SessionService) Issue(account domain.Account) (string, jwtx.Claims, error) {
	claims := jwtx.NewSessionClaims(
		account.ID,
		string(account.Variant),
		account.DisplayName(),
		account.AvatarURL,
		s.Issuer,
		s.ttl(),
		time.Now().UTC(),
	)
	token, err := s.Signer.Sign(claims)
	if err != nil {
		return "", jwtx.Claims{}, err
	}
	return token, claims, nil
}

// Refresh re-reads the account and issues a new token with current display
// name and avatar. Subject and role never change on refresh; a deleted
// account cannot refresh.
func (s *SessionService) Refresh(ctx context.Context, claims jwtx.Claims) (string, jwtx.Claims, error) {
	log := slogx.FromContext(ctx)

	account, err := s.Store.Accounts().GetByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", jwtx.Claims{}, ErrAccountNotFound
		}
		log.Error("failed to fetch account for session refresh", slog.Any("error", err))
		return "", jwtx.Claims{}, err
	}

	return s.Issue(account)
}
