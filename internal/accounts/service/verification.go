package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/harborline/accountd/internal/accounts/domain"
	"github.com/harborline/accountd/internal/accounts/store"
	"github.com/harborline/accountd/pkg/slogx"
)

var (
	ErrInvalidOrExpiredToken = errors.New("token is invalid or has expired")
)

// ConsumeVerificationToken marks the owning account verified and retires the
// token in one atomic step. Expired, consumed, and unknown tokens are
// indistinguishable; a racing duplicate consume loses and sees
// ErrInvalidOrExpiredToken.
func (s *AccountService) ConsumeVerificationToken(ctx context.Context, token string) (domain.Account, error) {
	log := slogx.FromContext(ctx)

	account, err := s.Store.Accounts().ConsumeVerificationToken(ctx, token, time.Now().UTC())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Account{}, ErrInvalidOrExpiredToken
		}
		log.Error("failed to consume verification token", slog.Any("error", err))
		return domain.Account{}, err
	}

	log.Info("account verified",
		slog.String("account_id", account.ID),
		slog.String("variant", string(account.Variant)),
	)
	return account, nil
}
