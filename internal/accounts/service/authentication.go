package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/harborline/accountd/internal/accounts/domain"
	"github.com/harborline/accountd/internal/accounts/store"
	"github.com/harborline/accountd/pkg/cryptox"
	"github.com/harborline/accountd/pkg/slogx"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNotVerified        = errors.New("account not verified")
)

// Authenticate checks credentials within a variant namespace. Unknown email
// and wrong password return the same ErrInvalidCredentials; a dummy hash
// comparison keeps the two paths at comparable cost. When a user's
// credentials match but the account is unverified, the verification token is
// rotated and re-sent before ErrNotVerified is returned. Admin accounts get
// no resend; their approval goes through IT.
func (s *AccountService) Authenticate(ctx context.Context, variant domain.Variant, email, password string) (domain.Account, error) {
	log := slogx.FromContext(ctx)
	email = strings.ToLower(strings.TrimSpace(email))

	account, err := s.Store.Accounts().GetByEmail(ctx, variant, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			cryptox.DummyVerify(password)
			return domain.Account{}, ErrInvalidCredentials
		}
		log.Error("failed to fetch account for login", slog.Any("error", err))
		return domain.Account{}, err
	}

	if err := cryptox.VerifyPassword(password, account.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrPasswordMismatch) {
			log.Warn("login with wrong password",
				slog.String("account_id", account.ID),
			)
			return domain.Account{}, ErrInvalidCredentials
		}
		log.Error("failed to verify password", slog.Any("error", err))
		return domain.Account{}, err
	}

	if !account.IsVerified {
		if variant == domain.VariantUser {
			// Self-healing: the stored token may have expired, so mint a
			// fresh one and re-send. Failure to re-send never changes the
			// outcome of the login attempt.
			if err := s.rotateVerification(ctx, account); err != nil {
				log.Warn("failed to re-send verification email",
					slog.String("account_id", account.ID),
					slog.Any("error", err),
				)
			}
		}
		return domain.Account{}, ErrNotVerified
	}

	return account, nil
}

// rotateVerification replaces the outstanding verification token and
// dispatches a fresh email.
func (s *AccountService) rotateVerification(ctx context.Context, account domain.Account) error {
	token, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return err
	}
	expiresAt := time.Now().UTC().Add(s.tokenTTL())
	if err := s.Store.Accounts().SetVerificationToken(ctx, account.ID, token, expiresAt); err != nil {
		return err
	}
	return s.sendVerification(ctx, account, token)
}
