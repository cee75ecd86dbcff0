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

// RequestPasswordReset mints a reset token and emails its link when the
// account exists and is verified. Every other case, including a failed send,
// returns the same nil so the endpoint cannot be used to probe which emails
// are registered. Only the token's sha256 fingerprint is stored; the
// plaintext lives in the email alone.
func (s *AccountService) RequestPasswordReset(ctx context.Context, variant domain.Variant, email string) error {
	log := slogx.FromContext(ctx)
	email = strings.ToLower(strings.TrimSpace(email))

	account, err := s.Store.Accounts().GetByEmail(ctx, variant, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Info("password reset requested for unknown email",
				slog.String("variant", string(variant)),
			)
			return nil
		}
		log.Error("failed to fetch account for password reset", slog.Any("error", err))
		return err
	}

	if !account.IsVerified {
		log.Info("password reset requested for unverified account",
			slog.String("account_id", account.ID),
		)
		return nil
	}

	token, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		log.Error("failed to generate reset token", slog.Any("error", err))
		return err
	}
	fingerprint := cryptox.FingerprintToken(token)
	expiresAt := time.Now().UTC().Add(s.tokenTTL())

	// Supersedes any outstanding reset token for this account.
	if err := s.Store.Accounts().SetResetToken(ctx, account.ID, fingerprint, expiresAt); err != nil {
		log.Error("failed to store reset token",
			slog.String("account_id", account.ID),
			slog.Any("error", err),
		)
		return err
	}

	if err := s.Notifier.Send(ctx, account.Email, NotificationPasswordReset, NotificationData{
		DisplayName: account.DisplayName(),
		Email:       account.Email,
		Link:        s.resetLink(token, string(variant)),
	}); err != nil {
		// Swallowed: a 500 here would tell the caller the email is
		// registered. The token is minted; the user can request again.
		log.Warn("failed to send password reset email",
			slog.String("account_id", account.ID),
			slog.Any("error", err),
		)
		return nil
	}

	log.Info("password reset token issued", slog.String("account_id", account.ID))
	return nil
}

// ResetPassword swaps the password hash for the account holding the unexpired
// token and retires the token, all in one conditional update. A second use of
// the same token, racing or sequential, sees ErrInvalidOrExpiredToken.
func (s *AccountService) ResetPassword(ctx context.Context, variant domain.Variant, token, newPassword string) error {
	log := slogx.FromContext(ctx)

	hash, err := cryptox.HashPassword(newPassword)
	if err != nil {
		log.Error("failed to hash new password", slog.Any("error", err))
		return err
	}

	fingerprint := cryptox.FingerprintToken(token)
	account, err := s.Store.Accounts().ConsumeResetToken(ctx, fingerprint, time.Now().UTC(), hash)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Warn("reset attempted with invalid token",
				slog.String("variant", string(variant)),
			)
			return ErrInvalidOrExpiredToken
		}
		log.Error("failed to consume reset token", slog.Any("error", err))
		return err
	}

	log.Info("password reset completed", slog.String("account_id", account.ID))
	return nil
}
