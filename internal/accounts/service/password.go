package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/harborline/accountd/internal/accounts/store"
	"github.com/harborline/accountd/pkg/cryptox"
	"github.com/harborline/accountd/pkg/slogx"
)

var (
	ErrIncorrectPassword = errors.New("current password is incorrect")
)

// ChangePassword rotates an authenticated account's password after
// re-checking the current one. Existing sessions stay valid until their
// tokens expire; there is no session revocation list.
func (s *AccountService) ChangePassword(ctx context.Context, accountID, currentPassword, newPassword string) error {
	log := slogx.FromContext(ctx)

	account, err := s.Store.Accounts().GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrAccountNotFound
		}
		log.Error("failed to fetch account for password change", slog.Any("error", err))
		return err
	}

	if err := cryptox.VerifyPassword(currentPassword, account.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrPasswordMismatch) {
			log.Warn("password change with wrong current password",
				slog.String("account_id", account.ID),
			)
			return ErrIncorrectPassword
		}
		log.Error("failed to verify current password", slog.Any("error", err))
		return err
	}

	hash, err := cryptox.HashPassword(newPassword)
	if err != nil {
		log.Error("failed to hash new password", slog.Any("error", err))
		return err
	}

	if err := s.Store.Accounts().UpdatePasswordHash(ctx, account.ID, hash); err != nil {
		log.Error("failed to update password hash",
			slog.String("account_id", account.ID),
			slog.Any("error", err),
		)
		return err
	}

	log.Info("password changed", slog.String("account_id", account.ID))
	return nil
}
