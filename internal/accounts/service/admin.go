package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/harborline/accountd/internal/accounts/domain"
	"github.com/harborline/accountd/internal/accounts/store"
	"github.com/harborline/accountd/pkg/cryptox"
	"github.com/harborline/accountd/pkg/slogx"
)

// Administrative operations only ever target the user namespace. Admin
// accounts are managed out of band and are not deletable through the API.

// ListUsers returns every user account ordered by id.
func (s *AccountService) ListUsers(ctx context.Context) ([]domain.Account, error) {
	return s.Store.Accounts().List(ctx, domain.VariantUser)
}

// AdminUpdateInput is the admin's full-replace edit. Password rotates only
// when non-empty; avatar fields apply only when AvatarURL is non-empty.
type AdminUpdateInput struct {
	FirstName    string
	LastName     string
	Contact      string
	Password     string
	AvatarURL    string
	AvatarFileID string
}

// AdminUpdateUser applies a full profile replacement to a user account, with
// optional password rotation and avatar replacement.
func (s *AccountService) AdminUpdateUser(ctx context.Context, id string, in AdminUpdateInput) (domain.Account, error) {
	log := slogx.FromContext(ctx)

	target, err := s.userTarget(ctx, id)
	if err != nil {
		return domain.Account{}, err
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Accounts().UpdateProfile(ctx, id, in.FirstName, in.LastName, in.Contact); err != nil {
			return err
		}
		if in.Password != "" {
			hash, err := cryptox.HashPassword(in.Password)
			if err != nil {
				return err
			}
			if err := tx.Accounts().UpdatePasswordHash(ctx, id, hash); err != nil {
				return err
			}
		}
		if in.AvatarURL != "" {
			if err := tx.Accounts().UpdateAvatar(ctx, id, in.AvatarURL, in.AvatarFileID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Account{}, ErrAccountNotFound
		}
		log.Error("failed to update user",
			slog.String("account_id", id),
			slog.Any("error", err),
		)
		return domain.Account{}, err
	}

	if in.AvatarURL != "" && target.AvatarFileID != in.AvatarFileID {
		s.releaseAvatar(ctx, id, target.AvatarFileID)
	}

	log.Info("user updated by admin", slog.String("account_id", id))
	return s.Store.Accounts().GetByID(ctx, id)
}

// AdminDeleteUser removes a user account and releases its avatar object.
func (s *AccountService) AdminDeleteUser(ctx context.Context, id string) error {
	log := slogx.FromContext(ctx)

	target, err := s.userTarget(ctx, id)
	if err != nil {
		return err
	}

	if err := s.Store.Accounts().Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrAccountNotFound
		}
		log.Error("failed to delete user",
			slog.String("account_id", id),
			slog.Any("error", err),
		)
		return err
	}

	s.releaseAvatar(ctx, id, target.AvatarFileID)

	log.Info("user deleted by admin", slog.String("account_id", id))
	return nil
}

// BulkOutcome reports per-id results of a bulk operation. Failures on one id
// never abort the rest.
type BulkOutcome struct {
	Succeeded []string
	Failed    map[string]string
}

// AdminBulkDeleteUsers deletes each listed user independently.
func (s *AccountService) AdminBulkDeleteUsers(ctx context.Context, ids []string) BulkOutcome {
	out := BulkOutcome{Failed: map[string]string{}}
	for _, id := range ids {
		if err := s.AdminDeleteUser(ctx, id); err != nil {
			out.Failed[id] = err.Error()
			continue
		}
		out.Succeeded = append(out.Succeeded, id)
	}
	return out
}

// BulkUpdate pairs a target id with its edit.
type BulkUpdate struct {
	ID    string
	Input AdminUpdateInput
}

// AdminBulkUpdateUsers applies each edit independently.
func (s *AccountService) AdminBulkUpdateUsers(ctx context.Context, updates []BulkUpdate) BulkOutcome {
	out := BulkOutcome{Failed: map[string]string{}}
	for _, u := range updates {
		if _, err := s.AdminUpdateUser(ctx, u.ID, u.Input); err != nil {
			out.Failed[u.ID] = err.Error()
			continue
		}
		out.Succeeded = append(out.Succeeded, u.ID)
	}
	return out
}

// userTarget fetches an account and confirms it is a user. Admin accounts
// are invisible to admin management endpoints.
func (s *AccountService) userTarget(ctx context.Context, id string) (domain.Account, error) {
	account, err := s.Store.Accounts().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Account{}, ErrAccountNotFound
		}
		return domain.Account{}, err
	}
	if account.Variant != domain.VariantUser {
		return domain.Account{}, ErrAccountNotFound
	}
	return account, nil
}
