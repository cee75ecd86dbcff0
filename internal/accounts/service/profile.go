package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/harborline/accountd/internal/accounts/domain"
	"github.com/harborline/accountd/internal/accounts/store"
	"github.com/harborline/accountd/pkg/slogx"
)

// GetProfile returns the account for an authenticated session subject.
func (s *AccountService) GetProfile(ctx context.Context, accountID string) (domain.Account, error) {
	account, err := s.Store.Accounts().GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Account{}, ErrAccountNotFound
		}
		return domain.Account{}, err
	}
	return account, nil
}

// ProfileInput is a full replacement of the mutable profile fields. An empty
// Contact clears the stored one.
type ProfileInput struct {
	FirstName string
	LastName  string
	Contact   string
}

// UpdateProfile replaces firstname, lastname, and contact wholesale. Email
// is immutable after creation.
func (s *AccountService) UpdateProfile(ctx context.Context, accountID string, in ProfileInput) (domain.Account, error) {
	log := slogx.FromContext(ctx)

	err := s.Store.Accounts().UpdateProfile(ctx, accountID, in.FirstName, in.LastName, in.Contact)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Account{}, ErrAccountNotFound
		}
		log.Error("failed to update profile",
			slog.String("account_id", accountID),
			slog.Any("error", err),
		)
		return domain.Account{}, err
	}

	return s.Store.Accounts().GetByID(ctx, accountID)
}

// UpdateAvatar points the profile at a newly uploaded object and releases the
// replaced one. Deleting the old object is best-effort: a storage failure is
// logged, never surfaced, the profile update has already committed.
func (s *AccountService) UpdateAvatar(ctx context.Context, accountID, avatarURL, avatarFileID string) (domain.Account, error) {
	log := slogx.FromContext(ctx)

	account, err := s.Store.Accounts().GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Account{}, ErrAccountNotFound
		}
		return domain.Account{}, err
	}
	oldFileID := account.AvatarFileID

	if err := s.Store.Accounts().UpdateAvatar(ctx, accountID, avatarURL, avatarFileID); err != nil {
		log.Error("failed to update avatar",
			slog.String("account_id", accountID),
			slog.Any("error", err),
		)
		return domain.Account{}, err
	}

	s.releaseAvatar(ctx, accountID, oldFileID)

	return s.Store.Accounts().GetByID(ctx, accountID)
}

// RemoveAvatar clears the avatar fields and releases the stored object.
func (s *AccountService) RemoveAvatar(ctx context.Context, accountID string) error {
	log := slogx.FromContext(ctx)

	account, err := s.Store.Accounts().GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrAccountNotFound
		}
		return err
	}

	if err := s.Store.Accounts().ClearAvatar(ctx, accountID); err != nil {
		log.Error("failed to clear avatar",
			slog.String("account_id", accountID),
			slog.Any("error", err),
		)
		return err
	}

	s.releaseAvatar(ctx, accountID, account.AvatarFileID)
	return nil
}

// releaseAvatar deletes a replaced avatar object, logging on failure. An
// orphaned object costs storage; a failed profile change costs the user.
func (s *AccountService) releaseAvatar(ctx context.Context, accountID, fileID string) {
	if fileID == "" || s.Storage == nil {
		return
	}
	if err := s.Storage.Delete(ctx, fileID); err != nil {
		slogx.FromContext(ctx).Warn("failed to delete replaced avatar object",
			slog.String("account_id", accountID),
			slog.String("file_id", fileID),
			slog.Any("error", err),
		)
	}
}
