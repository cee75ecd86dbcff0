package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/harborline/accountd/internal/accounts/domain"
)

func TestListUsers_UsersOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.registerVerified(t, "u1@example.com")
	env.registerVerified(t, "u2@example.com")

	_, err := env.svc.Register(ctx, domain.VariantAdmin, registerInput("boss@example.com"))
	require.NoError(t, err)

	users, err := env.svc.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	for _, u := range users {
		require.Equal(t, domain.VariantUser, u.Variant)
	}
}

func TestAdminUpdateUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	account := env.registerVerified(t, "managed@example.com")

	updated, err := env.svc.AdminUpdateUser(ctx, account.ID, AdminUpdateInput{
		FirstName: "Renamed",
		LastName:  "Person",
		Contact:   "+61411111111",
	})
	require.NoError(t, err)
	require.Equal(t, "Renamed", updated.FirstName)
	require.Equal(t, "+61411111111", updated.Contact)

	// No password given means the old one still works.
	_, err = env.svc.Authenticate(ctx, domain.VariantUser, "managed@example.com", "hunter22")
	require.NoError(t, err)
}

func TestAdminUpdateUser_PasswordRotation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	account := env.registerVerified(t, "rotate@example.com")

	_, err := env.svc.AdminUpdateUser(ctx, account.ID, AdminUpdateInput{
		FirstName: account.FirstName,
		LastName:  account.LastName,
		Password:  "admin-set-pass",
	})
	require.NoError(t, err)

	_, err = env.svc.Authenticate(ctx, domain.VariantUser, "rotate@example.com", "hunter22")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = env.svc.Authenticate(ctx, domain.VariantUser, "rotate@example.com", "admin-set-pass")
	require.NoError(t, err)
}

func TestAdminUpdateUser_AvatarReplaceReleasesOld(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	account := env.registerVerified(t, "adm-ava@example.com")
	_, err := env.svc.UpdateAvatar(ctx, account.ID, "https://cdn.example.com/a.png", "avatars/a")
	require.NoError(t, err)

	updated, err := env.svc.AdminUpdateUser(ctx, account.ID, AdminUpdateInput{
		FirstName:    account.FirstName,
		LastName:     account.LastName,
		AvatarURL:    "https://cdn.example.com/b.png",
		AvatarFileID: "avatars/b",
	})
	require.NoError(t, err)
	require.Equal(t, "https://cdn.example.com/b.png", updated.AvatarURL)
	require.Contains(t, env.storage.deleted, "avatars/a")
}

func TestAdminUpdateUser_AdminTargetInvisible(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	admin, err := env.svc.Register(ctx, domain.VariantAdmin, registerInput("peer@example.com"))
	require.NoError(t, err)

	_, err = env.svc.AdminUpdateUser(ctx, admin.ID, AdminUpdateInput{
		FirstName: "X", LastName: "Y",
	})
	require.ErrorIs(t, err, ErrAccountNotFound)
}

func TestAdminDeleteUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	account := env.registerVerified(t, "gone@example.com")
	_, err := env.svc.UpdateAvatar(ctx, account.ID, "https://cdn.example.com/a.png", "avatars/a")
	require.NoError(t, err)

	require.NoError(t, env.svc.AdminDeleteUser(ctx, account.ID))
	require.Contains(t, env.storage.deleted, "avatars/a")

	_, err = env.svc.GetProfile(ctx, account.ID)
	require.ErrorIs(t, err, ErrAccountNotFound)

	require.ErrorIs(t, env.svc.AdminDeleteUser(ctx, account.ID), ErrAccountNotFound)
}

func TestAdminBulkDeleteUsers_MixedOutcome(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	a := env.registerVerified(t, "bulk1@example.com")
	b := env.registerVerified(t, "bulk2@example.com")

	out := env.svc.AdminBulkDeleteUsers(ctx, []string{a.ID, "User-99999", b.ID})
	require.ElementsMatch(t, []string{a.ID, b.ID}, out.Succeeded)
	require.Len(t, out.Failed, 1)
	require.Contains(t, out.Failed, "User-99999")
}

func TestAdminBulkUpdateUsers_MixedOutcome(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	a := env.registerVerified(t, "bupd1@example.com")

	out := env.svc.AdminBulkUpdateUsers(ctx, []BulkUpdate{
		{ID: a.ID, Input: AdminUpdateInput{FirstName: "New", LastName: "Name"}},
		{ID: "User-99999", Input: AdminUpdateInput{FirstName: "No", LastName: "One"}},
	})
	require.Equal(t, []string{a.ID}, out.Succeeded)
	require.Contains(t, out.Failed, "User-99999")

	got, err := env.svc.GetProfile(ctx, a.ID)
	require.NoError(t, err)
	require.Equal(t, "New", got.FirstName)
}
