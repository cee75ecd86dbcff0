package sqlite

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/harborline/accountd/internal/accounts/domain"
	"github.com/harborline/accountd/internal/accounts/store"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	// Bare DSN on purpose: NewStore must supply the busy timeout itself, and
	// the concurrency tests below fail with SQLITE_BUSY if it does not.
	dsn := fmt.Sprintf("file:%s", filepath.Join(t.TempDir(), "test.db"))
	st, err := NewStore(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

func TestNewStore_AppliesBusyTimeout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dsn.db")

	// A DSN without a busy timeout gets the default appended so every
	// pooled connection waits on a locked database instead of erroring.
	st, err := NewStore("file:" + path)
	require.NoError(t, err)
	defer st.Close()
	require.Contains(t, st.dsn, "_pragma=busy_timeout(5000)")

	// A caller-supplied timeout is left alone.
	custom, err := NewStore(fmt.Sprintf("file:%s?_pragma=busy_timeout(100)", path))
	require.NoError(t, err)
	defer custom.Close()
	require.NotContains(t, custom.dsn, "busy_timeout(5000)")
}

func testAccount(id string, variant domain.Variant, email string) domain.Account {
	now := time.Now().UTC().Truncate(time.Second)
	return domain.Account{
		ID:           id,
		Variant:      variant,
		Email:        email,
		PasswordHash: "$argon2id$v=19$m=19456,t=2,p=1$c2FsdA$aGFzaA",
		FirstName:    "Jane",
		LastName:     "Doe",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestAccounts_CreateAndGet(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	a := testAccount("User-00001", domain.VariantUser, "jane@example.com")
	a.Contact = "+61400000000"
	require.NoError(t, st.Accounts().Create(ctx, a))

	got, err := st.Accounts().GetByID(ctx, "User-00001")
	require.NoError(t, err)
	require.Equal(t, a.Email, got.Email)
	require.Equal(t, domain.VariantUser, got.Variant)
	require.Equal(t, "+61400000000", got.Contact)
	require.False(t, got.IsVerified)
	require.Nil(t, got.VerificationToken)
	require.Nil(t, got.ResetTokenHash)

	byEmail, err := st.Accounts().GetByEmail(ctx, domain.VariantUser, "jane@example.com")
	require.NoError(t, err)
	require.Equal(t, got.ID, byEmail.ID)

	_, err = st.Accounts().GetByID(ctx, "User-99999")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestAccounts_DuplicateEmailPerVariant(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.Accounts().Create(ctx,
		testAccount("User-00001", domain.VariantUser, "dup@example.com")))

	err := st.Accounts().Create(ctx,
		testAccount("User-00002", domain.VariantUser, "dup@example.com"))
	require.ErrorIs(t, err, store.ErrAlreadyExists)

	// The same email is allowed in the admin namespace.
	require.NoError(t, st.Accounts().Create(ctx,
		testAccount("Admin-00001", domain.VariantAdmin, "dup@example.com")))
}

func TestAccounts_ConsumeVerificationToken(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	a := testAccount("User-00001", domain.VariantUser, "v@example.com")
	require.NoError(t, st.Accounts().Create(ctx, a))
	require.NoError(t, st.Accounts().SetVerificationToken(ctx, a.ID, "tok-abc", now.Add(time.Hour)))

	got, err := st.Accounts().ConsumeVerificationToken(ctx, "tok-abc", now)
	require.NoError(t, err)
	require.Equal(t, a.ID, got.ID)
	require.True(t, got.IsVerified)
	require.Nil(t, got.VerificationToken)
	require.Nil(t, got.VerificationTokenExpiresAt)

	// Single use: a second consume sees nothing.
	_, err = st.Accounts().ConsumeVerificationToken(ctx, "tok-abc", now)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestAccounts_ConsumeVerificationToken_Expired(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	a := testAccount("User-00001", domain.VariantUser, "x@example.com")
	require.NoError(t, st.Accounts().Create(ctx, a))
	require.NoError(t, st.Accounts().SetVerificationToken(ctx, a.ID, "tok-old", now.Add(-time.Minute)))

	_, err := st.Accounts().ConsumeVerificationToken(ctx, "tok-old", now)
	require.ErrorIs(t, err, store.ErrNotFound)

	got, err := st.Accounts().GetByID(ctx, a.ID)
	require.NoError(t, err)
	require.False(t, got.IsVerified, "expired token must not verify the account")
}

func TestAccounts_ConsumeResetToken(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	a := testAccount("User-00001", domain.VariantUser, "r@example.com")
	require.NoError(t, st.Accounts().Create(ctx, a))
	require.NoError(t, st.Accounts().SetResetToken(ctx, a.ID, "fp-123", now.Add(time.Hour)))

	got, err := st.Accounts().ConsumeResetToken(ctx, "fp-123", now, "newhash")
	require.NoError(t, err)
	require.Equal(t, "newhash", got.PasswordHash)
	require.Nil(t, got.ResetTokenHash)
	require.Nil(t, got.ResetTokenExpiresAt)

	// Replay fails and the password stays at its post-reset value.
	_, err = st.Accounts().ConsumeResetToken(ctx, "fp-123", now, "otherhash")
	require.ErrorIs(t, err, store.ErrNotFound)

	check, err := st.Accounts().GetByID(ctx, a.ID)
	require.NoError(t, err)
	require.Equal(t, "newhash", check.PasswordHash)
}

func TestAccounts_SetResetToken_Supersedes(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	a := testAccount("User-00001", domain.VariantUser, "s@example.com")
	require.NoError(t, st.Accounts().Create(ctx, a))
	require.NoError(t, st.Accounts().SetResetToken(ctx, a.ID, "fp-old", now.Add(time.Hour)))
	require.NoError(t, st.Accounts().SetResetToken(ctx, a.ID, "fp-new", now.Add(time.Hour)))

	_, err := st.Accounts().ConsumeResetToken(ctx, "fp-old", now, "h")
	require.ErrorIs(t, err, store.ErrNotFound, "superseded token must be dead")

	_, err = st.Accounts().ConsumeResetToken(ctx, "fp-new", now, "h")
	require.NoError(t, err)
}

func TestAccounts_UpdateProfile_FullReplace(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	a := testAccount("User-00001", domain.VariantUser, "p@example.com")
	a.Contact = "+61400000000"
	require.NoError(t, st.Accounts().Create(ctx, a))

	require.NoError(t, st.Accounts().UpdateProfile(ctx, a.ID, "John", "Smith", ""))

	got, err := st.Accounts().GetByID(ctx, a.ID)
	require.NoError(t, err)
	require.Equal(t, "John", got.FirstName)
	require.Equal(t, "Smith", got.LastName)
	require.Empty(t, got.Contact, "empty contact clears the stored one")
}

func TestAccounts_Avatar(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	a := testAccount("User-00001", domain.VariantUser, "a@example.com")
	require.NoError(t, st.Accounts().Create(ctx, a))

	require.NoError(t, st.Accounts().UpdateAvatar(ctx, a.ID, "https://cdn/x.png", "avatars/User-00001/k1"))
	got, err := st.Accounts().GetByID(ctx, a.ID)
	require.NoError(t, err)
	require.Equal(t, "https://cdn/x.png", got.AvatarURL)
	require.Equal(t, "avatars/User-00001/k1", got.AvatarFileID)

	require.NoError(t, st.Accounts().ClearAvatar(ctx, a.ID))
	got, err = st.Accounts().GetByID(ctx, a.ID)
	require.NoError(t, err)
	require.Empty(t, got.AvatarURL)
	require.Empty(t, got.AvatarFileID)
}

func TestAccounts_DeleteAndList(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		require.NoError(t, st.Accounts().Create(ctx,
			testAccount(domain.VariantUser.FormatID(int64(i)), domain.VariantUser,
				fmt.Sprintf("u%d@example.com", i))))
	}
	require.NoError(t, st.Accounts().Create(ctx,
		testAccount("Admin-00001", domain.VariantAdmin, "boss@example.com")))

	users, err := st.Accounts().List(ctx, domain.VariantUser)
	require.NoError(t, err)
	require.Len(t, users, 3)
	require.Equal(t, "User-00001", users[0].ID, "list ordered by id")

	require.NoError(t, st.Accounts().Delete(ctx, "User-00002"))
	users, err = st.Accounts().List(ctx, domain.VariantUser)
	require.NoError(t, err)
	require.Len(t, users, 2)

	require.ErrorIs(t, st.Accounts().Delete(ctx, "User-00002"), store.ErrNotFound)
}

func TestAccounts_ClearExpiredTokens(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	fresh := testAccount("User-00001", domain.VariantUser, "fresh@example.com")
	stale := testAccount("User-00002", domain.VariantUser, "stale@example.com")
	require.NoError(t, st.Accounts().Create(ctx, fresh))
	require.NoError(t, st.Accounts().Create(ctx, stale))

	require.NoError(t, st.Accounts().SetVerificationToken(ctx, fresh.ID, "tok-fresh", now.Add(time.Hour)))
	require.NoError(t, st.Accounts().SetVerificationToken(ctx, stale.ID, "tok-stale", now.Add(-time.Hour)))
	require.NoError(t, st.Accounts().SetResetToken(ctx, stale.ID, "fp-stale", now.Add(-time.Hour)))

	n, err := st.Accounts().ClearExpiredTokens(ctx, now)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	got, err := st.Accounts().GetByID(ctx, stale.ID)
	require.NoError(t, err)
	require.Nil(t, got.VerificationToken)
	require.Nil(t, got.ResetTokenHash)

	got, err = st.Accounts().GetByID(ctx, fresh.ID)
	require.NoError(t, err)
	require.NotNil(t, got.VerificationToken)
}

func TestCounters_NextSequence(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		got, err := st.Counters().NextSequence(ctx, domain.VariantUser)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}

	// Namespaces count independently.
	got, err := st.Counters().NextSequence(ctx, domain.VariantAdmin)
	require.NoError(t, err)
	require.EqualValues(t, 1, got)
}

func TestCounters_NextSequence_Concurrent(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	const n = 20
	results := make(chan int64, n)
	errs := make(chan error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			seq, err := st.Counters().NextSequence(ctx, domain.VariantUser)
			if err != nil {
				errs <- err
				return
			}
			results <- seq
		}()
	}
	wg.Wait()
	close(results)
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	seen := make(map[int64]struct{}, n)
	for seq := range results {
		_, dup := seen[seq]
		require.False(t, dup, "sequence %d allocated twice", seq)
		seen[seq] = struct{}{}
	}
	require.Len(t, seen, n)
}

func TestWithTx_RollbackOnError(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	err := st.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Accounts().Create(ctx,
			testAccount("User-00001", domain.VariantUser, "tx@example.com")); err != nil {
			return err
		}
		return fmt.Errorf("boom")
	})
	require.Error(t, err)

	_, err = st.Accounts().GetByID(ctx, "User-00001")
	require.ErrorIs(t, err, store.ErrNotFound, "create must roll back with the tx")
}

func TestWithTx_Commit(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	err := st.WithTx(ctx, func(tx store.Tx) error {
		return tx.Accounts().Create(ctx,
			testAccount("User-00001", domain.VariantUser, "tx@example.com"))
	})
	require.NoError(t, err)

	_, err = st.Accounts().GetByID(ctx, "User-00001")
	require.NoError(t, err)
}
