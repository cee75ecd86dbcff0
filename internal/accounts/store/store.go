package store

import (
	"context"
	"errors"
	"time"

	"github.com/harborline/accountd/internal/accounts/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite for now)
// implement this. It exposes sub-repositories to keep concerns tidy and
// testable.
type Store interface {
	Accounts() Accounts
	Counters() Counters

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Accounts interface {
	// GetByID returns an account by id.
	GetByID(ctx context.Context, id string) (domain.Account, error)

	// GetByEmail looks up an account by lowercased email within a variant
	// namespace.
	GetByEmail(ctx context.Context, variant domain.Variant, email string) (domain.Account, error)

	// List returns all accounts of a variant ordered by id. Ids share a
	// fixed-width numeric suffix, so this is allocation order.
	List(ctx context.Context, variant domain.Variant) ([]domain.Account, error)

	// Create inserts a new account. A unique violation on (variant, email)
	// or (variant, id) maps to ErrAlreadyExists.
	Create(ctx context.Context, a domain.Account) error

	// SetVerificationToken replaces any outstanding verification token.
	SetVerificationToken(ctx context.Context, id string, token string, expiresAt time.Time) error

	// ConsumeVerificationToken marks the matching unexpired account verified
	// and clears the token fields in one conditional update. An expired or
	// already consumed token behaves as absent (ErrNotFound).
	ConsumeVerificationToken(ctx context.Context, token string, now time.Time) (domain.Account, error)

	// SetResetToken replaces any outstanding reset token fingerprint.
	SetResetToken(ctx context.Context, id string, tokenHash string, expiresAt time.Time) error

	// ConsumeResetToken swaps the password hash and clears the reset fields
	// for the account matching an unexpired fingerprint, in one conditional
	// update. Returns ErrNotFound when no row matched.
	ConsumeResetToken(ctx context.Context, tokenHash string, now time.Time, newPasswordHash string) (domain.Account, error)

	// UpdatePasswordHash sets the password_hash (argon2) and bumps updated_at.
	UpdatePasswordHash(ctx context.Context, id string, newHash string) error

	// UpdateProfile fully replaces firstname/lastname/contact.
	UpdateProfile(ctx context.Context, id string, firstName, lastName, contact string) error

	// UpdateAvatar sets the avatar url and storage file id.
	UpdateAvatar(ctx context.Context, id string, avatarURL, avatarFileID string) error

	// ClearAvatar resets the avatar fields to empty.
	ClearAvatar(ctx context.Context, id string) error

	// Delete removes the account row.
	Delete(ctx context.Context, id string) error

	// ClearExpiredTokens nulls out verification and reset token fields whose
	// expiry has passed (housekeeping). Returns the number of rows touched.
	ClearExpiredTokens(ctx context.Context, now time.Time) (int64, error)
}

type Counters interface {
	// NextSequence atomically allocates the next id sequence number for a
	// variant namespace.
	NextSequence(ctx context.Context, variant domain.Variant) (int64, error)
}
