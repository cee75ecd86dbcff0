package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/harborline/accountd/internal/accounts/domain"
	"github.com/harborline/accountd/internal/accounts/store"
)

type accountsRepo struct {
	db querier
}

const accountColumns = `id, variant, email, password_hash, first_name, last_name,
	contact, avatar_url, avatar_file_id, is_verified,
	verification_token, verification_token_expires_at,
	reset_token_hash, reset_token_expires_at,
	created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (domain.Account, error) {
	var (
		a                                 domain.Account
		variant                           string
		contact, avatarURL, avatarFileID  sql.NullString
		verificationToken, resetTokenHash sql.NullString
		verificationExpires, resetExpires sql.NullTime
	)
	err := row.Scan(
		&a.ID, &variant, &a.Email, &a.PasswordHash, &a.FirstName, &a.LastName,
		&contact, &avatarURL, &avatarFileID, &a.IsVerified,
		&verificationToken, &verificationExpires,
		&resetTokenHash, &resetExpires,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return domain.Account{}, err
	}
	a.Variant = domain.Variant(variant)
	a.Contact = mapNullString(contact)
	a.AvatarURL = mapNullString(avatarURL)
	a.AvatarFileID = mapNullString(avatarFileID)
	a.VerificationToken = mapNullStringPtr(verificationToken)
	a.VerificationTokenExpiresAt = mapNullTimePtr(verificationExpires)
	a.ResetTokenHash = mapNullStringPtr(resetTokenHash)
	a.ResetTokenExpiresAt = mapNullTimePtr(resetExpires)
	return a, nil
}

func (r *accountsRepo) GetByID(ctx context.Context, id string) (domain.Account, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = ?`, id)
	a, err := scanAccount(row)
	if err != nil {
		return domain.Account{}, mapNotFound(err)
	}
	return a, nil
}

func (r *accountsRepo) GetByEmail(ctx context.Context, variant domain.Variant, email string) (domain.Account, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE variant = ? AND email = ?`,
		string(variant), email)
	a, err := scanAccount(row)
	if err != nil {
		return domain.Account{}, mapNotFound(err)
	}
	return a, nil
}

func (r *accountsRepo) List(ctx context.Context, variant domain.Variant) ([]domain.Account, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE variant = ? ORDER BY id ASC`,
		string(variant))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *accountsRepo) Create(ctx context.Context, a domain.Account) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO accounts (
			id, variant, email, password_hash, first_name, last_name,
			contact, avatar_url, avatar_file_id, is_verified,
			verification_token, verification_token_expires_at,
			reset_token_hash, reset_token_expires_at,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, string(a.Variant), a.Email, a.PasswordHash, a.FirstName, a.LastName,
		mapStringNull(a.Contact), mapStringNull(a.AvatarURL), mapStringNull(a.AvatarFileID),
		a.IsVerified,
		mapOptionalString(a.VerificationToken), mapOptionalTime(a.VerificationTokenExpiresAt),
		mapOptionalString(a.ResetTokenHash), mapOptionalTime(a.ResetTokenExpiresAt),
		a.CreatedAt, a.UpdatedAt,
	)
	return mapConstraint(err)
}

func (r *accountsRepo) SetVerificationToken(ctx context.Context, id string, token string, expiresAt time.Time) error {
	return r.exec(ctx, `
		UPDATE accounts
		SET verification_token = ?, verification_token_expires_at = ?, updated_at = ?
		WHERE id = ?`,
		token, expiresAt, time.Now().UTC(), id)
}

func (r *accountsRepo) ConsumeVerificationToken(ctx context.Context, token string, now time.Time) (domain.Account, error) {
	// Single conditional update: an expired or already consumed token matches
	// no row and is indistinguishable from an unknown one.
	row := r.db.QueryRowContext(ctx, `
		UPDATE accounts
		SET is_verified = 1,
			verification_token = NULL,
			verification_token_expires_at = NULL,
			updated_at = ?
		WHERE verification_token = ? AND verification_token_expires_at > ?
		RETURNING `+accountColumns,
		now, token, now)
	a, err := scanAccount(row)
	if err != nil {
		return domain.Account{}, mapNotFound(err)
	}
	return a, nil
}

func (r *accountsRepo) SetResetToken(ctx context.Context, id string, tokenHash string, expiresAt time.Time) error {
	return r.exec(ctx, `
		UPDATE accounts
		SET reset_token_hash = ?, reset_token_expires_at = ?, updated_at = ?
		WHERE id = ?`,
		tokenHash, expiresAt, time.Now().UTC(), id)
}

func (r *accountsRepo) ConsumeResetToken(ctx context.Context, tokenHash string, now time.Time, newPasswordHash string) (domain.Account, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE accounts
		SET password_hash = ?,
			reset_token_hash = NULL,
			reset_token_expires_at = NULL,
			updated_at = ?
		WHERE reset_token_hash = ? AND reset_token_expires_at > ?
		RETURNING `+accountColumns,
		newPasswordHash, now, tokenHash, now)
	a, err := scanAccount(row)
	if err != nil {
		return domain.Account{}, mapNotFound(err)
	}
	return a, nil
}

func (r *accountsRepo) UpdatePasswordHash(ctx context.Context, id string, newHash string) error {
	return r.exec(ctx, `
		UPDATE accounts SET password_hash = ?, updated_at = ? WHERE id = ?`,
		newHash, time.Now().UTC(), id)
}

func (r *accountsRepo) UpdateProfile(ctx context.Context, id string, firstName, lastName, contact string) error {
	return r.exec(ctx, `
		UPDATE accounts
		SET first_name = ?, last_name = ?, contact = ?, updated_at = ?
		WHERE id = ?`,
		firstName, lastName, mapStringNull(contact), time.Now().UTC(), id)
}

func (r *accountsRepo) UpdateAvatar(ctx context.Context, id string, avatarURL, avatarFileID string) error {
	return r.exec(ctx, `
		UPDATE accounts
		SET avatar_url = ?, avatar_file_id = ?, updated_at = ?
		WHERE id = ?`,
		mapStringNull(avatarURL), mapStringNull(avatarFileID), time.Now().UTC(), id)
}

func (r *accountsRepo) ClearAvatar(ctx context.Context, id string) error {
	return r.exec(ctx, `
		UPDATE accounts
		SET avatar_url = NULL, avatar_file_id = NULL, updated_at = ?
		WHERE id = ?`,
		time.Now().UTC(), id)
}

func (r *accountsRepo) Delete(ctx context.Context, id string) error {
	return r.exec(ctx, `DELETE FROM accounts WHERE id = ?`, id)
}

func (r *accountsRepo) ClearExpiredTokens(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE accounts
		SET verification_token = CASE
				WHEN verification_token_expires_at <= ? THEN NULL
				ELSE verification_token END,
			verification_token_expires_at = CASE
				WHEN verification_token_expires_at <= ? THEN NULL
				ELSE verification_token_expires_at END,
			reset_token_hash = CASE
				WHEN reset_token_expires_at <= ? THEN NULL
				ELSE reset_token_hash END,
			reset_token_expires_at = CASE
				WHEN reset_token_expires_at <= ? THEN NULL
				ELSE reset_token_expires_at END
		WHERE (verification_token_expires_at IS NOT NULL AND verification_token_expires_at <= ?)
		   OR (reset_token_expires_at IS NOT NULL AND reset_token_expires_at <= ?)`,
		now, now, now, now, now, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// exec runs an update that must touch exactly one row; a zero-row update
// means the target account does not exist.
func (r *accountsRepo) exec(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
