package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/harborline/accountd/internal/accounts/domain"
	"github.com/harborline/accountd/internal/accounts/store"
	"github.com/harborline/accountd/pkg/cryptox"
	"github.com/harborline/accountd/pkg/slogx"
)

var (
	ErrDuplicateEmail = errors.New("email already registered")
)

// RegisterInput holds the validated registration fields.
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Contact   string
}

// createAttempts bounds the retry loop around the id uniqueness backstop.
const createAttempts = 3

// Register creates an unverified account with a fresh verification token and
// dispatches the verification email. User accounts get their link directly;
// admin links go to the IT approval address. A dispatch failure after the
// account committed returns the account together with ErrNotificationFailed.
func (s *AccountService) Register(ctx context.Context, variant domain.Variant, in RegisterInput) (domain.Account, error) {
	log := slogx.FromContext(ctx)
	email := strings.ToLower(strings.TrimSpace(in.Email))

	// 1. Hash the password before touching the store; the hash is the only
	// form the password ever takes at rest.
	hash, err := cryptox.HashPassword(in.Password)
	if err != nil {
		log.Error("failed to hash password", slog.Any("error", err))
		return domain.Account{}, err
	}

	// 2. Mint the verification token up front so the row is created complete.
	token, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		log.Error("failed to generate verification token", slog.Any("error", err))
		return domain.Account{}, err
	}
	expiresAt := time.Now().UTC().Add(s.tokenTTL())

	// 3. Allocate an id and insert. The counter upsert is atomic, so a
	// collision means a concurrent register already claimed the email.
	var account domain.Account
	for attempt := 0; attempt < createAttempts; attempt++ {
		seq, err := s.Store.Counters().NextSequence(ctx, variant)
		if err != nil {
			log.Error("failed to allocate account sequence", slog.Any("error", err))
			return domain.Account{}, err
		}

		now := time.Now().UTC()
		account = domain.Account{
			ID:                         variant.FormatID(seq),
			Variant:                    variant,
			Email:                      email,
			PasswordHash:               hash,
			FirstName:                  in.FirstName,
			LastName:                   in.LastName,
			Contact:                    in.Contact,
			IsVerified:                 false,
			VerificationToken:          &token,
			VerificationTokenExpiresAt: &expiresAt,
			CreatedAt:                  now,
			UpdatedAt:                  now,
		}

		err = s.Store.Accounts().Create(ctx, account)
		if err == nil {
			break
		}
		if !errors.Is(err, store.ErrAlreadyExists) {
			log.Error("failed to create account", slog.Any("error", err))
			return domain.Account{}, err
		}

		// Distinguish an email collision from an id collision: only the
		// latter is retryable.
		if _, lookupErr := s.Store.Accounts().GetByEmail(ctx, variant, email); lookupErr == nil {
			log.Warn("registration attempted with existing email",
				slog.String("variant", string(variant)),
			)
			return domain.Account{}, ErrDuplicateEmail
		}
		if attempt == createAttempts-1 {
			return domain.Account{}, fmt.Errorf("account id allocation exhausted retries: %w", err)
		}
	}

	log.Info("account registered",
		slog.String("account_id", account.ID),
		slog.String("variant", string(variant)),
	)

	// 4. Dispatch the verification email. The account already exists, so a
	// failure here is partial: surface it distinctly and let the caller retry.
	if err := s.sendVerification(ctx, account, token); err != nil {
		log.Warn("verification email failed after registration",
			slog.String("account_id", account.ID),
			slog.Any("error", err),
		)
		return account, fmt.Errorf("%w: %w", ErrNotificationFailed, err)
	}

	return account, nil
}

// sendVerification routes the verification link: users receive their own,
// admin links go to the IT approval address.
func (s *AccountService) sendVerification(ctx context.Context, account domain.Account, token string) error {
	link := s.verificationLink(token, string(account.Variant))

	if account.Variant == domain.VariantAdmin {
		return s.Notifier.Send(ctx, s.ITApprovalEmail, NotificationAdminApproval, NotificationData{
			DisplayName: account.DisplayName(),
			Email:       account.Email,
			Link:        link,
		})
	}
	return s.Notifier.Send(ctx, account.Email, NotificationVerification, NotificationData{
		DisplayName: account.DisplayName(),
		Email:       account.Email,
		Link:        link,
	})
}
