package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/harborline/accountd/internal/accounts/domain"
)

func TestAuthenticate_Success(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.registerVerified(t, "login@example.com")

	account, err := env.svc.Authenticate(ctx, domain.VariantUser, "login@example.com", "hunter22")
	require.NoError(t, err)
	require.Equal(t, "User-00001", account.ID)
	require.True(t, account.IsVerified)
}

func TestAuthenticate_UnknownEmailAndWrongPasswordLookAlike(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.registerVerified(t, "known@example.com")

	_, unknownErr := env.svc.Authenticate(ctx, domain.VariantUser, "ghost@example.com", "hunter22")
	_, wrongErr := env.svc.Authenticate(ctx, domain.VariantUser, "known@example.com", "wrongpass")

	require.ErrorIs(t, unknownErr, ErrInvalidCredentials)
	require.ErrorIs(t, wrongErr, ErrInvalidCredentials)
	require.Equal(t, unknownErr, wrongErr, "the two failures must be indistinguishable")
}

func TestAuthenticate_VariantsAreIsolated(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.registerVerified(t, "both@example.com")

	// Correct user credentials do not work against the admin namespace.
	_, err := env.svc.Authenticate(ctx, domain.VariantAdmin, "both@example.com", "hunter22")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticate_UnverifiedUser_RotatesTokenAndResends(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.svc.Register(ctx, domain.VariantUser, registerInput("slow@example.com"))
	require.NoError(t, err)
	firstToken := env.lastEmailToken(t)
	sentBefore := env.notifier.count()

	_, err = env.svc.Authenticate(ctx, domain.VariantUser, "slow@example.com", "hunter22")
	require.ErrorIs(t, err, ErrNotVerified)

	require.Equal(t, sentBefore+1, env.notifier.count(), "login must re-send the verification email")
	secondToken := env.lastEmailToken(t)
	require.NotEqual(t, firstToken, secondToken, "token must rotate on re-send")

	// The old token is dead, the new one verifies.
	_, err = env.svc.ConsumeVerificationToken(ctx, firstToken)
	require.ErrorIs(t, err, ErrInvalidOrExpiredToken)

	account, err := env.svc.ConsumeVerificationToken(ctx, secondToken)
	require.NoError(t, err)
	require.True(t, account.IsVerified)
}

func TestAuthenticate_UnverifiedAdmin_NoResend(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.svc.Register(ctx, domain.VariantAdmin, registerInput("pending@example.com"))
	require.NoError(t, err)
	sentBefore := env.notifier.count()

	_, err = env.svc.Authenticate(ctx, domain.VariantAdmin, "pending@example.com", "hunter22")
	require.ErrorIs(t, err, ErrNotVerified)
	require.Equal(t, sentBefore, env.notifier.count(), "admin approval is not re-sent on login")
}

func TestAuthenticate_WrongPasswordOnUnverified_NoLeak(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.svc.Register(ctx, domain.VariantUser, registerInput("u@example.com"))
	require.NoError(t, err)
	sentBefore := env.notifier.count()

	// Wrong password on an unverified account reports bad credentials, not
	// the verification state, and triggers no resend.
	_, err = env.svc.Authenticate(ctx, domain.VariantUser, "u@example.com", "wrongpass")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	require.Equal(t, sentBefore, env.notifier.count())
}
