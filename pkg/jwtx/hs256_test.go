package jwtx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func testSigner(t *testing.T) *HS256 {
	t.Helper()
	s, err := NewHS256([]byte("0123456789abcdef0123456789abcdef"))
	require.NoError(t, err)
	return s
}

func TestNewHS256_RejectsShortSecret(t *testing.T) {
	_, err := NewHS256([]byte("too short"))
	require.Error(t, err)
}

func TestSignAndVerify(t *testing.T) {
	s := testSigner(t)

	claims := NewSessionClaims("User-00001", "user", "Jane Doe", "https://cdn.example.com/a.png",
		"accountd", time.Hour, time.Now().UTC())

	raw, err := s.Sign(claims)
	require.NoError(t, err)
	require.NotEmpty(t, raw)

	got, err := s.Verify(raw)
	require.NoError(t, err)
	require.Equal(t, "User-00001", got.Subject)
	require.Equal(t, "user", got.Role)
	require.Equal(t, "Jane Doe", got.DisplayName)
	require.Equal(t, "https://cdn.example.com/a.png", got.AvatarURL)
	require.NoError(t, got.ValidateExpiry())
	require.NoError(t, got.ValidateIssuer("accountd"))
}

func TestVerify_WrongSecret(t *testing.T) {
	s := testSigner(t)
	other, err := NewHS256([]byte("ffffffffffffffffffffffffffffffff"))
	require.NoError(t, err)

	claims := NewSessionClaims("User-00001", "user", "Jane Doe", "",
		"accountd", time.Hour, time.Now().UTC())
	raw, err := s.Sign(claims)
	require.NoError(t, err)

	_, err = other.Verify(raw)
	require.ErrorIs(t, err, ErrSignature)
}

func TestVerify_Malformed(t *testing.T) {
	s := testSigner(t)

	_, err := s.Verify("not.a.jwt")
	require.Error(t, err)

	_, err = s.Verify("")
	require.ErrorIs(t, err, ErrMalformed)
}

func TestValidateExpiry(t *testing.T) {
	expired := NewSessionClaims("User-00001", "user", "", "",
		"accountd", -time.Minute, time.Now().UTC().Add(-time.Hour))
	require.ErrorIs(t, expired.ValidateExpiry(), ErrExpired)

	future := NewSessionClaims("User-00001", "user", "", "",
		"accountd", time.Hour, time.Now().UTC().Add(time.Hour))
	require.ErrorIs(t, future.ValidateExpiry(), ErrNotYetValid)
}

func TestValidateIssuer(t *testing.T) {
	claims := NewSessionClaims("User-00001", "user", "", "",
		"accountd", time.Hour, time.Now().UTC())

	require.NoError(t, claims.ValidateIssuer("accountd"))
	require.NoError(t, claims.ValidateIssuer(""), "empty expectation skips the check")
	require.ErrorIs(t, claims.ValidateIssuer("someone-else"), ErrIssuer)
}
