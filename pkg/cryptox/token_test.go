package cryptox

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateToken(t *testing.T) {
	token, err := GenerateToken(TokenSize256)
	require.NoError(t, err)
	require.Len(t, token, 43, "32 bytes encode to 43 base64url chars")

	other, err := GenerateToken(TokenSize256)
	require.NoError(t, err)
	require.NotEqual(t, token, other)
}

func TestGenerateToken_InvalidSize(t *testing.T) {
	_, err := GenerateToken(0)
	require.Error(t, err)

	_, err = GenerateToken(-1)
	require.Error(t, err)
}

func TestFingerprintToken(t *testing.T) {
	token := "some-opaque-token"

	fp1 := FingerprintToken(token)
	fp2 := FingerprintToken(token)
	require.Equal(t, fp1, fp2, "fingerprint must be deterministic")
	require.NotEqual(t, token, fp1)

	require.NotEqual(t, fp1, FingerprintToken("some-other-token"))
}
