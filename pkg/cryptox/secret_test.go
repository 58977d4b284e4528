package cryptox

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateSecretLengths(t *testing.T) {
	t.Parallel()

	tests := []struct {
		size    int
		encoded int
	}{
		{SecretSize80, 16},
		{SecretSize128, 26},
		{SecretSize160, 32},
	}

	for _, tc := range tests {
		secret, err := GenerateSecret(tc.size)
		require.NoError(t, err)
		require.Len(t, secret, tc.encoded)
		require.True(t, ValidSecretLength(secret))
	}
}

func TestGenerateSecretRejectsBadSize(t *testing.T) {
	t.Parallel()

	_, err := GenerateSecret(0)
	require.Error(t, err)
	_, err = GenerateSecret(-1)
	require.Error(t, err)
}

func TestDecodeEncodeInverse(t *testing.T) {
	t.Parallel()

	// Encode(Decode(s)) == s must hold for every accepted length.
	for _, size := range []int{SecretSize80, SecretSize128, SecretSize160} {
		secret, err := GenerateSecret(size)
		require.NoError(t, err)

		raw, err := DecodeSecret(secret)
		require.NoError(t, err)
		require.Len(t, raw, size)
		require.Equal(t, secret, EncodeSecret(raw))
	}
}

func TestDecodeSecretNormalizesCase(t *testing.T) {
	t.Parallel()

	raw, err := DecodeSecret("jbswy3dpehpk3pxp")
	require.NoError(t, err)
	require.Equal(t, "JBSWY3DPEHPK3PXP", EncodeSecret(raw))
}

func TestDecodeSecretRejectsOddLengths(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"", "ABC", "JBSWY3DPEHPK3PX", "JBSWY3DPEHPK3PXPA"} {
		_, err := DecodeSecret(s)
		require.Error(t, err, "input %q", s)
	}
}
