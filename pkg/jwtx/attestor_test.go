package jwtx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestAttestorMintAndVerify(t *testing.T) {
	t.Parallel()

	a, err := NewAttestor("twofactor", time.Minute)
	require.NoError(t, err)
	require.True(t, a.IsReady())

	token, err := a.Mint("alice", "totp")
	require.NoError(t, err)

	claims, err := a.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "alice", claims.Subject)
	require.Equal(t, []string{"totp"}, claims.AMR)
	require.NotEmpty(t, claims.ID)
	require.False(t, MustJTI(claims).IsZero())
}

func TestAttestorRejectsForeignTokens(t *testing.T) {
	t.Parallel()

	a, err := NewAttestor("twofactor", time.Minute)
	require.NoError(t, err)
	b, err := NewAttestor("twofactor", time.Minute)
	require.NoError(t, err)

	token, err := a.Mint("alice", "totp")
	require.NoError(t, err)

	// b has different keys and a different kid, so a's tokens must not verify.
	_, err = b.Verify(token)
	require.Error(t, err)
}

func TestAttestorRejectsExpired(t *testing.T) {
	t.Parallel()

	a, err := NewAttestor("twofactor", time.Nanosecond)
	require.NoError(t, err)

	token, err := a.Mint("alice", "authy")
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)
	_, err = a.Verify(token)
	require.Error(t, err)
}

func TestJWKSContainsSigningKey(t *testing.T) {
	t.Parallel()

	a, err := NewAttestor("twofactor", time.Minute)
	require.NoError(t, err)

	set := a.JWKS()
	require.Len(t, set.Keys, 1)
	require.Equal(t, "OKP", set.Keys[0].Kty)
	require.Equal(t, "Ed25519", set.Keys[0].Crv)
	require.Equal(t, a.KID(), set.Keys[0].Kid)
	require.NotEmpty(t, set.Keys[0].X)
}
