package provider

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistryListOrder(t *testing.T) {
	t.Parallel()

	reg := NewRegistry(NewTOTP("TwoFactor"), NewAuthy(false))

	list := reg.List()
	require.Len(t, list, 2)
	require.Equal(t, TOTPProviderID, list[0].ID)
	require.Equal(t, "Time-based code", list[0].DisplayName)
	require.Equal(t, AuthyProviderID, list[1].ID)
	require.Equal(t, "Push verification", list[1].DisplayName)
}

func TestRegistryResolve(t *testing.T) {
	t.Parallel()

	reg := NewRegistry(NewTOTP("TwoFactor"), NewAuthy(false))

	p, err := reg.Resolve("totp")
	require.NoError(t, err)
	require.Equal(t, TOTPProviderID, p.Descriptor().ID)

	_, err = reg.Resolve("TOTP")
	require.ErrorIs(t, err, ErrUnknownProvider, "matching is case-sensitive")

	_, err = reg.Resolve("sms")
	require.ErrorIs(t, err, ErrUnknownProvider)
}
