package types_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ComposableFi/hyperspace-verifier/modules/light-clients/10-grandpa/types"
)

func TestAuthoritySetValidate(t *testing.T) {
	_, set := genAuthorities(t, 1, 2)
	require.NoError(t, set.Validate())

	empty := types.NewAuthoritySet(0, nil)
	require.ErrorIs(t, empty.Validate(), types.ErrInvalidAuthoritySet)

	zeroWeight := types.NewAuthoritySet(0, []types.Authority{{Weight: 0}})
	require.ErrorIs(t, zeroWeight.Validate(), types.ErrInvalidAuthoritySet)
}

func TestAuthoritySetWeights(t *testing.T) {
	_, set := genAuthorities(t, 1, 2, 3)
	require.EqualValues(t, 6, set.TotalWeight())
	require.EqualValues(t, 5, set.Threshold())

	_, unit := genAuthorities(t, 1, 1, 1, 1)
	require.EqualValues(t, 4, unit.TotalWeight())
	require.EqualValues(t, 3, unit.Threshold())
}

func TestAuthoritySetCopiesInput(t *testing.T) {
	_, seed := genAuthorities(t, 1, 2)
	authorities := seed.Authorities

	set := types.NewAuthoritySet(3, authorities)
	authorities[0].Weight = 99
	require.EqualValues(t, 1, set.Authorities[0].Weight)
}

func TestAuthoritySetCommitment(t *testing.T) {
	_, set := genAuthorities(t, 1, 2, 3)

	first, err := set.Commitment()
	require.NoError(t, err)
	require.Len(t, first, 32)

	second, err := set.Commitment()
	require.NoError(t, err)
	require.Equal(t, first, second)

	// the commitment binds the ordering of the set
	reversed := make([]types.Authority, len(set.Authorities))
	for i, authority := range set.Authorities {
		reversed[len(reversed)-1-i] = authority
	}
	other, err := types.NewAuthoritySet(set.ID, reversed).Commitment()
	require.NoError(t, err)
	require.NotEqual(t, first, other)
}
