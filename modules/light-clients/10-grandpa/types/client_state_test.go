package types_test

import (
	"testing"

	substrate "github.com/centrifuge/go-substrate-rpc-client/v4/types"
	ics23 "github.com/confio/ics23/go"
	"github.com/stretchr/testify/require"

	clienttypes "github.com/ComposableFi/hyperspace-verifier/modules/core/02-client/types"
	commitmenttypes "github.com/ComposableFi/hyperspace-verifier/modules/core/23-commitment/types"
	"github.com/ComposableFi/hyperspace-verifier/modules/core/exported"
	"github.com/ComposableFi/hyperspace-verifier/modules/light-clients/10-grandpa/types"
	"github.com/ComposableFi/hyperspace-verifier/store/iavl"
)

func TestClientStateValidate(t *testing.T) {
	_, set := genAuthorities(t, 1, 1)
	_, nextSet := genAuthorities(t, 1)

	clientState := types.NewClientState(set, substrate.Hash{}, 5)
	require.NoError(t, clientState.Validate())
	require.Equal(t, exported.Grandpa, clientState.ClientType())
	require.Equal(t, exported.Active, clientState.Status())

	require.Error(t, types.NewClientState(types.AuthoritySet{}, substrate.Hash{}, 5).Validate())
	require.Error(t, types.NewClientState(set, substrate.Hash{}, 0).Validate())

	clientState.PendingChange = &types.PendingChange{
		NextAuthorities:  types.NewAuthoritySet(5, nextSet.Authorities),
		ActivationHeight: 10,
	}
	require.ErrorIs(t, clientState.Validate(), clienttypes.ErrInvalidClient)

	clientState.PendingChange.NextAuthorities = types.NewAuthoritySet(1, nextSet.Authorities)
	require.NoError(t, clientState.Validate())
}

func TestClientStateVerifyMembership(t *testing.T) {
	_, set := genAuthorities(t, 1, 1)
	clientState := types.NewClientState(set, substrate.Hash{}, 5)

	tree := iavl.NewTree()
	_, err := tree.Set([]byte("commitments/sequences/3"), []byte("commitment-hash"))
	require.NoError(t, err)
	_, err = tree.Set([]byte("commitments/sequences/5"), []byte("other-commitment"))
	require.NoError(t, err)
	root := commitmenttypes.NewMerkleRoot(tree.RootHash())

	existProof, err := tree.ProveExistence([]byte("commitments/sequences/3"))
	require.NoError(t, err)
	proof := commitmenttypes.MerkleProof{Proofs: []*ics23.CommitmentProof{existProof}}
	path := commitmenttypes.NewMerklePath("commitments/sequences/3")

	require.NoError(t, clientState.VerifyMembership(root, proof, path, []byte("commitment-hash")))
	require.Error(t, clientState.VerifyMembership(root, proof, path, []byte("forged")))

	absentProof, err := tree.ProveNonExistence([]byte("commitments/sequences/4"))
	require.NoError(t, err)
	nonProof := commitmenttypes.MerkleProof{Proofs: []*ics23.CommitmentProof{absentProof}}
	require.NoError(t, clientState.VerifyNonMembership(root, nonProof, commitmenttypes.NewMerklePath("commitments/sequences/4")))

	// path deeper than the supported store nesting
	deepPath := commitmenttypes.NewMerklePath("a", "b", "c")
	err = clientState.VerifyMembership(root, proof, deepPath, []byte("commitment-hash"))
	require.ErrorIs(t, err, commitmenttypes.ErrInvalidProof)

	err = clientState.VerifyMembership(root, proof, commitmenttypes.NewMerklePath(), []byte("commitment-hash"))
	require.ErrorIs(t, err, commitmenttypes.ErrInvalidProof)

	clientState.FrozenHeight = 3
	err = clientState.VerifyMembership(root, proof, path, []byte("commitment-hash"))
	require.ErrorIs(t, err, clienttypes.ErrClientFrozen)
	err = clientState.VerifyNonMembership(root, nonProof, commitmenttypes.NewMerklePath("commitments/sequences/4"))
	require.ErrorIs(t, err, clienttypes.ErrClientFrozen)
}
