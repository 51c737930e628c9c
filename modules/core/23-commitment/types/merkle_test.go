package types_test

import (
	"testing"

	ics23 "github.com/confio/ics23/go"
	"github.com/stretchr/testify/require"

	"github.com/ComposableFi/hyperspace-verifier/modules/core/23-commitment/types"
	"github.com/ComposableFi/hyperspace-verifier/store/iavl"
)

// simpleMerkleExistence wraps value under key the way a one-element
// simple-merkle multistore commits to a sub-store root.
func simpleMerkleExistence(key, value []byte) *ics23.CommitmentProof {
	return &ics23.CommitmentProof{
		Proof: &ics23.CommitmentProof_Exist{
			Exist: &ics23.ExistenceProof{
				Key:   key,
				Value: value,
				Leaf: &ics23.LeafOp{
					Hash:         ics23.HashOp_SHA256,
					PrehashValue: ics23.HashOp_SHA256,
					Length:       ics23.LengthOp_VAR_PROTO,
					Prefix:       []byte{0},
				},
			},
		},
	}
}

func commitmentStore(t *testing.T, pairs map[string]string) *iavl.Tree {
	tree := iavl.NewTree()
	for key, value := range pairs {
		_, err := tree.Set([]byte(key), []byte(value))
		require.NoError(t, err)
	}
	return tree
}

func TestApplyPrefix(t *testing.T) {
	prefix := types.NewMerklePrefix([]byte("storePrefixKey"))
	path := types.NewMerklePath("path1", "path2")

	prefixedPath, err := types.ApplyPrefix(prefix, path)
	require.NoError(t, err)
	require.Equal(t, []string{"storePrefixKey", "path1", "path2"}, prefixedPath.KeyPath)

	_, err = types.ApplyPrefix(types.NewMerklePrefix(nil), path)
	require.Error(t, err)
}

func TestMerklePathKeys(t *testing.T) {
	path := types.NewMerklePath("ibc", "ports%2Ftransfer")
	require.Equal(t, "/ibc/ports%252Ftransfer", path.String())

	key, err := path.GetKey(1)
	require.NoError(t, err)
	require.Equal(t, []byte("ports/transfer"), key)

	_, err = path.GetKey(2)
	require.Error(t, err)
}

func TestVerifyMembershipSingleStore(t *testing.T) {
	tree := commitmentStore(t, map[string]string{
		"clients/10-grandpa-0/clientState": "state",
		"commitments/sequences/1":          "commitment",
	})
	root := types.NewMerkleRoot(tree.RootHash())

	innerProof, err := tree.ProveExistence([]byte("commitments/sequences/1"))
	require.NoError(t, err)
	proof := types.MerkleProof{Proofs: []*ics23.CommitmentProof{innerProof}}

	specs := types.GetProofSpecs()[:1]
	path := types.NewMerklePath("commitments/sequences/1")
	require.NoError(t, proof.VerifyMembership(specs, root, path, []byte("commitment")))

	err = proof.VerifyMembership(specs, root, path, []byte("forged"))
	require.ErrorIs(t, err, types.ErrProofMismatch)
}

func TestVerifyMembershipChained(t *testing.T) {
	tree := commitmentStore(t, map[string]string{
		"acks/1": "acknowledgement",
		"acks/2": "acknowledgement-two",
	})
	subroot := tree.RootHash()

	innerProof, err := tree.ProveExistence([]byte("acks/1"))
	require.NoError(t, err)
	outerProof := simpleMerkleExistence([]byte("ibc"), subroot)
	outerRoot, err := outerProof.Calculate()
	require.NoError(t, err)

	proof := types.MerkleProof{Proofs: []*ics23.CommitmentProof{innerProof, outerProof}}
	root := types.NewMerkleRoot(outerRoot)
	path := types.NewMerklePath("ibc", "acks/1")

	require.NoError(t, proof.VerifyMembership(types.GetProofSpecs(), root, path, []byte("acknowledgement")))

	err = proof.VerifyMembership(types.GetProofSpecs(), root, path, []byte("wrong"))
	require.ErrorIs(t, err, types.ErrProofMismatch)

	wrongRoot := types.NewMerkleRoot(subroot)
	err = proof.VerifyMembership(types.GetProofSpecs(), wrongRoot, path, []byte("acknowledgement"))
	require.ErrorIs(t, err, types.ErrProofMismatch)

	err = proof.VerifyMembership(types.GetProofSpecs(), root, types.NewMerklePath("acks/1"), []byte("acknowledgement"))
	require.ErrorIs(t, err, types.ErrInvalidProof)
}

func TestVerifyNonMembershipChained(t *testing.T) {
	tree := commitmentStore(t, map[string]string{
		"receipts/1": "receipt",
		"receipts/3": "receipt",
	})
	subroot := tree.RootHash()

	innerProof, err := tree.ProveNonExistence([]byte("receipts/2"))
	require.NoError(t, err)
	outerProof := simpleMerkleExistence([]byte("ibc"), subroot)
	outerRoot, err := outerProof.Calculate()
	require.NoError(t, err)

	proof := types.MerkleProof{Proofs: []*ics23.CommitmentProof{innerProof, outerProof}}
	root := types.NewMerkleRoot(outerRoot)

	require.NoError(t, proof.VerifyNonMembership(types.GetProofSpecs(), root, types.NewMerklePath("ibc", "receipts/2")))

	// an existence proof cannot demonstrate absence
	existProof, err := tree.ProveExistence([]byte("receipts/1"))
	require.NoError(t, err)
	badProof := types.MerkleProof{Proofs: []*ics23.CommitmentProof{existProof, outerProof}}
	err = badProof.VerifyNonMembership(types.GetProofSpecs(), root, types.NewMerklePath("ibc", "receipts/1"))
	require.ErrorIs(t, err, types.ErrInvalidProof)
}

func TestMerkleProofCodecRoundTrip(t *testing.T) {
	tree := commitmentStore(t, map[string]string{"alpha": "1", "bravo": "2"})
	root := types.NewMerkleRoot(tree.RootHash())

	innerProof, err := tree.ProveExistence([]byte("alpha"))
	require.NoError(t, err)
	proof := types.MerkleProof{Proofs: []*ics23.CommitmentProof{innerProof}}

	bz, err := types.MarshalMerkleProof(proof, []string{types.ProofOpIAVLCommitment})
	require.NoError(t, err)

	decoded, err := types.UnmarshalMerkleProof(bz)
	require.NoError(t, err)
	require.NoError(t, decoded.VerifyMembership(types.GetProofSpecs()[:1], root, types.NewMerklePath("alpha"), []byte("1")))

	_, err = types.MarshalMerkleProof(proof, []string{types.ProofOpIAVLCommitment, types.ProofOpSimpleMerkleCommitment})
	require.ErrorIs(t, err, types.ErrInvalidMerkleProof)

	_, err = types.UnmarshalMerkleProof([]byte("garbage"))
	require.Error(t, err)
}

func TestMerkleProofValidateBasic(t *testing.T) {
	var proof types.MerkleProof
	require.True(t, proof.Empty())
	require.Error(t, proof.ValidateBasic())

	err := proof.VerifyMembership(types.GetProofSpecs(), types.NewMerkleRoot([]byte("root")), types.NewMerklePath("a", "b"), []byte("v"))
	require.ErrorIs(t, err, types.ErrInvalidMerkleProof)
}
