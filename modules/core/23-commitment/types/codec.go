package types

import (
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	"github.com/gogo/protobuf/proto"

	ics23 "github.com/confio/ics23/go"
	"github.com/tendermint/tendermint/proto/tendermint/crypto"
)

const (
	// ProofOpIAVLCommitment is the ProofOp type an ics23 proof produced by an
	// iavl commitment store is wrapped in.
	ProofOpIAVLCommitment = "ics23:iavl"
	// ProofOpSimpleMerkleCommitment is the ProofOp type an ics23 proof
	// produced by a simple-merkle multistore is wrapped in.
	ProofOpSimpleMerkleCommitment = "ics23:simple"
)

// ConvertProofs converts crypto.ProofOps into MerkleProof
func ConvertProofs(tmProof *crypto.ProofOps) (MerkleProof, error) {
	if tmProof == nil {
		return MerkleProof{}, sdkerrors.Wrapf(ErrInvalidMerkleProof, "tendermint proof is nil")
	}
	// Unmarshal all proof ops to ics23 commitment proof
	proofs := make([]*ics23.CommitmentProof, len(tmProof.Ops))
	for i, op := range tmProof.Ops {
		var p ics23.CommitmentProof
		if err := p.Unmarshal(op.Data); err != nil || p.Proof == nil {
			return MerkleProof{}, sdkerrors.Wrapf(ErrInvalidMerkleProof, "could not unmarshal proof op into CommitmentProof at index %d: %v", i, err)
		}
		proofs[i] = &p
	}
	return MerkleProof{
		Proofs: proofs,
	}, nil
}

// MarshalMerkleProof encodes the chained commitment proofs as a
// proto-serialized crypto.ProofOps record so that proofs round-trip
// byte-identically between the prover and the verifier.
func MarshalMerkleProof(proof MerkleProof, opTypes []string) ([]byte, error) {
	if len(opTypes) != len(proof.Proofs) {
		return nil, sdkerrors.Wrapf(ErrInvalidMerkleProof,
			"length of op types: %d not equal to length of proof: %d", len(opTypes), len(proof.Proofs))
	}
	ops := make([]crypto.ProofOp, len(proof.Proofs))
	for i, p := range proof.Proofs {
		bz, err := p.Marshal()
		if err != nil {
			return nil, sdkerrors.Wrapf(ErrInvalidMerkleProof, "could not marshal CommitmentProof at index %d: %v", i, err)
		}
		ops[i] = crypto.ProofOp{
			Type: opTypes[i],
			Key:  existenceKey(p),
			Data: bz,
		}
	}
	return proto.Marshal(&crypto.ProofOps{Ops: ops})
}

// UnmarshalMerkleProof decodes a proto-serialized crypto.ProofOps record
// produced by MarshalMerkleProof.
func UnmarshalMerkleProof(bz []byte) (MerkleProof, error) {
	var ops crypto.ProofOps
	if err := proto.Unmarshal(bz, &ops); err != nil {
		return MerkleProof{}, sdkerrors.Wrapf(ErrInvalidMerkleProof, "could not unmarshal proof ops: %v", err)
	}
	return ConvertProofs(&ops)
}

// existenceKey returns the key the proof demonstrates (non)membership of,
// used as the informational ProofOp key.
func existenceKey(p *ics23.CommitmentProof) []byte {
	switch proof := p.Proof.(type) {
	case *ics23.CommitmentProof_Exist:
		return proof.Exist.Key
	case *ics23.CommitmentProof_Nonexist:
		return proof.Nonexist.Key
	default:
		return nil
	}
}
