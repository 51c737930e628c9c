package types

import (
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	clienttypes "github.com/ComposableFi/hyperspace-verifier/modules/core/02-client/types"
	commitmenttypes "github.com/ComposableFi/hyperspace-verifier/modules/core/23-commitment/types"
	"github.com/ComposableFi/hyperspace-verifier/modules/core/exported"
)

var _ exported.ConsensusState = (*ConsensusState)(nil)

// ConsensusState holds the commitment root a finalized header advertised.
// Packet and state proofs for that height verify against this root.
type ConsensusState struct {
	Root []byte
}

// NewConsensusState creates a new ConsensusState instance.
func NewConsensusState(root []byte) *ConsensusState {
	return &ConsensusState{
		Root: root,
	}
}

// ClientType returns grandpa
func (ConsensusState) ClientType() string {
	return exported.Grandpa
}

// GetRoot returns the commitment root of the consensus state
func (cs ConsensusState) GetRoot() exported.Root {
	return commitmenttypes.NewMerkleRoot(cs.Root)
}

// ValidateBasic defines a basic validation for the grandpa consensus state.
func (cs ConsensusState) ValidateBasic() error {
	if len(cs.Root) == 0 {
		return sdkerrors.Wrap(clienttypes.ErrInvalidConsensus, "root cannot be empty")
	}
	return nil
}
