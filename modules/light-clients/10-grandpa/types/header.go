package types

import (
	"github.com/ChainSafe/gossamer/lib/common"
	substrate "github.com/centrifuge/go-substrate-rpc-client/v4/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	clienttypes "github.com/ComposableFi/hyperspace-verifier/modules/core/02-client/types"
	"github.com/ComposableFi/hyperspace-verifier/modules/core/exported"
)

var _ exported.ClientMessage = (*Header)(nil)

const revisionNumber = 0

// Header is the client message advancing the trusted state: a SCALE-encoded
// substrate header together with the justification finalizing it.
type Header struct {
	EncodedHeader []byte
	Justification Justification
}

// DecodeSubstrateHeader decodes SCALE-encoded header bytes into a concrete
// substrate header.
func DecodeSubstrateHeader(hb []byte) (substrate.Header, error) {
	h := substrate.Header{}
	if err := substrate.DecodeFromBytes(hb, &h); err != nil {
		return substrate.Header{}, sdkerrors.Wrapf(ErrDecode, "substrate header: %v", err)
	}
	return h, nil
}

// Hash returns the blake2b hash of the encoded header, which is the hash the
// justification's votes commit to.
func (h Header) Hash() (substrate.Hash, error) {
	hash, err := common.Blake2bHash(h.EncodedHeader)
	if err != nil {
		return substrate.Hash{}, sdkerrors.Wrapf(ErrDecode, "header hash: %v", err)
	}
	return substrate.NewHash(hash[:]), nil
}

// ConsensusState returns the consensus state the header advertises: its
// state root, against which commitment proofs for this height verify.
func (h Header) ConsensusState() (*ConsensusState, error) {
	decoded, err := DecodeSubstrateHeader(h.EncodedHeader)
	if err != nil {
		return nil, err
	}
	return NewConsensusState(decoded.StateRoot[:]), nil
}

// ClientType defines that the Header carries GRANDPA finality
func (h Header) ClientType() string {
	return exported.Grandpa
}

// GetHeight returns the height the header finalizes.
func (h Header) GetHeight() (exported.Height, error) {
	decoded, err := DecodeSubstrateHeader(h.EncodedHeader)
	if err != nil {
		return nil, err
	}
	return clienttypes.NewHeight(revisionNumber, uint64(decoded.Number)), nil
}

// ValidateBasic checks that the header decodes and that the justification's
// target is the header itself. Everything signature- and weight-related is
// left to verification against a trusted state.
func (h Header) ValidateBasic() error {
	if len(h.EncodedHeader) == 0 {
		return sdkerrors.Wrap(clienttypes.ErrInvalidHeader, "encoded header cannot be empty")
	}
	decoded, err := DecodeSubstrateHeader(h.EncodedHeader)
	if err != nil {
		return err
	}

	hash, err := h.Hash()
	if err != nil {
		return err
	}
	target := h.Justification.Target
	if target.Hash != hash || target.Number != uint32(decoded.Number) {
		return sdkerrors.Wrapf(clienttypes.ErrInvalidHeader,
			"justification target (%s, %d) is not the submitted header (%s, %d)",
			target.Hash.Hex(), target.Number, hash.Hex(), uint32(decoded.Number))
	}
	if len(h.Justification.Precommits) == 0 {
		return sdkerrors.Wrap(clienttypes.ErrInvalidHeader, "justification carries no precommits")
	}
	return nil
}
