package types

import (
	"encoding/hex"
	"strings"

	"github.com/ChainSafe/gossamer/pkg/scale"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
)

// Encode scale encodes the given value.
func Encode(value interface{}) ([]byte, error) {
	return scale.Marshal(value)
}

// Decode scale decodes bz into target, which must be a pointer.
func Decode(bz []byte, target interface{}) error {
	return scale.Unmarshal(bz, target)
}

// DecodeFromHexString scale decodes a hex string, with or without a 0x
// prefix, into target.
func DecodeFromHexString(str string, target interface{}) error {
	bz, err := hex.DecodeString(strings.TrimPrefix(str, "0x"))
	if err != nil {
		return err
	}
	return Decode(bz, target)
}

// MarshalClientState scale encodes the trusted state for persistence. The
// encoding round-trips byte-identically through UnmarshalClientState.
func MarshalClientState(cs *ClientState) ([]byte, error) {
	bz, err := Encode(*cs)
	if err != nil {
		return nil, sdkerrors.Wrapf(ErrDecode, "client state encode: %v", err)
	}
	return bz, nil
}

// UnmarshalClientState decodes a persisted trusted state.
func UnmarshalClientState(bz []byte) (*ClientState, error) {
	var cs ClientState
	if err := Decode(bz, &cs); err != nil {
		return nil, sdkerrors.Wrapf(ErrDecode, "client state decode: %v", err)
	}
	return &cs, nil
}

// MarshalConsensusState scale encodes a consensus state.
func MarshalConsensusState(consensusState *ConsensusState) ([]byte, error) {
	bz, err := Encode(*consensusState)
	if err != nil {
		return nil, sdkerrors.Wrapf(ErrDecode, "consensus state encode: %v", err)
	}
	return bz, nil
}

// UnmarshalConsensusState decodes a persisted consensus state.
func UnmarshalConsensusState(bz []byte) (*ConsensusState, error) {
	var consensusState ConsensusState
	if err := Decode(bz, &consensusState); err != nil {
		return nil, sdkerrors.Wrapf(ErrDecode, "consensus state decode: %v", err)
	}
	return &consensusState, nil
}
