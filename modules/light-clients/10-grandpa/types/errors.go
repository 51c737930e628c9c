package types

import (
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
)

const (
	SubModuleName = "grandpa-client"
)

// IBC grandpa client errors. Every rejection is deterministic for the given
// inputs: the caller must fetch a corrected header or justification, a retry
// with the same bytes will fail the same way.
var (
	ErrDecode              = sdkerrors.Register(SubModuleName, 2, "could not decode input bytes")
	ErrBrokenAncestry      = sdkerrors.Register(SubModuleName, 3, "precommit target does not connect to the justification target")
	ErrInvalidSignature    = sdkerrors.Register(SubModuleName, 4, "invalid precommit signature")
	ErrDuplicateVote       = sdkerrors.Register(SubModuleName, 5, "duplicate vote by the same authority")
	ErrInsufficientWeight  = sdkerrors.Register(SubModuleName, 6, "justification does not reach supermajority weight")
	ErrSetIDMismatch       = sdkerrors.Register(SubModuleName, 7, "justification references an authority set id that is not trusted")
	ErrStaleRound          = sdkerrors.Register(SubModuleName, 8, "justification round is not newer than the last verified round")
	ErrInvalidAuthoritySet = sdkerrors.Register(SubModuleName, 9, "invalid authority set")
	ErrForcedChange        = sdkerrors.Register(SubModuleName, 10, "forced authority set changes are not supported")
)
