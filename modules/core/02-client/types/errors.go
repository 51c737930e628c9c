package types

import (
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
)

// SubModuleName defines the IBC client name
const SubModuleName string = "client"

// IBC client sentinel errors
var (
	ErrInvalidClient     = sdkerrors.Register(SubModuleName, 2, "light client is invalid")
	ErrClientFrozen      = sdkerrors.Register(SubModuleName, 3, "light client is frozen due to misbehaviour")
	ErrInvalidConsensus  = sdkerrors.Register(SubModuleName, 4, "invalid consensus state")
	ErrInvalidHeader     = sdkerrors.Register(SubModuleName, 5, "invalid client header")
	ErrInvalidHeight     = sdkerrors.Register(SubModuleName, 6, "invalid height")
	ErrInvalidClientType = sdkerrors.Register(SubModuleName, 7, "invalid client type")
)
