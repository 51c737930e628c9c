package types

import (
	"encoding/binary"

	"github.com/ChainSafe/gossamer/pkg/scale"
	"github.com/ChainSafe/log15"
	substrate "github.com/centrifuge/go-substrate-rpc-client/v4/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	clienttypes "github.com/ComposableFi/hyperspace-verifier/modules/core/02-client/types"
	"github.com/ComposableFi/hyperspace-verifier/modules/core/exported"
)

// grandpaEngineID identifies GRANDPA consensus digest items ("FRNK").
var grandpaEngineID = substrate.ConsensusEngineID(binary.LittleEndian.Uint32([]byte("FRNK")))

// GRANDPA consensus log variants carried in FRNK digest items.
const (
	consensusLogScheduledChange uint8 = 1
	consensusLogForcedChange    uint8 = 2
)

// scheduledChange is the payload of a ScheduledChange consensus log: the
// authority set that takes over Delay blocks after the block announcing it.
type scheduledChange struct {
	NextAuthorities []Authority
	Delay           uint32
}

// CheckHeaderAndUpdateState verifies the submitted header's justification
// against the trusted state and, on success, returns the advanced client
// state together with the consensus state for the finalized height. The
// receiver is never mutated; any error leaves the trusted state exactly as
// it was, and resubmitting the same bytes fails the same way.
func (cs ClientState) CheckHeaderAndUpdateState(msg exported.ClientMessage) (exported.ClientState, exported.ConsensusState, error) {
	header, ok := msg.(*Header)
	if !ok {
		return nil, nil, sdkerrors.Wrapf(clienttypes.ErrInvalidClientType, "expected type %T, got %T", &Header{}, msg)
	}

	if cs.Status() != exported.Active {
		return nil, nil, sdkerrors.Wrapf(clienttypes.ErrClientFrozen, "client frozen at height %d", cs.FrozenHeight)
	}

	if err := header.ValidateBasic(); err != nil {
		return nil, nil, err
	}
	decoded, err := DecodeSubstrateHeader(header.EncodedHeader)
	if err != nil {
		return nil, nil, err
	}
	number := uint32(decoded.Number)

	if number <= cs.LatestHeight {
		return nil, nil, sdkerrors.Wrapf(clienttypes.ErrInvalidHeight,
			"header height %d is not newer than latest finalized height %d", number, cs.LatestHeight)
	}

	if err := VerifyJustification(cs.Authorities, cs.LatestRound, &header.Justification); err != nil {
		return nil, nil, err
	}

	hash, err := header.Hash()
	if err != nil {
		return nil, nil, err
	}

	newClientState := cs
	newClientState.LatestHash = hash
	newClientState.LatestHeight = number
	newClientState.LatestRound = header.Justification.Round

	// A pending rotation activates on the first accepted header at or past
	// its activation height. The swap happens exactly once; later headers
	// verify against the new set.
	if pending := cs.PendingChange; pending != nil && number >= pending.ActivationHeight {
		newClientState.Authorities = pending.NextAuthorities
		newClientState.PendingChange = nil
		log15.Debug("authority set rotated",
			"set_id", newClientState.Authorities.ID, "activation_height", pending.ActivationHeight, "height", number)
	}

	change, err := findScheduledChange(decoded.Digest)
	if err != nil {
		return nil, nil, err
	}
	if change != nil {
		if newClientState.PendingChange != nil {
			return nil, nil, sdkerrors.Wrapf(ErrInvalidAuthoritySet,
				"header at height %d schedules a change while one is already pending at height %d",
				number, newClientState.PendingChange.ActivationHeight)
		}
		next := NewAuthoritySet(newClientState.Authorities.ID+1, change.NextAuthorities)
		if err := next.Validate(); err != nil {
			return nil, nil, sdkerrors.Wrapf(ErrInvalidAuthoritySet, "scheduled change: %v", err)
		}
		pending := &PendingChange{
			NextAuthorities:  next,
			ActivationHeight: number + change.Delay,
		}
		if change.Delay == 0 {
			// Immediate handover: the announcing block is the last one the
			// old set finalizes.
			newClientState.Authorities = pending.NextAuthorities
		} else {
			newClientState.PendingChange = pending
		}
	}

	return &newClientState, NewConsensusState(decoded.StateRoot[:]), nil
}

// findScheduledChange scans the header digest for a GRANDPA consensus log.
// Scheduled changes are returned, forced changes are rejected outright, and
// any other GRANDPA log (pause, resume, on-disabled) is ignored.
func findScheduledChange(digest substrate.Digest) (*scheduledChange, error) {
	for _, item := range digest {
		if !item.IsConsensus || item.AsConsensus.ConsensusEngineID != grandpaEngineID {
			continue
		}
		payload := []byte(item.AsConsensus.Bytes)
		if len(payload) == 0 {
			return nil, sdkerrors.Wrap(ErrDecode, "empty grandpa consensus log")
		}
		switch payload[0] {
		case consensusLogScheduledChange:
			var change scheduledChange
			if err := scale.Unmarshal(payload[1:], &change); err != nil {
				return nil, sdkerrors.Wrapf(ErrDecode, "scheduled change: %v", err)
			}
			return &change, nil
		case consensusLogForcedChange:
			return nil, sdkerrors.Wrap(ErrForcedChange, "forced authority set changes cannot be proven")
		}
	}
	return nil, nil
}
