package types

import (
	substrate "github.com/centrifuge/go-substrate-rpc-client/v4/types"
	ics23 "github.com/confio/ics23/go"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	clienttypes "github.com/ComposableFi/hyperspace-verifier/modules/core/02-client/types"
	commitmenttypes "github.com/ComposableFi/hyperspace-verifier/modules/core/23-commitment/types"
	"github.com/ComposableFi/hyperspace-verifier/modules/core/exported"
)

var _ exported.ClientState = (*ClientState)(nil)

// ClientState is the trusted state of the tracked chain: the authority set
// currently entitled to finalize blocks, the latest finalized block, the
// last verified round, and the scheduled set rotation if one is pending.
// Successful CheckHeaderAndUpdateState calls are the only way the trusted
// state advances; all methods leave the receiver untouched.
type ClientState struct {
	Authorities   AuthoritySet
	LatestHash    substrate.Hash
	LatestHeight  uint32
	LatestRound   uint64
	FrozenHeight  uint32
	PendingChange *PendingChange
}

// PendingChange is a scheduled authority set rotation that activates once a
// finalized height reaches ActivationHeight.
type PendingChange struct {
	NextAuthorities  AuthoritySet
	ActivationHeight uint32
}

// NewClientState constructs the trusted state from the genesis authority set
// and the latest block known finalized out-of-band.
func NewClientState(authorities AuthoritySet, latestHash substrate.Hash, latestHeight uint32) *ClientState {
	return &ClientState{
		Authorities:  authorities,
		LatestHash:   latestHash,
		LatestHeight: latestHeight,
	}
}

// ClientType is grandpa.
func (cs ClientState) ClientType() string {
	return exported.Grandpa
}

// GetLatestHeight returns the latest finalized height.
func (cs ClientState) GetLatestHeight() exported.Height {
	return clienttypes.NewHeight(revisionNumber, uint64(cs.LatestHeight))
}

// GetSetID returns the generation id of the currently trusted authority set.
func (cs ClientState) GetSetID() uint64 {
	return cs.Authorities.ID
}

// GetLatestRound returns the last verified justification round.
func (cs ClientState) GetLatestRound() uint64 {
	return cs.LatestRound
}

// Status returns the status of the grandpa client.
func (cs ClientState) Status() exported.Status {
	if cs.FrozenHeight > 0 {
		return exported.Frozen
	}
	return exported.Active
}

// Validate performs basic validation of the client state fields.
func (cs ClientState) Validate() error {
	if err := cs.Authorities.Validate(); err != nil {
		return err
	}
	if cs.LatestHeight == 0 {
		return sdkerrors.Wrap(clienttypes.ErrInvalidClient, "latest height cannot be zero")
	}
	if cs.PendingChange != nil {
		if err := cs.PendingChange.NextAuthorities.Validate(); err != nil {
			return err
		}
		if cs.PendingChange.NextAuthorities.ID != cs.Authorities.ID+1 {
			return sdkerrors.Wrapf(clienttypes.ErrInvalidClient,
				"pending set id %d does not succeed current set id %d", cs.PendingChange.NextAuthorities.ID, cs.Authorities.ID)
		}
	}
	return nil
}

// VerifyMembership verifies a proof of the existence of value at path under
// the supplied commitment root. The root is the state root advertised by a
// previously verified header, passed in by the caller: verification reads no
// live client state and may run concurrently with updates.
func (cs ClientState) VerifyMembership(root exported.Root, proof exported.Proof, path exported.Path, value []byte) error {
	if cs.Status() != exported.Active {
		return sdkerrors.Wrap(clienttypes.ErrClientFrozen, "cannot verify membership")
	}
	specs, err := specsForPath(path)
	if err != nil {
		return err
	}
	return proof.VerifyMembership(specs, root, path, value)
}

// VerifyNonMembership verifies a proof of the absence of a key at path under
// the supplied commitment root.
func (cs ClientState) VerifyNonMembership(root exported.Root, proof exported.Proof, path exported.Path) error {
	if cs.Status() != exported.Active {
		return sdkerrors.Wrap(clienttypes.ErrClientFrozen, "cannot verify non-membership")
	}
	specs, err := specsForPath(path)
	if err != nil {
		return err
	}
	return proof.VerifyNonMembership(specs, root, path)
}

// specsForPath selects the proof specs for the path's depth: single-element
// paths verify directly against the iavl store, two-element paths additionally
// verify the store's subroot under the simple-merkle multistore root.
func specsForPath(path exported.Path) ([]*ics23.ProofSpec, error) {
	merklePath, ok := path.(commitmenttypes.MerklePath)
	if !ok {
		return nil, sdkerrors.Wrapf(commitmenttypes.ErrInvalidProof, "path %v is not a merkle path", path)
	}
	specs := commitmenttypes.GetProofSpecs()
	switch n := len(merklePath.KeyPath); {
	case n == 0:
		return nil, sdkerrors.Wrap(commitmenttypes.ErrInvalidProof, "empty path")
	case n <= len(specs):
		return specs[:n], nil
	default:
		return nil, sdkerrors.Wrapf(commitmenttypes.ErrInvalidProof,
			"path depth %d exceeds supported store nesting %d", n, len(specs))
	}
}
