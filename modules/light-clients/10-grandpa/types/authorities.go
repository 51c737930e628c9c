package types

import (
	"github.com/ChainSafe/gossamer/lib/crypto/ed25519"
	"github.com/ChainSafe/gossamer/pkg/scale"
	"github.com/ComposableFi/go-merkle-trees/merkle"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	"github.com/ethereum/go-ethereum/crypto"
)

// Keccak256 hashes authority set leaves the way the relay chain's merkle
// pallets do.
type Keccak256 struct{}

func (k Keccak256) Merge(left, right interface{}) interface{} {
	l := left.([]byte)
	r := right.([]byte)
	return crypto.Keccak256(append(l, r...))
}

func (k Keccak256) Hash(data []byte) ([]byte, error) {
	return crypto.Keccak256(data), nil
}

// Authority is a single GRANDPA voter: an ed25519 public key with a voting
// weight.
type Authority struct {
	ID     ed25519.PublicKeyBytes
	Weight uint64
}

// AuthoritySet is the weighted set of voters entitled to finalize blocks for
// one generation of the protocol. A set is immutable once constructed; a
// rotation produces a new set under the next id, never an in-place change.
type AuthoritySet struct {
	ID          uint64
	Authorities []Authority
}

// NewAuthoritySet constructs an authority set under the given generation id.
// The authorities are copied so later mutation of the argument cannot reach
// into the set.
func NewAuthoritySet(id uint64, authorities []Authority) AuthoritySet {
	copied := make([]Authority, len(authorities))
	copy(copied, authorities)
	return AuthoritySet{
		ID:          id,
		Authorities: copied,
	}
}

// Validate performs basic validation of the authority set.
func (s AuthoritySet) Validate() error {
	if len(s.Authorities) == 0 {
		return sdkerrors.Wrap(ErrInvalidAuthoritySet, "authority set cannot be empty")
	}
	for i, authority := range s.Authorities {
		if authority.Weight == 0 {
			return sdkerrors.Wrapf(ErrInvalidAuthoritySet, "authority %d has zero weight", i)
		}
	}
	return nil
}

// TotalWeight returns the summed voting weight of the set.
func (s AuthoritySet) TotalWeight() uint64 {
	var total uint64
	for _, authority := range s.Authorities {
		total += authority.Weight
	}
	return total
}

// Threshold returns the smallest accumulated weight w satisfying the
// supermajority rule 3w > 2W.
func (s AuthoritySet) Threshold() uint64 {
	return 2*s.TotalWeight()/3 + 1
}

// Commitment returns the keccak merkle root committing to the set's
// authorities in order. Contract environments can persist this 32-byte
// commitment instead of the full voter list when comparing sets.
func (s AuthoritySet) Commitment() ([]byte, error) {
	leaves := make([]merkle.Leaf, len(s.Authorities))
	for i, authority := range s.Authorities {
		leafBytes, err := scale.Marshal(authority)
		if err != nil {
			return nil, sdkerrors.Wrapf(ErrInvalidAuthoritySet, "authority %d could not be scale encoded: %v", i, err)
		}
		leaves[i] = merkle.Leaf{
			Hash:  crypto.Keccak256(leafBytes),
			Index: uint32(i),
		}
	}

	commitmentProof := merkle.NewProof(leaves, [][]byte{}, uint32(len(leaves)), Keccak256{})
	root, err := commitmentProof.Root()
	if err != nil {
		return nil, sdkerrors.Wrapf(ErrInvalidAuthoritySet, "could not calculate authority set root: %v", err)
	}
	return root, nil
}
