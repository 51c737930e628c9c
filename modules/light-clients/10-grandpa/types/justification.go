package types

import (
	"github.com/ChainSafe/gossamer/lib/common"
	"github.com/ChainSafe/gossamer/lib/crypto/ed25519"
	"github.com/ChainSafe/gossamer/pkg/scale"
	"github.com/ChainSafe/log15"
	substrate "github.com/centrifuge/go-substrate-rpc-client/v4/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
)

// precommitStage tags the signed payload as a precommit vote; prevotes for
// the same target sign a different tag and can never be replayed as
// precommits.
const precommitStage uint8 = 1

// Vote is the (block hash, block number) pair a voter commits to in a round.
type Vote struct {
	Hash   substrate.Hash
	Number uint32
}

// SignedPrecommit is one voter's precommit: the vote, the ed25519 signature
// over the canonical payload, and the voter's index into the trusted
// authority set.
type SignedPrecommit struct {
	Vote           Vote
	Signature      [ed25519.SignatureLength]byte
	AuthorityIndex uint32
}

// Justification is the finality proof for a target block: the precommits of
// a round together with the ancestry headers connecting each precommit's
// target back to the justification target. Voters may precommit to
// descendants of the block being finalized, which is why the ancestry is
// needed.
type Justification struct {
	Round           uint64
	SetID           uint64
	Target          Vote
	Precommits      []SignedPrecommit
	VotesAncestries [][]byte // SCALE-encoded substrate headers
}

// signedPayload is the canonical message a precommit signature covers. The
// round and set id bind the signature to a single voting round of a single
// authority-set generation.
type signedPayload struct {
	Stage        uint8
	TargetHash   substrate.Hash
	TargetNumber uint32
	Round        uint64
	SetID        uint64
}

// ancestryEntry is a decoded ancestry header, keyed by its own hash in an
// ancestryChain.
type ancestryEntry struct {
	parent substrate.Hash
	number uint32
}

// ancestryChain indexes the justification's ancestry headers by hash so
// descendant targets can be routed back to the justification target.
type ancestryChain map[substrate.Hash]ancestryEntry

// newAncestryChain decodes and indexes the justification's ancestry headers.
// Undecodable headers are a structural defect of the justification and
// surface as ErrDecode.
func newAncestryChain(encodedHeaders [][]byte) (ancestryChain, error) {
	chain := make(ancestryChain, len(encodedHeaders))
	for i, encoded := range encodedHeaders {
		decoded, err := DecodeSubstrateHeader(encoded)
		if err != nil {
			return nil, sdkerrors.Wrapf(ErrDecode, "ancestry header %d: %v", i, err)
		}
		hash, err := common.Blake2bHash(encoded)
		if err != nil {
			return nil, sdkerrors.Wrapf(ErrDecode, "ancestry header %d hash: %v", i, err)
		}
		chain[substrate.NewHash(hash[:])] = ancestryEntry{
			parent: decoded.ParentHash,
			number: uint32(decoded.Number),
		}
	}
	return chain, nil
}

// route checks that from is target itself or a descendant of target
// reachable through the supplied ancestry: contiguous parent-hash links with
// strictly decreasing block numbers down to the target.
func (a ancestryChain) route(from, target Vote) error {
	cur := from
	for cur.Hash != target.Hash {
		if cur.Number <= target.Number {
			return sdkerrors.Wrapf(ErrBrokenAncestry,
				"no route from (%s, %d) to target (%s, %d)", from.Hash.Hex(), from.Number, target.Hash.Hex(), target.Number)
		}
		entry, ok := a[cur.Hash]
		if !ok {
			return sdkerrors.Wrapf(ErrBrokenAncestry, "missing ancestry header for block %s", cur.Hash.Hex())
		}
		if entry.number != cur.Number {
			return sdkerrors.Wrapf(ErrBrokenAncestry,
				"ancestry header for block %s has number %d, votes imply %d", cur.Hash.Hex(), entry.number, cur.Number)
		}
		cur = Vote{Hash: entry.parent, Number: cur.Number - 1}
	}
	if cur.Number != target.Number {
		return sdkerrors.Wrapf(ErrBrokenAncestry,
			"block %s appears at number %d and %d", target.Hash.Hex(), cur.Number, target.Number)
	}
	return nil
}

// VerifyJustification validates that the justification finalizes its target
// under the trusted authority set: the round must be newer than lastRound,
// every precommit must connect to the target through the ancestry, carry a
// valid signature from the indexed authority and appear at most once, and
// the accumulated weight must reach a strict supermajority (3w > 2W) of the
// set. Any failure is permanent for these bytes.
func VerifyJustification(trusted AuthoritySet, lastRound uint64, j *Justification) error {
	if j.Round <= lastRound {
		return sdkerrors.Wrapf(ErrStaleRound, "round %d, last verified round %d", j.Round, lastRound)
	}
	if j.SetID != trusted.ID {
		return sdkerrors.Wrapf(ErrSetIDMismatch, "justification set id %d, trusted set id %d", j.SetID, trusted.ID)
	}

	ancestry, err := newAncestryChain(j.VotesAncestries)
	if err != nil {
		return err
	}

	var (
		accumulated uint64
		voted       = make(map[uint32]struct{}, len(j.Precommits))
	)
	for i, precommit := range j.Precommits {
		if int(precommit.AuthorityIndex) >= len(trusted.Authorities) {
			return sdkerrors.Wrapf(ErrDecode,
				"precommit %d: authority index %d out of range for set of %d", i, precommit.AuthorityIndex, len(trusted.Authorities))
		}
		if _, ok := voted[precommit.AuthorityIndex]; ok {
			return sdkerrors.Wrapf(ErrDuplicateVote, "precommit %d: authority index %d voted twice", i, precommit.AuthorityIndex)
		}
		voted[precommit.AuthorityIndex] = struct{}{}

		// A vote for any descendant of the target finalizes the target,
		// provided the ancestry connects them.
		if err := ancestry.route(precommit.Vote, j.Target); err != nil {
			return err
		}

		authority := trusted.Authorities[precommit.AuthorityIndex]
		if err := verifyPrecommitSignature(authority, j.Round, j.SetID, precommit); err != nil {
			return sdkerrors.Wrapf(err, "precommit %d", i)
		}

		accumulated += authority.Weight
	}

	if total := trusted.TotalWeight(); 3*accumulated <= 2*total {
		log15.Debug("justification below supermajority threshold",
			"round", j.Round, "set_id", j.SetID, "accumulated", accumulated, "total", total)
		return sdkerrors.Wrapf(ErrInsufficientWeight,
			"accumulated weight %d of total %d does not satisfy 3w > 2W", accumulated, total)
	}
	return nil
}

// verifyPrecommitSignature checks the ed25519 signature over the canonical
// (stage, vote, round, set id) payload.
func verifyPrecommitSignature(authority Authority, round, setID uint64, precommit SignedPrecommit) error {
	payload, err := scale.Marshal(signedPayload{
		Stage:        precommitStage,
		TargetHash:   precommit.Vote.Hash,
		TargetNumber: precommit.Vote.Number,
		Round:        round,
		SetID:        setID,
	})
	if err != nil {
		return sdkerrors.Wrapf(ErrDecode, "vote payload could not be scale encoded: %v", err)
	}

	publicKey, err := ed25519.NewPublicKey(authority.ID[:])
	if err != nil {
		return sdkerrors.Wrapf(ErrInvalidSignature, "authority public key: %v", err)
	}
	ok, err := publicKey.Verify(payload, precommit.Signature[:])
	if err != nil {
		return sdkerrors.Wrapf(ErrInvalidSignature, "%v", err)
	}
	if !ok {
		return sdkerrors.Wrapf(ErrInvalidSignature,
			"signature by authority %s does not cover the vote payload", authority.ID)
	}
	return nil
}
