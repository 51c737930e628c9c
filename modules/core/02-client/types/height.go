package types

import (
	"fmt"

	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	"github.com/ComposableFi/hyperspace-verifier/modules/core/exported"
)

var _ exported.Height = (*Height)(nil)

// Height is a monotonically increasing data type
// that can be compared against another Height for the purposes of updating and
// freezing clients.
//
// Normally the RevisionHeight is incremented at each height while keeping
// RevisionNumber the same. However some consensus algorithms may choose to
// reset the height in certain conditions e.g. hard forks, state-machine
// breaking changes. In these cases, the RevisionNumber is incremented so that
// height continues to be monotonically increasing even as the RevisionHeight
// gets reset.
type Height struct {
	RevisionNumber uint64
	RevisionHeight uint64
}

// NewHeight is a constructor for the IBC height type
func NewHeight(revisionNumber, revisionHeight uint64) Height {
	return Height{
		RevisionNumber: revisionNumber,
		RevisionHeight: revisionHeight,
	}
}

// GetRevisionNumber returns the revision-number of the height
func (h Height) GetRevisionNumber() uint64 {
	return h.RevisionNumber
}

// GetRevisionHeight returns the revision-height of the height
func (h Height) GetRevisionHeight() uint64 {
	return h.RevisionHeight
}

// Compare implements a method to compare two heights. When comparing two
// heights a, b we can call a.Compare(b) which will return
// -1 if a < b
// 0  if a = b
// 1  if a > b
//
// It first compares based on revision numbers, whichever has the higher
// revision number is the higher height. If revision number is the same, then
// the revision height is compared.
func (h Height) Compare(other exported.Height) int64 {
	height, ok := other.(Height)
	if !ok {
		panic(fmt.Sprintf("cannot compare against invalid height type: %T. expected height type: %T", other, h))
	}
	var a, b uint64
	if h.RevisionNumber != height.RevisionNumber {
		a = h.RevisionNumber
		b = height.RevisionNumber
	} else {
		a = h.RevisionHeight
		b = height.RevisionHeight
	}
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// LT Helper comparison function returns true if h < other
func (h Height) LT(other exported.Height) bool {
	return h.Compare(other) == -1
}

// LTE Helper comparison function returns true if h <= other
func (h Height) LTE(other exported.Height) bool {
	cmp := h.Compare(other)
	return cmp == -1 || cmp == 0
}

// GT Helper comparison function returns true if h > other
func (h Height) GT(other exported.Height) bool {
	return h.Compare(other) == 1
}

// GTE Helper comparison function returns true if h >= other
func (h Height) GTE(other exported.Height) bool {
	cmp := h.Compare(other)
	return cmp == 1 || cmp == 0
}

// EQ Helper comparison function returns true if h == other
func (h Height) EQ(other exported.Height) bool {
	return h.Compare(other) == 0
}

// String returns a string representation of Height
func (h Height) String() string {
	return fmt.Sprintf("%d-%d", h.RevisionNumber, h.RevisionHeight)
}

// IsZero returns true if height revision and revision-height are both 0
func (h Height) IsZero() bool {
	return h.RevisionNumber == 0 && h.RevisionHeight == 0
}

// Increment will return a height with the same revision number but an
// incremented revision height
func (h Height) Increment() exported.Height {
	return NewHeight(h.RevisionNumber, h.RevisionHeight+1)
}

// Decrement will return a new height with the RevisionHeight decremented
// If the RevisionHeight is already at lowest value (1), then false success
// flag is returned
func (h Height) Decrement() (decremented exported.Height, success bool) {
	if h.RevisionHeight == 0 {
		return Height{}, false
	}
	return NewHeight(h.RevisionNumber, h.RevisionHeight-1), true
}

// GetSelfHeight is a utility function that returns self height from the
// block height
func GetSelfHeight(blockHeight int64) Height {
	if blockHeight < 0 {
		panic(fmt.Sprintf("invalid block height: %d", blockHeight))
	}
	return NewHeight(0, uint64(blockHeight))
}

// MustParseHeight will attempt to parse a string representation of a height
// as produced by String() and panic if parsing fails.
func MustParseHeight(heightStr string) Height {
	var revisionNumber, revisionHeight uint64
	if _, err := fmt.Sscanf(heightStr, "%d-%d", &revisionNumber, &revisionHeight); err != nil {
		panic(sdkerrors.Wrapf(ErrInvalidHeight, "cannot parse height %s", heightStr))
	}
	return NewHeight(revisionNumber, revisionHeight)
}
