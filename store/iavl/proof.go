package iavl

import (
	"bytes"

	ics23 "github.com/confio/ics23/go"
	"github.com/pkg/errors"
)

// pathStep records one inner node on the route from the root to a leaf,
// together with the direction the descent took.
type pathStep struct {
	node     *node
	wentLeft bool
}

// ProveExistence produces an ics23 existence proof for key against the
// latest root. The proof verifies under ics23.IavlSpec.
func (t *Tree) ProveExistence(key []byte) (*ics23.CommitmentProof, error) {
	if len(key) == 0 {
		return nil, errors.Wrap(ErrEmptyKey, "prove existence")
	}
	if t.root == nil {
		return nil, errors.Wrap(ErrEmptyTree, "prove existence")
	}

	exist, err := t.existenceProof(key)
	if err != nil {
		return nil, err
	}
	return &ics23.CommitmentProof{
		Proof: &ics23.CommitmentProof_Exist{Exist: exist},
	}, nil
}

// ProveNonExistence produces an ics23 non-existence proof for key against
// the latest root: existence proofs of the nearest present neighbors
// bracketing the absent key. A missing left neighbor means key sorts below
// every present key, and symmetrically on the right.
func (t *Tree) ProveNonExistence(key []byte) (*ics23.CommitmentProof, error) {
	if len(key) == 0 {
		return nil, errors.Wrap(ErrEmptyKey, "prove non-existence")
	}
	if t.root == nil {
		return nil, errors.Wrap(ErrEmptyTree, "prove non-existence")
	}
	if t.Has(key) {
		return nil, errors.Wrapf(ErrKeyExists, "prove non-existence of key %X", key)
	}

	nonexist := &ics23.NonExistenceProof{Key: key}

	if pred := t.predecessor(t.root, key); pred != nil {
		exist, err := t.existenceProof(pred.key)
		if err != nil {
			return nil, err
		}
		nonexist.Left = exist
	}
	if succ := t.successor(t.root, key); succ != nil {
		exist, err := t.existenceProof(succ.key)
		if err != nil {
			return nil, err
		}
		nonexist.Right = exist
	}

	return &ics23.CommitmentProof{
		Proof: &ics23.CommitmentProof_Nonexist{Nonexist: nonexist},
	}, nil
}

// existenceProof walks to the leaf for key, recording the sibling hash and
// position at every inner node, and assembles the leaf-to-root ics23 path.
func (t *Tree) existenceProof(key []byte) (*ics23.ExistenceProof, error) {
	// hashes along the path must be committed before siblings are read
	t.root.computeHash()

	var steps []pathStep
	n := t.root
	for !n.isLeaf() {
		if bytes.Compare(key, n.key) < 0 {
			steps = append(steps, pathStep{node: n, wentLeft: true})
			n = n.left
		} else {
			steps = append(steps, pathStep{node: n, wentLeft: false})
			n = n.right
		}
	}
	if !bytes.Equal(n.key, key) {
		return nil, errors.Wrapf(ErrKeyNotFound, "prove existence of key %X", key)
	}

	path := make([]*ics23.InnerOp, 0, len(steps))
	for i := len(steps) - 1; i >= 0; i-- {
		path = append(path, innerOp(steps[i]))
	}

	return &ics23.ExistenceProof{
		Key:   n.key,
		Value: n.value,
		Leaf:  leafOp(n.version),
		Path:  path,
	}, nil
}

// leafOp fixes the iavl leaf hashing rule: the leaf preimage is
// varint(height=0) || varint(size=1) || varint(version) followed by the
// length-prefixed key and the length-prefixed sha256 of the value.
func leafOp(version int64) *ics23.LeafOp {
	prefix := new(bytes.Buffer)
	encodeVarint(prefix, 0)
	encodeVarint(prefix, 1)
	encodeVarint(prefix, version)

	return &ics23.LeafOp{
		Hash:         ics23.HashOp_SHA256,
		PrehashKey:   ics23.HashOp_NO_HASH,
		PrehashValue: ics23.HashOp_SHA256,
		Length:       ics23.LengthOp_VAR_PROTO,
		Prefix:       prefix.Bytes(),
	}
}

// innerOp fixes the iavl inner hashing rule for one step: the inner preimage
// is varint(height) || varint(size) || varint(version) followed by the two
// length-prefixed child hashes; the verified child's hash is substituted
// between prefix and suffix.
func innerOp(step pathStep) *ics23.InnerOp {
	n := step.node
	prefix := new(bytes.Buffer)
	encodeVarint(prefix, int64(n.height))
	encodeVarint(prefix, n.size)
	encodeVarint(prefix, n.version)

	var suffix []byte
	if step.wentLeft {
		// proof child is the left child: suffix carries the right sibling
		encodeLengthByte(prefix)
		suffixBuf := new(bytes.Buffer)
		encodeByteSlice(suffixBuf, n.right.computeHash())
		suffix = suffixBuf.Bytes()
	} else {
		// proof child is the right child: prefix carries the left sibling
		encodeByteSlice(prefix, n.left.computeHash())
		encodeLengthByte(prefix)
	}

	return &ics23.InnerOp{
		Hash:   ics23.HashOp_SHA256,
		Prefix: prefix.Bytes(),
		Suffix: suffix,
	}
}

// encodeLengthByte writes the uvarint length prefix of a 32-byte hash.
func encodeLengthByte(w *bytes.Buffer) {
	w.WriteByte(byte(32))
}

// predecessor returns the leaf with the largest key strictly below key, or
// nil if key sorts below every leaf in the subtree.
func (t *Tree) predecessor(n *node, key []byte) *node {
	if n.isLeaf() {
		if bytes.Compare(n.key, key) < 0 {
			return n
		}
		return nil
	}
	if bytes.Compare(key, n.key) <= 0 {
		// every key in the right subtree is >= n.key >= key
		return t.predecessor(n.left, key)
	}
	if p := t.predecessor(n.right, key); p != nil {
		return p
	}
	return maxLeaf(n.left)
}

// successor returns the leaf with the smallest key strictly above key, or
// nil if key sorts above every leaf in the subtree.
func (t *Tree) successor(n *node, key []byte) *node {
	if n.isLeaf() {
		if bytes.Compare(n.key, key) > 0 {
			return n
		}
		return nil
	}
	if bytes.Compare(key, n.key) < 0 {
		if s := t.successor(n.left, key); s != nil {
			return s
		}
		return minLeaf(n.right)
	}
	// every key in the left subtree is < n.key <= key
	return t.successor(n.right, key)
}

func minLeaf(n *node) *node {
	for !n.isLeaf() {
		n = n.left
	}
	return n
}

func maxLeaf(n *node) *node {
	for !n.isLeaf() {
		n = n.right
	}
	return n
}
