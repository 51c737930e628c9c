package iavl

import (
	"bytes"
	"encoding/binary"

	"github.com/tendermint/tendermint/crypto/tmhash"
)

// node is a node in the balanced commitment tree. Leaves carry the key-value
// pair; inner nodes carry the split key (the smallest key of the right
// subtree) and the two children. A node's hash commits to height, size and
// the version it was written at, so any mutation invalidates every ancestor
// hash up to the root.
type node struct {
	key     []byte
	value   []byte // nil for inner nodes
	hash    []byte // nil while dirty
	left    *node
	right   *node
	version int64
	size    int64
	height  int8
}

func newLeaf(key, value []byte, version int64) *node {
	return &node{
		key:     key,
		value:   value,
		version: version,
		size:    1,
	}
}

func (n *node) isLeaf() bool {
	return n.height == 0
}

// calcHeightAndSize recomputes the height and size from the children.
// Only valid on inner nodes.
func (n *node) calcHeightAndSize() {
	n.height = maxInt8(n.left.height, n.right.height) + 1
	n.size = n.left.size + n.right.size
}

// calcBalance returns height(left) - height(right).
func (n *node) calcBalance() int {
	return int(n.left.height) - int(n.right.height)
}

// computeHash returns the node hash, recomputing it and any dirty descendant
// hashes first. The preimage layout matches iavl's amino encoding so the
// resulting proofs satisfy ics23.IavlSpec.
func (n *node) computeHash() []byte {
	if n.hash != nil {
		return n.hash
	}
	buf := new(bytes.Buffer)
	n.writeHashBytes(buf)
	n.hash = tmhash.Sum(buf.Bytes())
	return n.hash
}

func (n *node) writeHashBytes(w *bytes.Buffer) {
	encodeVarint(w, int64(n.height))
	encodeVarint(w, n.size)
	encodeVarint(w, n.version)

	if n.isLeaf() {
		encodeByteSlice(w, n.key)
		// Indirection needed to provide proofs without values.
		encodeByteSlice(w, tmhash.Sum(n.value))
	} else {
		encodeByteSlice(w, n.left.computeHash())
		encodeByteSlice(w, n.right.computeHash())
	}
}

// invalidate marks the node dirty and stamps it with the version of the
// mutation that touched it.
func (n *node) invalidate(version int64) {
	n.hash = nil
	n.version = version
}

// encodeVarint writes a zigzag varint, amino's encoding for signed integers.
func encodeVarint(w *bytes.Buffer, i int64) {
	var buf [binary.MaxVarintLen64]byte
	n := binary.PutVarint(buf[:], i)
	w.Write(buf[:n])
}

// encodeByteSlice writes a length-prefixed byte slice, with the length as an
// unsigned varint.
func encodeByteSlice(w *bytes.Buffer, bz []byte) {
	var buf [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(buf[:], uint64(len(bz)))
	w.Write(buf[:n])
	w.Write(bz)
}

func maxInt8(a, b int8) int8 {
	if a > b {
		return a
	}
	return b
}
