package iavl

import (
	"bytes"

	"github.com/pkg/errors"
)

// Tree is an in-memory versioned commitment store: a balanced binary search
// tree over byte-lexicographically ordered keys whose root hash is a
// commitment to every key-value pair it holds. Every mutation bumps the
// version and eagerly recomputes the hashes on the mutated path, so the root
// always reflects the latest committed state.
//
// The Tree keeps only the latest version live. It is not safe for concurrent
// mutation; reads and proofs may run concurrently with each other.
type Tree struct {
	root    *node
	version int64
}

// NewTree returns an empty tree at version 0.
func NewTree() *Tree {
	return &Tree{}
}

// Version returns the version of the latest mutation.
func (t *Tree) Version() int64 {
	return t.version
}

// Size returns the number of keys in the tree.
func (t *Tree) Size() int64 {
	if t.root == nil {
		return 0
	}
	return t.root.size
}

// RootHash returns the root hash of the latest committed state, or nil for
// an empty tree.
func (t *Tree) RootHash() []byte {
	if t.root == nil {
		return nil
	}
	return t.root.computeHash()
}

// Get returns the value stored under key, or nil if the key is absent.
func (t *Tree) Get(key []byte) []byte {
	leaf := t.leafFor(key)
	if leaf == nil {
		return nil
	}
	return leaf.value
}

// Has reports whether key is present.
func (t *Tree) Has(key []byte) bool {
	return t.leafFor(key) != nil
}

// Set stores value under key, replacing any previous value, and returns the
// new root hash.
func (t *Tree) Set(key, value []byte) ([]byte, error) {
	if len(key) == 0 {
		return nil, errors.Wrap(ErrEmptyKey, "set")
	}

	t.version++
	t.root, _ = t.recursiveSet(t.root, key, value)
	return t.RootHash(), nil
}

// Remove deletes key from the tree and returns the new root hash together
// with the removed value. A missing key is a no-op with a nil value.
func (t *Tree) Remove(key []byte) (newRoot, value []byte, err error) {
	if len(key) == 0 {
		return nil, nil, errors.Wrap(ErrEmptyKey, "remove")
	}
	if !t.Has(key) {
		return t.RootHash(), nil, nil
	}

	t.version++
	newSelf, _, removed := t.recursiveRemove(t.root, key)
	t.root = newSelf
	return t.RootHash(), removed, nil
}

// leafFor descends to the leaf that would hold key, returning nil if the
// leaf holds a different key.
func (t *Tree) leafFor(key []byte) *node {
	n := t.root
	for n != nil && !n.isLeaf() {
		if bytes.Compare(key, n.key) < 0 {
			n = n.left
		} else {
			n = n.right
		}
	}
	if n == nil || !bytes.Equal(n.key, key) {
		return nil
	}
	return n
}

// recursiveSet inserts or updates key below n and returns the new subtree
// root. updated reports whether an existing leaf was replaced, in which case
// no heights or sizes changed.
func (t *Tree) recursiveSet(n *node, key, value []byte) (newSelf *node, updated bool) {
	if n == nil {
		return newLeaf(key, value, t.version), false
	}

	if n.isLeaf() {
		switch bytes.Compare(key, n.key) {
		case -1:
			inner := &node{
				key:     n.key,
				left:    newLeaf(key, value, t.version),
				right:   n,
				version: t.version,
				size:    2,
				height:  1,
			}
			return inner, false
		case 0:
			return newLeaf(key, value, t.version), true
		default:
			inner := &node{
				key:     key,
				left:    n,
				right:   newLeaf(key, value, t.version),
				version: t.version,
				size:    2,
				height:  1,
			}
			return inner, false
		}
	}

	n.invalidate(t.version)
	if bytes.Compare(key, n.key) < 0 {
		n.left, updated = t.recursiveSet(n.left, key, value)
	} else {
		n.right, updated = t.recursiveSet(n.right, key, value)
	}
	if updated {
		return n, true
	}
	n.calcHeightAndSize()
	return t.balance(n), false
}

// recursiveRemove deletes key below n. It returns the new subtree root, the
// new split key for the caller when the subtree's minimum changed, and the
// removed value (nil if the key was not found).
func (t *Tree) recursiveRemove(n *node, key []byte) (newSelf *node, newKey, removed []byte) {
	if n.isLeaf() {
		if bytes.Equal(key, n.key) {
			return nil, nil, n.value
		}
		return n, nil, nil
	}

	if bytes.Compare(key, n.key) < 0 {
		newLeft, newKey, removed := t.recursiveRemove(n.left, key)
		if removed == nil {
			return n, nil, nil
		}
		if newLeft == nil {
			// left subtree was a leaf holding the key; splice in the right
			// subtree, whose minimum is the node's split key
			return n.right, n.key, removed
		}
		n.left = newLeft
		n.invalidate(t.version)
		n.calcHeightAndSize()
		return t.balance(n), newKey, removed
	}

	newRight, newKey, removed := t.recursiveRemove(n.right, key)
	if removed == nil {
		return n, nil, nil
	}
	if newRight == nil {
		return n.left, nil, removed
	}
	n.right = newRight
	if newKey != nil {
		n.key = newKey
	}
	n.invalidate(t.version)
	n.calcHeightAndSize()
	return t.balance(n), nil, removed
}

// balance restores the AVL invariant |height(left)-height(right)| <= 1 at n
// and returns the new subtree root. Rotations dirty the rotated nodes so
// their hashes are recomputed in the same mutation.
func (t *Tree) balance(n *node) *node {
	switch bal := n.calcBalance(); {
	case bal > 1:
		if n.left.calcBalance() >= 0 {
			// left-left
			return t.rotateRight(n)
		}
		// left-right
		n.left = t.rotateLeft(n.left)
		return t.rotateRight(n)
	case bal < -1:
		if n.right.calcBalance() <= 0 {
			// right-right
			return t.rotateLeft(n)
		}
		// right-left
		n.right = t.rotateRight(n.right)
		return t.rotateLeft(n)
	default:
		return n
	}
}

func (t *Tree) rotateRight(n *node) *node {
	l := n.left
	n.left = l.right
	l.right = n

	n.invalidate(t.version)
	n.calcHeightAndSize()
	l.invalidate(t.version)
	l.calcHeightAndSize()
	return l
}

func (t *Tree) rotateLeft(n *node) *node {
	r := n.right
	n.right = r.left
	r.left = n

	n.invalidate(t.version)
	n.calcHeightAndSize()
	r.invalidate(t.version)
	r.calcHeightAndSize()
	return r
}
