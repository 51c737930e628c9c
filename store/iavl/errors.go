package iavl

import "github.com/pkg/errors"

var (
	// ErrKeyNotFound is returned when an existence proof is requested for an
	// absent key.
	ErrKeyNotFound = errors.New("key not found in tree")
	// ErrKeyExists is returned when a non-existence proof is requested for a
	// present key.
	ErrKeyExists = errors.New("key exists in tree")
	// ErrEmptyKey is returned on mutations or proofs with a zero-length key.
	ErrEmptyKey = errors.New("key is empty")
	// ErrEmptyTree is returned when a proof is requested from a tree that has
	// no committed root.
	ErrEmptyTree = errors.New("tree is empty")
)
