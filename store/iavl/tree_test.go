package iavl

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTreeBasicOps(t *testing.T) {
	tree := NewTree()
	require.Nil(t, tree.RootHash())
	require.EqualValues(t, 0, tree.Size())
	require.EqualValues(t, 0, tree.Version())

	root, err := tree.Set([]byte("alpha"), []byte("1"))
	require.NoError(t, err)
	require.NotNil(t, root)
	require.EqualValues(t, 1, tree.Version())
	require.EqualValues(t, 1, tree.Size())

	_, err = tree.Set([]byte("bravo"), []byte("2"))
	require.NoError(t, err)
	_, err = tree.Set([]byte("charlie"), []byte("3"))
	require.NoError(t, err)
	require.EqualValues(t, 3, tree.Size())
	require.EqualValues(t, 3, tree.Version())

	require.True(t, tree.Has([]byte("bravo")))
	require.False(t, tree.Has([]byte("delta")))
	require.Equal(t, []byte("2"), tree.Get([]byte("bravo")))
	require.Nil(t, tree.Get([]byte("delta")))

	newRoot, removed, err := tree.Remove([]byte("bravo"))
	require.NoError(t, err)
	require.Equal(t, []byte("2"), removed)
	require.NotEqual(t, root, newRoot)
	require.False(t, tree.Has([]byte("bravo")))
	require.EqualValues(t, 2, tree.Size())
	require.EqualValues(t, 4, tree.Version())
}

func TestTreeEmptyKeyRejected(t *testing.T) {
	tree := NewTree()
	_, err := tree.Set(nil, []byte("v"))
	require.True(t, errors.Is(err, ErrEmptyKey))
	_, _, err = tree.Remove([]byte{})
	require.True(t, errors.Is(err, ErrEmptyKey))
}

func TestTreeRemoveMissingIsNoOp(t *testing.T) {
	tree := NewTree()
	root, err := tree.Set([]byte("alpha"), []byte("1"))
	require.NoError(t, err)
	version := tree.Version()

	newRoot, removed, err := tree.Remove([]byte("missing"))
	require.NoError(t, err)
	require.Nil(t, removed)
	require.Equal(t, root, newRoot)
	require.Equal(t, version, tree.Version())
}

func TestTreeUpdateValueChangesRoot(t *testing.T) {
	tree := NewTree()
	_, err := tree.Set([]byte("key"), []byte("old"))
	require.NoError(t, err)
	oldRoot := tree.RootHash()

	_, err = tree.Set([]byte("key"), []byte("new"))
	require.NoError(t, err)
	require.NotEqual(t, oldRoot, tree.RootHash())
	require.Equal(t, []byte("new"), tree.Get([]byte("key")))
	require.EqualValues(t, 1, tree.Size())
}

func TestTreeDeterministicRoot(t *testing.T) {
	ops := func(tree *Tree) {
		for i := 0; i < 50; i++ {
			_, err := tree.Set([]byte(fmt.Sprintf("key-%02d", i)), []byte(fmt.Sprintf("value-%02d", i)))
			require.NoError(t, err)
		}
		for i := 0; i < 50; i += 3 {
			_, _, err := tree.Remove([]byte(fmt.Sprintf("key-%02d", i)))
			require.NoError(t, err)
		}
	}

	a, b := NewTree(), NewTree()
	ops(a)
	ops(b)
	require.Equal(t, a.RootHash(), b.RootHash())
	require.Equal(t, a.Version(), b.Version())
	require.Equal(t, a.Size(), b.Size())
}

func TestTreeSortedInsertionStaysSearchable(t *testing.T) {
	tree := NewTree()
	var keys []string
	for i := 0; i < 200; i++ {
		key := fmt.Sprintf("key-%03d", i)
		keys = append(keys, key)
		_, err := tree.Set([]byte(key), []byte(key))
		require.NoError(t, err)
	}
	require.EqualValues(t, len(keys), tree.Size())
	for _, key := range keys {
		require.Equal(t, []byte(key), tree.Get([]byte(key)))
	}
}

func TestTreeRandomizedOps(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	tree := NewTree()
	reference := map[string]string{}

	for i := 0; i < 1000; i++ {
		key := fmt.Sprintf("k%03d", rng.Intn(150))
		switch rng.Intn(3) {
		case 0, 1:
			value := fmt.Sprintf("v%d", i)
			_, err := tree.Set([]byte(key), []byte(value))
			require.NoError(t, err)
			reference[key] = value
		case 2:
			_, removed, err := tree.Remove([]byte(key))
			require.NoError(t, err)
			if expected, ok := reference[key]; ok {
				require.Equal(t, []byte(expected), removed)
				delete(reference, key)
			} else {
				require.Nil(t, removed)
			}
		}
	}

	require.EqualValues(t, len(reference), tree.Size())
	keys := make([]string, 0, len(reference))
	for key := range reference {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		require.Equal(t, []byte(reference[key]), tree.Get([]byte(key)))
	}
}
