package ssz

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVerifyMerkleBranchRoundTrip(t *testing.T) {
	leaf := Root{1, 2, 3}
	sib0 := Root{4, 5, 6}
	sib1 := Root{7, 8, 9}

	// Build a depth-2 tree where leaf is at generalized index 4
	// (binary 100): bit0=0 (leaf is left child of sib0), bit1=0 (that
	// pair is the left child of sib1).
	level1 := hashPair(leaf, sib0)
	root := hashPair(level1, sib1)

	ok := VerifyMerkleBranch(leaf, []Root{sib0, sib1}, 4&3, root)
	// index mod 2^depth for generalized index 4 at depth 2 is 0.
	require.True(t, ok)
}

func TestGeneralizedIndexDepthAndSubtree(t *testing.T) {
	require.Equal(t, 6, GeneralizedIndexDepth(105))
	require.Equal(t, uint64(105%64), GeneralizedIndexSubtreeIndex(105, 6))
	require.Equal(t, 5, GeneralizedIndexDepth(55))
	require.Equal(t, uint64(23), GeneralizedIndexSubtreeIndex(55, 5))
}

func TestMixInLengthDeterministic(t *testing.T) {
	root := HashTreeRootBytesList([]byte("hello"), 32)
	root2 := HashTreeRootBytesList([]byte("hello"), 32)
	require.Equal(t, root, root2)
	root3 := HashTreeRootBytesList([]byte("hellp"), 32)
	require.NotEqual(t, root, root3)
}
