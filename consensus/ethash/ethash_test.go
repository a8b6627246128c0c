package ethash

import (
	"testing"

	"github.com/Near-One/rainbow-bridge-sub000/common"
	"github.com/stretchr/testify/require"
)

func TestRootForBlockRange(t *testing.T) {
	roots := EpochDAGRoots{StartEpoch: 13, Roots: []common.H128{{1}, {2}}}

	got, err := roots.RootForBlock(390000) // epoch 13
	require.NoError(t, err)
	require.Equal(t, common.H128{1}, got)

	got, err = roots.RootForBlock(420000) // epoch 14
	require.NoError(t, err)
	require.Equal(t, common.H128{2}, got)

	_, err = roots.RootForBlock(300000) // epoch 10, below start
	require.ErrorIs(t, err, ErrUnknownEpoch)

	_, err = roots.RootForBlock(450000) // epoch 15, past configured range
	require.ErrorIs(t, err, ErrUnknownEpoch)
}

func TestVerifyDAGEntryAcceptsReconstructedRoot(t *testing.T) {
	var nodes [2]common.H512
	nodes[0][0] = 0xaa
	nodes[1][0] = 0xbb
	leaf := dagMerkleLeaf(nodes)

	sibling := common.H128{0x42}
	root := hashH128(leaf, sibling) // index's bit 0 == 0: leaf is left

	entry := DoubleNodeWithMerkleProof{DagNodes: nodes, Proof: []common.H128{sibling}}
	err := verifyDAGEntry(root, entry, 0, true)
	require.NoError(t, err)
}

func TestVerifyDAGEntryRejectsTamperedProof(t *testing.T) {
	var nodes [2]common.H512
	nodes[0][0] = 0xaa
	leaf := dagMerkleLeaf(nodes)
	sibling := common.H128{0x42}
	root := hashH128(leaf, sibling)

	entry := DoubleNodeWithMerkleProof{DagNodes: nodes, Proof: []common.H128{{0xff}}}
	err := verifyDAGEntry(root, entry, 0, true)
	require.ErrorIs(t, err, ErrPoWFailed)
}

func TestVerifyDAGEntrySkippedWhenValidateDAGFalse(t *testing.T) {
	entry := DoubleNodeWithMerkleProof{}
	err := verifyDAGEntry(common.H128{1}, entry, 0, false)
	require.NoError(t, err)
}

func TestBelowDifficultyZeroAlwaysFails(t *testing.T) {
	require.False(t, belowDifficulty(common.H256{0}, common.ZeroU256()))
}

func TestBelowDifficultyOneAlwaysPasses(t *testing.T) {
	hash := common.H256{0xff, 0xff, 0xff}
	require.True(t, belowDifficulty(hash, common.NewU256(1)))
}

func TestVerifyPoWRejectsUnknownEpoch(t *testing.T) {
	roots := EpochDAGRoots{StartEpoch: 0, Roots: []common.H128{{1}}}
	err := VerifyPoW(roots, common.H256{}, common.H64{}, 40000, common.NewU256(1), nil, false)
	require.ErrorIs(t, err, ErrUnknownEpoch)
}

func TestVerifyPoWRejectsTooFewDagNodes(t *testing.T) {
	roots := EpochDAGRoots{StartEpoch: 0, Roots: []common.H128{{1}}}
	// Each of Hashimoto's 64 accesses consumes the next supplied node pair,
	// so a single pair runs out at the second access.
	nodes := []DoubleNodeWithMerkleProof{{}}
	err := VerifyPoW(roots, common.H256{1, 2, 3}, common.H64{0, 0, 0, 0, 0, 0, 0, 1}, 100, common.NewU256(1), nodes, false)
	require.ErrorIs(t, err, ErrPoWFailed)
}
