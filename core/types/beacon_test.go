package types

import (
	"testing"

	"github.com/Near-One/rainbow-bridge-sub000/common"
	"github.com/stretchr/testify/require"
)

func TestBeaconBlockHeaderTreeHashRootDeterministic(t *testing.T) {
	h1 := &BeaconBlockHeader{Slot: 100, ProposerIndex: 5, ParentRoot: common.H256{1}, StateRoot: common.H256{2}, BodyRoot: common.H256{3}}
	h2 := &BeaconBlockHeader{Slot: 100, ProposerIndex: 5, ParentRoot: common.H256{1}, StateRoot: common.H256{2}, BodyRoot: common.H256{3}}
	require.Equal(t, h1.TreeHashRoot(), h2.TreeHashRoot())

	h3 := &BeaconBlockHeader{Slot: 101, ProposerIndex: 5, ParentRoot: common.H256{1}, StateRoot: common.H256{2}, BodyRoot: common.H256{3}}
	require.NotEqual(t, h1.TreeHashRoot(), h3.TreeHashRoot())
}

func TestExecutionPayloadHeaderTreeHashRootForks(t *testing.T) {
	p := &ExecutionPayloadHeader{BlockNumber: 1, BlockHash: common.H256{9}}
	preShanghai := p.TreeHashRoot()

	wr := common.H256{1}
	p.WithdrawalsRoot = &wr
	postShanghai := p.TreeHashRoot()
	require.NotEqual(t, preShanghai, postShanghai)
}

func TestSyncCommitteeTreeHashRoot(t *testing.T) {
	var c SyncCommittee
	c.Pubkeys[0] = [48]byte{1}
	root1 := c.TreeHashRoot()
	c.Pubkeys[0] = [48]byte{2}
	root2 := c.TreeHashRoot()
	require.NotEqual(t, root1, root2)
}

func TestSyncAggregateBitCount(t *testing.T) {
	var agg SyncAggregate
	agg.SyncCommitteeBits[0] = 0b0000_0111
	require.Equal(t, 3, agg.BitCount())
	require.True(t, agg.BitSet(0))
	require.True(t, agg.BitSet(1))
	require.False(t, agg.BitSet(3))
}

func TestNewExtendedBeaconBlockHeader(t *testing.T) {
	lch := &LightClientHeader{
		Beacon:    BeaconBlockHeader{Slot: 42},
		Execution: ExecutionPayloadHeader{BlockHash: common.H256{7}},
	}
	ext := NewExtendedBeaconBlockHeader(lch)
	require.Equal(t, uint64(42), ext.Header.Slot)
	require.Equal(t, common.H256{7}, ext.ExecutionBlockHash)
}
