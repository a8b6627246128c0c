package client

import (
	"math/big"
	"testing"

	beaconlight "github.com/Near-One/rainbow-bridge-sub000/beacon/light"
	"github.com/Near-One/rainbow-bridge-sub000/common"
	"github.com/Near-One/rainbow-bridge-sub000/consensus/ethash"
	"github.com/Near-One/rainbow-bridge-sub000/core/types"
	"github.com/Near-One/rainbow-bridge-sub000/ethdb/memorydb"
	powlight "github.com/Near-One/rainbow-bridge-sub000/light"
	"github.com/stretchr/testify/require"
)

func TestBeaconFacadeReadOps(t *testing.T) {
	db := memorydb.New()
	engine := beaconlight.New(db, beaconlight.Config{HashesGcThreshold: 500})

	finalizedBeacon := types.ExtendedBeaconBlockHeader{
		Header:             types.BeaconBlockHeader{Slot: 10},
		BeaconBlockRoot:    common.H256{0x11},
		ExecutionBlockHash: common.H256{0x22},
	}
	finalizedExec := types.ExecutionHeaderInfo{
		ParentHash:  common.H256{0x33},
		BlockNumber: 5,
		Submitter:   "genesis",
		Hash:        common.H256{0x22},
	}
	committee := &types.SyncCommittee{}
	require.NoError(t, engine.Bootstrap(finalizedBeacon, finalizedExec, committee))

	f := NewBeaconFacade(engine)
	require.Equal(t, EraBeacon, f.Era())

	last, err := f.LastBlockNumber()
	require.NoError(t, err)
	require.EqualValues(t, 5, last)

	hash, err := f.BlockHashSafe(5)
	require.NoError(t, err)
	require.Equal(t, common.H256{0x22}, hash)

	require.True(t, f.IsKnownExecutionHeader(5))
	require.False(t, f.IsKnownExecutionHeader(6))

	root, err := f.FinalizedBeaconBlockRoot()
	require.NoError(t, err)
	require.Equal(t, common.H256{0x11}, root)

	slot, err := f.FinalizedBeaconBlockSlot()
	require.NoError(t, err)
	require.EqualValues(t, 10, slot)

	mode, err := f.GetClientMode()
	require.NoError(t, err)
	require.Equal(t, beaconlight.AwaitingBeaconUpdate, mode)

	_, hasTail, err := f.GetUnfinalizedTailBlockNumber()
	require.NoError(t, err)
	require.False(t, hasTail)

	state, err := f.GetLightClientState()
	require.NoError(t, err)
	require.Equal(t, finalizedBeacon, state.FinalizedBeaconHeader)
	require.Equal(t, committee, state.CurrentSyncCommittee)
	require.Nil(t, state.NextSyncCommittee)

	_, err = f.DagMerkleRoot(0)
	require.ErrorIs(t, err, ErrWrongEra)
}

func TestBeaconFacadeAdminOps(t *testing.T) {
	db := memorydb.New()
	engine := beaconlight.New(db, beaconlight.Config{Owner: "admin"})
	f := NewBeaconFacade(engine)

	require.NoError(t, f.UpdateTrustedSigner("admin", "relayer.near"))
	require.NoError(t, f.UpdateHashesGcThreshold("admin", 123))
	require.NoError(t, f.SetPaused("admin", beaconlight.PauseSubmitUpdate))

	require.ErrorIs(t, f.UpdateTrustedSigner("someone-else", "x"), beaconlight.ErrUnauthorized)
}

func TestPoWFacadeReadOps(t *testing.T) {
	db := memorydb.New()
	roots := ethash.EpochDAGRoots{StartEpoch: 0, Roots: []common.H128{{0x01}}}
	genesis := &types.ExecutionHeader{Difficulty: big.NewInt(100), GasLimit: 5000, Number: 0}
	engine := powlight.New(db, powlight.Config{
		DAGRoots:             roots,
		NumConfirmations:     0,
		HashesGcThreshold:    1000,
		FinalizedGcThreshold: 1000,
	})
	require.NoError(t, engine.Genesis(genesis, big.NewInt(100)))

	f := NewPoWFacade(engine)
	require.Equal(t, EraPoW, f.Era())

	last, err := f.LastBlockNumber()
	require.NoError(t, err)
	require.EqualValues(t, 0, last)

	require.True(t, f.IsKnownExecutionHeader(0))
	require.False(t, f.IsKnownExecutionHeader(1))

	root, err := f.DagMerkleRoot(0)
	require.NoError(t, err)
	require.Equal(t, common.H128{0x01}, root)

	_, err = f.FinalizedBeaconBlockRoot()
	require.ErrorIs(t, err, ErrWrongEra)

	_, err = f.GetClientMode()
	require.ErrorIs(t, err, ErrWrongEra)
}

func TestPoWFacadeAddBlockHeaderAndAdminOps(t *testing.T) {
	db := memorydb.New()
	genesis := &types.ExecutionHeader{Difficulty: big.NewInt(100), GasLimit: 5000, Number: 0}
	engine := powlight.New(db, powlight.Config{
		TrustedSigner:        "relayer",
		Owner:                "admin",
		HashesGcThreshold:    1000,
		FinalizedGcThreshold: 1000,
	})
	require.NoError(t, engine.Genesis(genesis, big.NewInt(100)))
	f := NewPoWFacade(engine)

	child := &types.ExecutionHeader{
		ParentHash: genesis.Hash(),
		Difficulty: big.NewInt(100),
		GasLimit:   5000,
		Number:     1,
		Timestamp:  1,
	}
	require.NoError(t, f.AddBlockHeader(child.EncodeRLP(), nil, "relayer"))

	last, err := f.LastBlockNumber()
	require.NoError(t, err)
	require.EqualValues(t, 1, last)

	require.NoError(t, f.UpdateHashesGcThreshold("admin", 2000))
	require.NoError(t, f.SetPaused("admin", powlight.PauseAddBlockHeader))

	require.ErrorIs(t,
		f.AddBlockHeader(child.EncodeRLP(), nil, "relayer"),
		powlight.ErrPaused,
	)
}
