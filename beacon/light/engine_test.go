package light

import (
	"testing"

	"github.com/Near-One/rainbow-bridge-sub000/common"
	"github.com/Near-One/rainbow-bridge-sub000/core/types"
	"github.com/Near-One/rainbow-bridge-sub000/ethdb/memorydb"
	"github.com/Near-One/rainbow-bridge-sub000/params"
	"github.com/Near-One/rainbow-bridge-sub000/ssz"
	"github.com/stretchr/testify/require"
)

func testSchedule() params.ForkSchedule {
	return params.ForkSchedule{
		GenesisValidatorsRoot: common.H256{0xaa},
		Bellatrix:             params.ForkEpoch{Epoch: 0, Version: params.ForkVersion{0x02, 0, 0, 0}},
		Capella:               params.ForkEpoch{Epoch: 1_000_000, Version: params.ForkVersion{0x03, 0, 0, 0}},
		Deneb:                 params.ForkEpoch{Epoch: 2_000_000, Version: params.ForkVersion{0x04, 0, 0, 0}},
	}
}

func testBeaconConfig() Config {
	return Config{
		Schedule:            testSchedule(),
		ValidateUpdates:     true,
		VerifyBLSSignatures: false,
		HashesGcThreshold:   500,
		TrustedSigner:       "relayer.near",
	}
}

func fullParticipationAggregate() types.SyncAggregate {
	var agg types.SyncAggregate
	for i := range agg.SyncCommitteeBits {
		agg.SyncCommitteeBits[i] = 0xff
	}
	return agg
}

// bootstrapAt seeds a fresh engine with a finalized beacon header at slot,
// whose execution block hash is an arbitrary fixture value, plus an empty
// current sync committee.
func bootstrapAt(t *testing.T, cfg Config, slot uint64) *Engine {
	t.Helper()
	db := memorydb.New()
	e := New(db, cfg)
	finalizedBeacon := types.ExtendedBeaconBlockHeader{
		Header:             types.BeaconBlockHeader{Slot: slot},
		BeaconBlockRoot:    common.H256{0x11},
		ExecutionBlockHash: common.H256{0x22},
	}
	finalizedExec := types.ExecutionHeaderInfo{
		ParentHash:  common.H256{0x33},
		BlockNumber: 900,
		Submitter:   "genesis",
		Hash:        common.H256{0x22},
	}
	require.NoError(t, e.Bootstrap(finalizedBeacon, finalizedExec, &types.SyncCommittee{}))
	return e
}

// buildUpdateSamePeriod constructs a LightClientUpdate whose finalized and
// attested slots share the stored header's sync-committee period, so no
// next-sync-committee proof is required — isolating the finality and
// execution-payload proof checks.
func buildUpdateSamePeriod(storedSlot uint64) *types.LightClientUpdate {
	finalizedHeader := types.LightClientHeader{
		Beacon: types.BeaconBlockHeader{Slot: storedSlot + 10},
		Execution: types.ExecutionPayloadHeader{
			BlockHash: common.H256{0x55},
		},
	}
	isDeneb := false
	l2Depth := executionPayloadTreeDepth(isDeneb)
	l2Branch := make([]ssz.Root, l2Depth)
	for i := range l2Branch {
		l2Branch[i] = ssz.Root{byte(i + 1)}
	}
	l2Subtree := ssz.GeneralizedIndexSubtreeIndex(executionBlockHashGIndexSub, l2Depth)
	payloadRoot := ssz.ComputeMerkleRoot(ssz.Root(finalizedHeader.Execution.BlockHash), l2Branch, l2Subtree)

	l1Branch := make([]ssz.Root, beaconBlockBodyTreeDepth)
	for i := range l1Branch {
		l1Branch[i] = ssz.Root{byte(i + 10)}
	}
	l1Subtree := ssz.GeneralizedIndexSubtreeIndex(executionPayloadGIndexSub, beaconBlockBodyTreeDepth)
	bodyRoot := ssz.ComputeMerkleRoot(payloadRoot, l1Branch, l1Subtree)
	finalizedHeader.Beacon.BodyRoot = common.H256(bodyRoot)

	branch := append(append([]ssz.Root{}, l2Branch...), l1Branch...)
	executionBranch := make([]common.H256, len(branch))
	for i, r := range branch {
		executionBranch[i] = common.H256(r)
	}
	finalizedHeader.ExecutionBranch = executionBranch

	finalizedRoot := finalizedHeader.Beacon.TreeHashRoot()
	finalityBranch := make([]ssz.Root, finalizedRootDepth)
	for i := range finalityBranch {
		finalityBranch[i] = ssz.Root{byte(i + 20)}
	}
	attestedStateRoot := ssz.ComputeMerkleRoot(finalizedRoot, finalityBranch, finalizedRootSubtree)
	finalityBranchHashes := make([]common.H256, len(finalityBranch))
	for i, r := range finalityBranch {
		finalityBranchHashes[i] = common.H256(r)
	}

	attestedHeader := types.LightClientHeader{
		Beacon: types.BeaconBlockHeader{
			Slot:      storedSlot + 10,
			StateRoot: common.H256(attestedStateRoot),
		},
	}

	return &types.LightClientUpdate{
		AttestedHeader:  attestedHeader,
		FinalizedHeader: finalizedHeader,
		FinalityBranch:  finalityBranchHashes,
		SyncAggregate:   fullParticipationAggregate(),
		SignatureSlot:   storedSlot + 11,
	}
}

func TestBootstrapSetsAwaitingBeaconUpdate(t *testing.T) {
	e := bootstrapAt(t, testBeaconConfig(), 100)
	mode, err := e.ClientMode()
	require.NoError(t, err)
	require.Equal(t, AwaitingBeaconUpdate, mode)
}

func TestSubmitUpdateSamePeriodCommits(t *testing.T) {
	e := bootstrapAt(t, testBeaconConfig(), 100)
	update := buildUpdateSamePeriod(100)

	require.NoError(t, e.SubmitUpdate(update, "relayer.near"))

	mode, err := e.ClientMode()
	require.NoError(t, err)
	require.Equal(t, AwaitingExecutionHeaders, mode)

	slot, err := e.FinalizedBeaconBlockSlot()
	require.NoError(t, err)
	require.Equal(t, update.FinalizedHeader.Beacon.Slot, slot)
}

func TestSubmitUpdateRejectsInsufficientParticipants(t *testing.T) {
	e := bootstrapAt(t, testBeaconConfig(), 100)
	update := buildUpdateSamePeriod(100)
	update.SyncAggregate = types.SyncAggregate{} // zero participants

	err := e.SubmitUpdate(update, "relayer.near")
	require.ErrorIs(t, err, ErrInvalidUpdate)
}

func TestSubmitUpdateRejectsTamperedFinalityProof(t *testing.T) {
	e := bootstrapAt(t, testBeaconConfig(), 100)
	update := buildUpdateSamePeriod(100)
	update.FinalityBranch[0][0] ^= 0xff

	err := e.SubmitUpdate(update, "relayer.near")
	require.ErrorIs(t, err, ErrInvalidProof)
}

func TestSubmitUpdateRejectsTamperedExecutionProof(t *testing.T) {
	e := bootstrapAt(t, testBeaconConfig(), 100)
	update := buildUpdateSamePeriod(100)
	update.FinalizedHeader.ExecutionBranch[0][0] ^= 0xff

	err := e.SubmitUpdate(update, "relayer.near")
	require.ErrorIs(t, err, ErrInvalidProof)
}

func TestSubmitUpdateRequiresTrustedSigner(t *testing.T) {
	e := bootstrapAt(t, testBeaconConfig(), 100)
	update := buildUpdateSamePeriod(100)

	err := e.SubmitUpdate(update, "impostor.near")
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestSubmitUpdateRejectsWrongMode(t *testing.T) {
	e := bootstrapAt(t, testBeaconConfig(), 100)
	update := buildUpdateSamePeriod(100)
	require.NoError(t, e.SubmitUpdate(update, "relayer.near"))

	// A second beacon update while the engine awaits execution headers
	// must be rejected.
	update2 := buildUpdateSamePeriod(update.FinalizedHeader.Beacon.Slot)
	err := e.SubmitUpdate(update2, "relayer.near")
	require.ErrorIs(t, err, ErrWrongMode)
}

func TestSubmitUpdateRespectsPause(t *testing.T) {
	cfg := testBeaconConfig()
	cfg.Paused = PauseSubmitUpdate
	e := bootstrapAt(t, cfg, 100)
	update := buildUpdateSamePeriod(100)

	err := e.SubmitUpdate(update, "relayer.near")
	require.ErrorIs(t, err, ErrPaused)
}

func TestAdminOpsRequireOwner(t *testing.T) {
	cfg := testBeaconConfig()
	cfg.Owner = "admin.near"
	e := bootstrapAt(t, cfg, 100)

	require.ErrorIs(t, e.UpdateTrustedSigner("not-admin.near", "x"), ErrUnauthorized)
	require.NoError(t, e.UpdateTrustedSigner("admin.near", "new-relayer.near"))

	require.NoError(t, e.UpdateHashesGcThreshold("admin.near", 42))
	require.Equal(t, uint64(42), e.config.HashesGcThreshold)

	require.NoError(t, e.SetPaused("admin.near", PauseSubmitUpdate))
	update := buildUpdateSamePeriod(100)
	err := e.SubmitUpdate(update, "new-relayer.near")
	require.ErrorIs(t, err, ErrPaused)
}

func TestVerifyExecutionPayloadProofDenebDepth(t *testing.T) {
	header := &types.LightClientHeader{
		Execution: types.ExecutionPayloadHeader{BlockHash: common.H256{0x7}},
	}
	l2Depth := executionPayloadTreeDepth(true)
	l2Branch := make([]ssz.Root, l2Depth)
	for i := range l2Branch {
		l2Branch[i] = ssz.Root{byte(i + 1)}
	}
	l2Subtree := ssz.GeneralizedIndexSubtreeIndex(executionBlockHashGIndexSub, l2Depth)
	payloadRoot := ssz.ComputeMerkleRoot(ssz.Root(header.Execution.BlockHash), l2Branch, l2Subtree)

	l1Branch := make([]ssz.Root, beaconBlockBodyTreeDepth)
	for i := range l1Branch {
		l1Branch[i] = ssz.Root{byte(i + 10)}
	}
	l1Subtree := ssz.GeneralizedIndexSubtreeIndex(executionPayloadGIndexSub, beaconBlockBodyTreeDepth)
	bodyRoot := ssz.ComputeMerkleRoot(payloadRoot, l1Branch, l1Subtree)
	header.Beacon.BodyRoot = common.H256(bodyRoot)

	branch := append(append([]ssz.Root{}, l2Branch...), l1Branch...)
	header.ExecutionBranch = make([]common.H256, len(branch))
	for i, r := range branch {
		header.ExecutionBranch[i] = common.H256(r)
	}

	require.NoError(t, verifyExecutionPayloadProof(header, true))
	require.Equal(t, 9, len(header.ExecutionBranch))
}

func TestVerifyNextCommitteeProofDirect(t *testing.T) {
	committee := &types.SyncCommittee{}
	committeeRoot := committee.TreeHashRoot()
	branch := make([]ssz.Root, nextSyncCommitteeDepth)
	for i := range branch {
		branch[i] = ssz.Root{byte(i + 1)}
	}
	attestedStateRoot := ssz.ComputeMerkleRoot(committeeRoot, branch, nextSyncCommitteeSubtree)
	branchHashes := make([]common.H256, len(branch))
	for i, r := range branch {
		branchHashes[i] = common.H256(r)
	}

	err := verifyNextCommitteeProof(committeeRoot, branchHashes, common.H256(attestedStateRoot))
	require.NoError(t, err)

	branchHashes[0][0] ^= 0xff
	err = verifyNextCommitteeProof(committeeRoot, branchHashes, common.H256(attestedStateRoot))
	require.ErrorIs(t, err, ErrInvalidProof)
}
