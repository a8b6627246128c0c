// Copyright 2024 The rainbow-bridge-sub000 Authors
// This file is part of the rainbow-bridge-sub000 library.
//
// The rainbow-bridge-sub000 library is free software: you can redistribute it
// and/or modify it under the terms of the GNU Lesser General Public License
// as published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// The rainbow-bridge-sub000 library is distributed in the hope that it will
// be useful, but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the GNU Lesser
// General Public License for more details.

package light

import (
	"github.com/Near-One/rainbow-bridge-sub000/common"
	"github.com/Near-One/rainbow-bridge-sub000/core/types"
	"github.com/Near-One/rainbow-bridge-sub000/ssz"
)

// Generalized indices for the BeaconState/BeaconBlockBody fields the
// light client proves against (spec.md §4.E steps 4-6).
const (
	finalizedRootGIndex    = 105
	nextSyncCommitteeGIndex = 55

	// executionPayloadGIndexSub is body.execution_payload's position in
	// BeaconBlockBody; executionBlockHashGIndexSub is block_hash's
	// position in ExecutionPayload. Both are fixed across forks.
	beaconBlockBodyTreeDepth   = 4
	executionPayloadGIndexSub  = 9
	executionBlockHashGIndexSub = 12
)

var (
	finalizedRootDepth      = ssz.GeneralizedIndexDepth(finalizedRootGIndex)
	finalizedRootSubtree    = ssz.GeneralizedIndexSubtreeIndex(finalizedRootGIndex, finalizedRootDepth)
	nextSyncCommitteeDepth  = ssz.GeneralizedIndexDepth(nextSyncCommitteeGIndex)
	nextSyncCommitteeSubtree = ssz.GeneralizedIndexSubtreeIndex(nextSyncCommitteeGIndex, nextSyncCommitteeDepth)
)

// executionPayloadTreeDepth is the execution-payload container's own
// merkle depth: ceil(log2(field count)), which grows by one level at
// Deneb when two fields are added (blob_gas_used, excess_blob_gas) — ground-truth values taken
// from the original eth2-utility consensus.rs proof-size table.
func executionPayloadTreeDepth(isDeneb bool) int {
	if isDeneb {
		return 5
	}
	return 4
}

// executionBranchLength is the total execution_branch length for the
// active fork: l2 (execution-payload tree) + l1 (beacon-body tree).
func executionBranchLength(isDeneb bool) int {
	return executionPayloadTreeDepth(isDeneb) + beaconBlockBodyTreeDepth
}

// verifyFinalityProof checks that finalizedRoot's Merkle branch against
// attestedStateRoot matches generalized index 105 (spec.md §4.E step 4).
func verifyFinalityProof(finalizedRoot ssz.Root, branch []common.H256, attestedStateRoot common.H256) error {
	if len(branch) != finalizedRootDepth {
		return ErrInvalidProof
	}
	if !ssz.VerifyMerkleBranch(finalizedRoot, toRoots(branch), finalizedRootSubtree, ssz.Root(attestedStateRoot)) {
		return ErrInvalidProof
	}
	return nil
}

// verifyNextCommitteeProof checks next_sync_committee's Merkle branch
// against attestedStateRoot matches generalized index 55 (spec.md §4.E
// step 6).
func verifyNextCommitteeProof(committeeRoot ssz.Root, branch []common.H256, attestedStateRoot common.H256) error {
	if len(branch) != nextSyncCommitteeDepth {
		return ErrInvalidProof
	}
	if !ssz.VerifyMerkleBranch(committeeRoot, toRoots(branch), nextSyncCommitteeSubtree, ssz.Root(attestedStateRoot)) {
		return ErrInvalidProof
	}
	return nil
}

// verifyExecutionPayloadProof reconstructs the execution-payload-header
// root from header.Execution.BlockHash using the lower (l2) part of
// header.ExecutionBranch, then verifies that root against
// header.Beacon.BodyRoot using the upper (l1) part (spec.md §4.E step 5).
func verifyExecutionPayloadProof(header *types.LightClientHeader, isDeneb bool) error {
	want := executionBranchLength(isDeneb)
	if len(header.ExecutionBranch) != want {
		return ErrInvalidProof
	}
	l2Depth := executionPayloadTreeDepth(isDeneb)
	l2 := toRoots(header.ExecutionBranch[:l2Depth])
	l1 := toRoots(header.ExecutionBranch[l2Depth:])

	blockHashLeaf := ssz.Root(header.Execution.BlockHash)
	l2Subtree := ssz.GeneralizedIndexSubtreeIndex(executionBlockHashGIndexSub, l2Depth)
	payloadRoot := ssz.ComputeMerkleRoot(blockHashLeaf, l2, l2Subtree)

	l1Subtree := ssz.GeneralizedIndexSubtreeIndex(executionPayloadGIndexSub, beaconBlockBodyTreeDepth)
	if !ssz.VerifyMerkleBranch(payloadRoot, l1, l1Subtree, ssz.Root(header.Beacon.BodyRoot)) {
		return ErrInvalidProof
	}
	return nil
}

func toRoots(hashes []common.H256) []ssz.Root {
	out := make([]ssz.Root, len(hashes))
	for i, h := range hashes {
		out[i] = ssz.Root(h)
	}
	return out
}
