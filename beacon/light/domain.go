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
	"github.com/Near-One/rainbow-bridge-sub000/params"
	"github.com/Near-One/rainbow-bridge-sub000/ssz"
)

// domainSyncCommittee is the DOMAIN_SYNC_COMMITTEE domain type constant
// (spec.md §4.E step 7).
var domainSyncCommittee = [4]byte{0x07, 0x00, 0x00, 0x00}

// forkVersionRoot computes the hash-tree-root of a Bytes4 basic-type
// field: the 4 raw bytes left in an otherwise zero chunk.
func forkVersionRoot(v params.ForkVersion) ssz.Root {
	var r ssz.Root
	copy(r[:4], v[:])
	return r
}

// computeDomain computes domain = DOMAIN_SYNC_COMMITTEE || truncate28(tree_hash(ForkData{fork_version, genesis_validators_root}))
// per spec.md §4.E step 7.
func computeDomain(forkVersion params.ForkVersion, genesisValidatorsRoot common.H256) [32]byte {
	forkDataRoot := ssz.HashTreeRootContainer(
		forkVersionRoot(forkVersion),
		ssz.Root(genesisValidatorsRoot),
	)
	var domain [32]byte
	copy(domain[0:4], domainSyncCommittee[:])
	copy(domain[4:32], forkDataRoot[:28])
	return domain
}

// computeSigningRoot computes tree_hash(SigningData{object_root, domain}),
// the message BLS fast-aggregate-verify checks the sync committee's
// signature against (spec.md §4.E step 7).
func computeSigningRoot(objectRoot ssz.Root, domain [32]byte) ssz.Root {
	return ssz.HashTreeRootContainer(objectRoot, ssz.Root(domain))
}
