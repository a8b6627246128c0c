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

// Package params carries the network-specific constants the beacon
// light client needs outside of any single update: genesis validators
// roots, the Bellatrix/Capella/Deneb fork-version/fork-epoch schedule,
// and the Ethash per-epoch DAG Merkle root table (spec.md §3, §9
// "Fork-version schedule").
package params

import (
	"fmt"

	"github.com/Near-One/rainbow-bridge-sub000/common"
)

// Network names a supported beacon-chain network.
type Network string

const (
	Mainnet Network = "mainnet"
	Goerli  Network = "goerli"
	Sepolia Network = "sepolia"
	Holesky Network = "holesky"
)

// ForkVersion is the 4-byte domain-separation tag broadcast in a
// BeaconState's fork info.
type ForkVersion [4]byte

// ForkSchedule gives the fork version active as of each named fork's
// activation epoch, in ascending order. ForkVersionAtEpoch scans it to
// find the version active at a given epoch.
type ForkSchedule struct {
	GenesisValidatorsRoot common.H256
	Bellatrix             ForkEpoch
	Capella               ForkEpoch
	Deneb                 ForkEpoch
}

// ForkEpoch pairs a fork's activation epoch with the version it introduces.
type ForkEpoch struct {
	Epoch   uint64
	Version ForkVersion
}

// SlotsPerEpoch and SecondsPerSlot are consensus-layer-wide constants;
// every supported network share them post-genesis.
const (
	SlotsPerEpoch  = 32
	SlotsPerPeriod = 256 * SlotsPerEpoch // one sync-committee period
)

// EpochAtSlot returns slot/SlotsPerEpoch.
func EpochAtSlot(slot uint64) uint64 { return slot / SlotsPerEpoch }

// networks holds the hard-coded fork schedules for the four supported
// networks (spec.md §9: "The four supported networks carry hard-coded
// fork version tuples and fork-epoch boundaries").
var networks = map[Network]ForkSchedule{
	Mainnet: {
		GenesisValidatorsRoot: common.H256{0x4b, 0x36, 0x3d, 0xb9, 0x4e, 0x28, 0x61, 0x20, 0xd7, 0x6e, 0xb9, 0x05, 0x34, 0x0f, 0xdd, 0x4e, 0x54, 0xbf, 0xe9, 0xf0, 0x6b, 0xf3, 0x3f, 0xf6, 0xcf, 0x5a, 0xd2, 0x7f, 0x51, 0x1b, 0xfe, 0x95},
		Bellatrix:             ForkEpoch{Epoch: 144896, Version: ForkVersion{0x02, 0x00, 0x00, 0x00}},
		Capella:               ForkEpoch{Epoch: 194048, Version: ForkVersion{0x03, 0x00, 0x00, 0x00}},
		Deneb:                 ForkEpoch{Epoch: 269568, Version: ForkVersion{0x04, 0x00, 0x00, 0x00}},
	},
	Goerli: {
		GenesisValidatorsRoot: common.H256{0x04, 0x3d, 0xb0, 0xd9, 0xa8, 0x38, 0x13, 0x55, 0x1e, 0xe2, 0xf3, 0x35, 0x45, 0x0d, 0x23, 0x7d, 0x2a, 0x93, 0x5c, 0xee, 0xa0, 0x52, 0x26, 0x03, 0x82, 0x13, 0x19, 0x4b, 0x72, 0x9b, 0xd6, 0x4a},
		Bellatrix:             ForkEpoch{Epoch: 112260, Version: ForkVersion{0x02, 0x00, 0x10, 0x20}},
		Capella:               ForkEpoch{Epoch: 162304, Version: ForkVersion{0x03, 0x00, 0x10, 0x20}},
		Deneb:                 ForkEpoch{Epoch: 231680, Version: ForkVersion{0x04, 0x00, 0x10, 0x20}},
	},
	Sepolia: {
		GenesisValidatorsRoot: common.H256{0xd8, 0xea, 0x17, 0x1f, 0x3c, 0x94, 0xae, 0xa2, 0x1e, 0xbc, 0x42, 0xa1, 0xed, 0x61, 0x05, 0x2a, 0xcf, 0x3f, 0x92, 0x09, 0xc0, 0x0e, 0x4e, 0xfb, 0xaa, 0xdd, 0xac, 0x09, 0xed, 0x9b, 0x80, 0x78},
		Bellatrix:             ForkEpoch{Epoch: 100, Version: ForkVersion{0x90, 0x00, 0x00, 0x71}},
		Capella:               ForkEpoch{Epoch: 56832, Version: ForkVersion{0x90, 0x00, 0x00, 0x72}},
		Deneb:                 ForkEpoch{Epoch: 132608, Version: ForkVersion{0x90, 0x00, 0x00, 0x73}},
	},
	Holesky: {
		GenesisValidatorsRoot: common.H256{0x91, 0x43, 0xaa, 0x7c, 0x61, 0x5a, 0x7f, 0x7d, 0x91, 0xe2, 0x89, 0x95, 0xf9, 0xc9, 0xbf, 0xd1, 0xae, 0xaa, 0x4f, 0x2e, 0x4e, 0xbd, 0xc8, 0x8a, 0x96, 0xd3, 0x2f, 0x87, 0x04, 0x56, 0x56, 0x4a},
		Bellatrix:             ForkEpoch{Epoch: 0, Version: ForkVersion{0x03, 0x01, 0x00, 0x00}},
		Capella:               ForkEpoch{Epoch: 256, Version: ForkVersion{0x04, 0x01, 0x00, 0x00}},
		Deneb:                 ForkEpoch{Epoch: 29696, Version: ForkVersion{0x05, 0x01, 0x00, 0x00}},
	},
}

// ErrUnknownNetwork is returned by Schedule for a network tag not in the
// hard-coded table.
var ErrUnknownNetwork = fmt.Errorf("params: unknown network")

// Schedule returns the fork schedule for a supported network.
func Schedule(n Network) (ForkSchedule, error) {
	s, ok := networks[n]
	if !ok {
		return ForkSchedule{}, fmt.Errorf("%w: %q", ErrUnknownNetwork, n)
	}
	return s, nil
}

// ErrPreBellatrixSlot is returned when a slot falls before the network's
// Bellatrix activation epoch: the light client has nothing to verify
// pre-Merge (spec.md §9 "An unknown slot (pre-Bellatrix) ... yields
// InvalidUpdate").
var ErrPreBellatrixSlot = fmt.Errorf("params: slot precedes Bellatrix activation")

// ForkVersionAtSlot returns the fork version active at slot under
// schedule, or ErrPreBellatrixSlot if slot precedes Bellatrix.
func (s ForkSchedule) ForkVersionAtSlot(slot uint64) (ForkVersion, error) {
	epoch := EpochAtSlot(slot)
	switch {
	case epoch >= s.Deneb.Epoch:
		return s.Deneb.Version, nil
	case epoch >= s.Capella.Epoch:
		return s.Capella.Version, nil
	case epoch >= s.Bellatrix.Epoch:
		return s.Bellatrix.Version, nil
	default:
		return ForkVersion{}, ErrPreBellatrixSlot
	}
}

// IsDeneb reports whether slot falls at or after the network's Deneb
// activation, which changes the execution-payload proof's branch length
// (spec.md §4.E step 5).
func (s ForkSchedule) IsDeneb(slot uint64) bool {
	return EpochAtSlot(slot) >= s.Deneb.Epoch
}
