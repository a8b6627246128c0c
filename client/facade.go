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

// Package client implements the external interface facade (spec.md §4.G):
// the single surface a relayer or bridge consumes, fronting either the
// PoW header-chain engine or the post-Merge beacon light client. Query
// and admin operations take their era-appropriate meaning; proof
// verification (verify_log_entry, verify_storage_proof) is era-agnostic
// and lives in proof.go.
package client

import (
	"errors"

	"github.com/Near-One/rainbow-bridge-sub000/beacon/light"
	"github.com/Near-One/rainbow-bridge-sub000/common"
	"github.com/Near-One/rainbow-bridge-sub000/consensus/ethash"
	"github.com/Near-One/rainbow-bridge-sub000/core/types"
	powlight "github.com/Near-One/rainbow-bridge-sub000/light"
)

// ErrWrongEra is returned when an operation is invoked against a facade
// not configured for the engine that operation requires.
var ErrWrongEra = errors.New("client: operation not valid for this facade's era")

// Era selects which underlying engine a Facade fronts. A single
// deployment runs one era at a time; migrating from PoW to post-Merge
// means standing up a new Facade over a Bootstrap-seeded beacon engine,
// mirroring how the real network transitioned once at the Merge.
type Era byte

const (
	EraPoW Era = iota
	EraBeacon
)

// Facade is the external interface both relayers and proof consumers
// call through (spec.md §4.G, §6).
type Facade struct {
	era    Era
	pow    *powlight.Engine
	beacon *light.Engine
}

// NewPoWFacade fronts a PoW header-chain engine.
func NewPoWFacade(engine *powlight.Engine) *Facade {
	return &Facade{era: EraPoW, pow: engine}
}

// NewBeaconFacade fronts a post-Merge beacon light client engine.
func NewBeaconFacade(engine *light.Engine) *Facade {
	return &Facade{era: EraBeacon, beacon: engine}
}

// Era reports which engine this facade fronts.
func (f *Facade) Era() Era { return f.era }

// LastBlockNumber returns the PoW tip's block number, or the post-Merge
// finalized execution block number (spec.md §4.G query).
func (f *Facade) LastBlockNumber() (uint64, error) {
	switch f.era {
	case EraPoW:
		return f.pow.LastBlockNumber()
	default:
		return f.beacon.LastBlockNumber()
	}
}

// BlockHashSafe returns the hash at number once it has cleared the
// era-appropriate safety margin (confirmation lag for PoW, finalization
// for post-Merge).
func (f *Facade) BlockHashSafe(number uint64) (common.H256, error) {
	switch f.era {
	case EraPoW:
		return f.pow.BlockHashSafe(number)
	default:
		return f.beacon.BlockHashSafe(number)
	}
}

// IsKnownExecutionHeader reports whether number has any retained hash,
// finalized or not.
func (f *Facade) IsKnownExecutionHeader(number uint64) bool {
	if f.era == EraBeacon {
		return f.beacon.IsKnownExecutionHeader(number)
	}
	_, err := f.pow.BlockHash(number)
	return err == nil
}

// FinalizedBeaconBlockRoot returns the currently finalized beacon
// block's own tree-hash root (post-Merge only).
func (f *Facade) FinalizedBeaconBlockRoot() (common.H256, error) {
	if f.era != EraBeacon {
		return common.H256{}, ErrWrongEra
	}
	return f.beacon.FinalizedBeaconBlockRoot()
}

// FinalizedBeaconBlockSlot returns the currently finalized beacon
// block's slot (post-Merge only).
func (f *Facade) FinalizedBeaconBlockSlot() (uint64, error) {
	if f.era != EraBeacon {
		return 0, ErrWrongEra
	}
	return f.beacon.FinalizedBeaconBlockSlot()
}

// GetClientMode returns which write operation is currently permitted on
// the beacon engine (post-Merge only).
func (f *Facade) GetClientMode() (light.ClientMode, error) {
	if f.era != EraBeacon {
		return 0, ErrWrongEra
	}
	return f.beacon.ClientMode()
}

// GetUnfinalizedTailBlockNumber returns the oldest header in the
// in-progress execution-header descent, if any (post-Merge only).
func (f *Facade) GetUnfinalizedTailBlockNumber() (uint64, bool, error) {
	if f.era != EraBeacon {
		return 0, false, ErrWrongEra
	}
	return f.beacon.UnfinalizedTailBlockNumber()
}

// LightClientState is the snapshot get_light_client_state() returns
// (spec.md §4.G query).
type LightClientState struct {
	FinalizedBeaconHeader types.ExtendedBeaconBlockHeader
	CurrentSyncCommittee  *types.SyncCommittee
	NextSyncCommittee     *types.SyncCommittee
}

// GetLightClientState snapshots the beacon engine's finalized header and
// sync committees (post-Merge only).
func (f *Facade) GetLightClientState() (LightClientState, error) {
	if f.era != EraBeacon {
		return LightClientState{}, ErrWrongEra
	}
	header, err := f.beacon.FinalizedBeaconHeader()
	if err != nil {
		return LightClientState{}, err
	}
	current, err := f.beacon.CurrentSyncCommittee()
	if err != nil {
		return LightClientState{}, err
	}
	next, err := f.beacon.NextSyncCommittee()
	if err != nil {
		return LightClientState{}, err
	}
	return LightClientState{
		FinalizedBeaconHeader: header,
		CurrentSyncCommittee:  current,
		NextSyncCommittee:     next,
	}, nil
}

// DagMerkleRoot returns the Ethash DAG Merkle root covering epoch
// (PoW only).
func (f *Facade) DagMerkleRoot(epoch uint64) (common.H128, error) {
	if f.era != EraPoW {
		return common.H128{}, ErrWrongEra
	}
	return f.pow.DagMerkleRoot(epoch)
}

// AddBlockHeader decodes rawRLP and submits it to the PoW engine
// (spec.md §4.G write, PoW era).
func (f *Facade) AddBlockHeader(rawRLP []byte, dagNodes []ethash.DoubleNodeWithMerkleProof, submitter string) error {
	if f.era != EraPoW {
		return ErrWrongEra
	}
	header, err := types.DecodeHeaderRLP(rawRLP)
	if err != nil {
		return err
	}
	return f.pow.AddHeader(header, dagNodes, submitter)
}

// SubmitBeaconChainLightClientUpdate forwards update to the beacon
// engine (spec.md §4.G write, post-Merge era).
func (f *Facade) SubmitBeaconChainLightClientUpdate(update *types.LightClientUpdate, submitter string) error {
	if f.era != EraBeacon {
		return ErrWrongEra
	}
	return f.beacon.SubmitUpdate(update, submitter)
}

// SubmitExecutionHeader decodes rawRLP and submits it to the beacon
// engine's finalizer (spec.md §4.G write, post-Merge era).
func (f *Facade) SubmitExecutionHeader(rawRLP []byte, submitter string) error {
	if f.era != EraBeacon {
		return ErrWrongEra
	}
	header, err := types.DecodeHeaderRLP(rawRLP)
	if err != nil {
		return err
	}
	return f.beacon.SubmitExecutionHeader(header, submitter)
}

// UpdateTrustedSigner forwards the admin op to whichever engine this
// facade fronts (spec.md §9 supplemented admin ops).
func (f *Facade) UpdateTrustedSigner(caller, newSigner string) error {
	if f.era == EraPoW {
		return f.pow.UpdateTrustedSigner(caller, newSigner)
	}
	return f.beacon.UpdateTrustedSigner(caller, newSigner)
}

// UpdateHashesGcThreshold forwards the admin op to whichever engine this
// facade fronts.
func (f *Facade) UpdateHashesGcThreshold(caller string, threshold uint64) error {
	if f.era == EraPoW {
		return f.pow.UpdateHashesGcThreshold(caller, threshold)
	}
	return f.beacon.UpdateHashesGcThreshold(caller, threshold)
}

// SetPaused forwards the admin op to whichever engine this facade fronts.
func (f *Facade) SetPaused(caller string, mask uint32) error {
	if f.era == EraPoW {
		return f.pow.SetPaused(caller, mask)
	}
	return f.beacon.SetPaused(caller, mask)
}
