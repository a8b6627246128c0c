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
)

// LastBlockNumber returns the finalized execution tip's block number
// (spec.md §4.G query).
func (e *Engine) LastBlockNumber() (uint64, error) {
	info, err := e.finalizedExecution()
	if err != nil {
		return 0, err
	}
	return info.BlockNumber, nil
}

// BlockHashSafe returns the hash recorded for number, or ErrNotFinalized
// once number is past the finalized tip (spec.md §4.G query).
func (e *Engine) BlockHashSafe(number uint64) (common.H256, error) {
	tip, err := e.LastBlockNumber()
	if err != nil {
		return common.H256{}, err
	}
	if number > tip {
		return common.H256{}, ErrNotFinalized
	}
	return e.finalizedBlockHash(number)
}

// IsKnownExecutionHeader reports whether number has a recorded hash,
// finalized or not (spec.md §4.G query).
func (e *Engine) IsKnownExecutionHeader(number uint64) bool {
	ok, _ := e.db.Has(finalizedBlockKey(number))
	return ok
}

// FinalizedBeaconBlockRoot returns the currently finalized beacon block's
// own tree-hash root.
func (e *Engine) FinalizedBeaconBlockRoot() (common.H256, error) {
	h, err := e.finalizedBeacon()
	if err != nil {
		return common.H256{}, err
	}
	return h.BeaconBlockRoot, nil
}

// FinalizedBeaconBlockSlot returns the currently finalized beacon block's
// slot.
func (e *Engine) FinalizedBeaconBlockSlot() (uint64, error) {
	h, err := e.finalizedBeacon()
	if err != nil {
		return 0, err
	}
	return h.Header.Slot, nil
}

// ClientMode exposes the engine's current mode (spec.md §4.G query).
func (e *Engine) ClientMode() (ClientMode, error) {
	return e.mode()
}

// FinalizedBeaconHeader exposes the currently finalized extended beacon
// header (spec.md §4.G get_light_client_state).
func (e *Engine) FinalizedBeaconHeader() (types.ExtendedBeaconBlockHeader, error) {
	return e.finalizedBeacon()
}

// CurrentSyncCommittee exposes the sync committee active for the
// finalized header's period.
func (e *Engine) CurrentSyncCommittee() (*types.SyncCommittee, error) {
	return e.currentCommittee()
}

// NextSyncCommittee exposes the sync committee for the period after the
// finalized header's, or nil if it has not been delivered yet (absent
// until an update rotates the committee, not an error condition).
func (e *Engine) NextSyncCommittee() (*types.SyncCommittee, error) {
	committee, err := e.nextCommittee()
	if err != nil {
		return nil, nil
	}
	return committee, nil
}

// UnfinalizedTailBlockNumber returns the block number of the oldest
// (closest-to-finalized) header in the in-progress execution-header
// descent, if any.
func (e *Engine) UnfinalizedTailBlockNumber() (uint64, bool, error) {
	info, ok, err := e.tryUnfinalizedTail()
	if err != nil {
		return 0, false, err
	}
	return info.BlockNumber, ok, nil
}

// UnfinalizedHeadBlockNumber returns the block number of the newest
// header in the in-progress execution-header descent, if any.
func (e *Engine) UnfinalizedHeadBlockNumber() (uint64, bool, error) {
	info, ok, err := e.tryUnfinalizedHead()
	if err != nil {
		return 0, false, err
	}
	return info.BlockNumber, ok, nil
}

// authorize reports whether caller may perform an administrative
// operation: Owner must be configured and must match caller exactly
// (mirrors light.Engine.authorize).
func (e *Engine) authorize(caller string) error {
	if e.config.Owner == "" || caller != e.config.Owner {
		return ErrUnauthorized
	}
	return nil
}

// UpdateTrustedSigner changes the trusted-signer authorization account.
// Pass "" to disable the gate entirely (spec.md §9 supplemented admin ops).
func (e *Engine) UpdateTrustedSigner(caller, newSigner string) error {
	if err := e.authorize(caller); err != nil {
		return err
	}
	e.config.TrustedSigner = newSigner
	return nil
}

// UpdateHashesGcThreshold changes the unfinalized-descent GC window.
func (e *Engine) UpdateHashesGcThreshold(caller string, threshold uint64) error {
	if err := e.authorize(caller); err != nil {
		return err
	}
	e.config.HashesGcThreshold = threshold
	return nil
}

// SetPaused replaces the pause bitmask wholesale.
func (e *Engine) SetPaused(caller string, mask uint32) error {
	if err := e.authorize(caller); err != nil {
		return err
	}
	e.config.Paused = mask
	return nil
}
