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
	"github.com/Near-One/rainbow-bridge-sub000/core/types"
	"github.com/Near-One/rainbow-bridge-sub000/crypto"
	"github.com/Near-One/rainbow-bridge-sub000/ethdb"
	"github.com/Near-One/rainbow-bridge-sub000/internal/metrics"
	lg "github.com/Near-One/rainbow-bridge-sub000/log"
	"github.com/Near-One/rainbow-bridge-sub000/params"
)

// PauseSubmitUpdate and PauseSubmitExecutionHeader are the pause-bitmask
// bits gating the beacon engine's two write operations (SPEC_FULL.md §3,
// named after the original contract's pause flags).
const (
	PauseSubmitUpdate          uint32 = 1 << 0
	PauseSubmitExecutionHeader uint32 = 1 << 1
)

// Config holds the beacon engine's runtime parameters (spec.md §3 "Beacon
// engine state" minus the mutable persisted records, which live in the
// backing store).
type Config struct {
	Schedule            params.ForkSchedule
	ValidateUpdates     bool
	VerifyBLSSignatures bool
	HashesGcThreshold   uint64
	TrustedSigner       string // empty means no trusted-signer bypass
	Owner               string // empty means admin ops always ErrUnauthorized
	Paused              uint32
	Metrics             *metrics.Collector // nil disables instrumentation
}

// Engine is the beacon light-client state machine: sync-committee-signed
// update verification (spec.md §4.E) plus the execution-header finalizer
// that chains execution headers backward to the previous finalization
// point (spec.md §4.F). All mutable state lives in the backing
// KeyValueStore.
type Engine struct {
	db     ethdb.KeyValueStore
	config Config
	log    lg.Logger
}

// New wraps db as a beacon engine under config.
func New(db ethdb.KeyValueStore, config Config) *Engine {
	return &Engine{db: db, config: config, log: lg.Root().With("engine", "beacon/light")}
}

// Bootstrap seeds the engine from a trusted checkpoint: an extended
// beacon header, the execution header it commits to, and the sync
// committee active for its period. It is the beacon-chain analogue of
// the PoW engine's Genesis (spec.md §4.E "init").
func (e *Engine) Bootstrap(header types.ExtendedBeaconBlockHeader, finalizedExecution types.ExecutionHeaderInfo, currentCommittee *types.SyncCommittee) error {
	if finalizedExecution.Hash != header.ExecutionBlockHash {
		return ErrMalformedInput
	}
	batch := e.db.NewBatch()
	if err := batch.Put(keyFinalizedBeacon, encodeExtendedHeader(header)); err != nil {
		return err
	}
	if err := batch.Put(keyFinalizedExecution, encodeExecutionHeaderInfo(finalizedExecution)); err != nil {
		return err
	}
	if err := batch.Put(finalizedBlockKey(finalizedExecution.BlockNumber), finalizedExecution.Hash.Bytes()); err != nil {
		return err
	}
	if err := batch.Put(keyCurrentCommittee, encodeSyncCommittee(currentCommittee)); err != nil {
		return err
	}
	if err := batch.Put(keyClientMode, []byte{byte(AwaitingBeaconUpdate)}); err != nil {
		return err
	}
	return batch.Write()
}

func (e *Engine) mode() (ClientMode, error) {
	raw, err := e.db.Get(keyClientMode)
	if err != nil {
		return AwaitingBeaconUpdate, err
	}
	return ClientMode(raw[0]), nil
}

func (e *Engine) setMode(batch ethdb.Batch, mode ClientMode) error {
	return batch.Put(keyClientMode, []byte{byte(mode)})
}

func (e *Engine) finalizedBeacon() (types.ExtendedBeaconBlockHeader, error) {
	raw, err := e.db.Get(keyFinalizedBeacon)
	if err != nil {
		return types.ExtendedBeaconBlockHeader{}, err
	}
	return decodeExtendedHeader(raw)
}

func (e *Engine) currentCommittee() (*types.SyncCommittee, error) {
	raw, err := e.db.Get(keyCurrentCommittee)
	if err != nil {
		return nil, err
	}
	return decodeSyncCommittee(raw)
}

func (e *Engine) nextCommittee() (*types.SyncCommittee, error) {
	raw, err := e.db.Get(keyNextCommittee)
	if err != nil {
		return nil, err
	}
	return decodeSyncCommittee(raw)
}

// SubmitUpdate verifies and, if valid, commits a sync-committee-signed
// light-client update (spec.md §4.E). submitter identifies the caller for
// the trusted-signer authorization gate, which here controls only who may
// call this operation — unlike the PoW engine's trusted-signer bypass, it
// never skips verification (SPEC_FULL.md §9).
func (e *Engine) SubmitUpdate(update *types.LightClientUpdate, submitter string) error {
	if err := e.submitUpdate(update, submitter); err != nil {
		e.config.Metrics.UpdateSubmitted("rejected")
		e.config.Metrics.OperationFailed("submit_update", err.Error())
		return err
	}
	e.config.Metrics.UpdateSubmitted("accepted")
	e.config.Metrics.SetFinalizedHeight("beacon_slot", update.FinalizedHeader.Beacon.Slot)
	return nil
}

func (e *Engine) submitUpdate(update *types.LightClientUpdate, submitter string) error {
	if e.config.Paused&PauseSubmitUpdate != 0 {
		return ErrPaused
	}
	if e.config.TrustedSigner != "" && submitter != e.config.TrustedSigner {
		return ErrUnauthorized
	}
	mode, err := e.mode()
	if err != nil {
		return err
	}
	if mode != AwaitingBeaconUpdate {
		return ErrWrongMode
	}

	stored, err := e.finalizedBeacon()
	if err != nil {
		return err
	}
	current, err := e.currentCommittee()
	if err != nil {
		return err
	}

	finalizedPeriod := stored.Header.Slot / params.SlotsPerPeriod
	next, _ := e.nextCommittee() // ok if absent pre-rotation; selection picks current unless signature_period says otherwise

	if e.config.ValidateUpdates {
		if err := e.validateUpdate(update, stored, finalizedPeriod); err != nil {
			return err
		}
	}
	if e.config.VerifyBLSSignatures {
		if err := e.verifySignature(update, finalizedPeriod, current, next); err != nil {
			return err
		}
	}

	updatePeriod := updatePeriodOf(update)

	batch := e.db.NewBatch()
	newFinalized := types.NewExtendedBeaconBlockHeader(&update.FinalizedHeader)
	if err := batch.Put(keyFinalizedBeacon, encodeExtendedHeader(newFinalized)); err != nil {
		return err
	}
	// Sync-committee period rotation (spec.md §4.E, original_source lib.rs:501-504):
	// the committee that was "next" in the period just finalized becomes
	// "current" in the new period, and the update's own NextSyncCommittee
	// becomes the new "next" — never the update's committee directly into
	// "current".
	if updatePeriod == finalizedPeriod+1 && next != nil {
		if err := batch.Put(keyCurrentCommittee, encodeSyncCommittee(next)); err != nil {
			return err
		}
		if update.NextSyncCommittee != nil {
			if err := batch.Put(keyNextCommittee, encodeSyncCommittee(update.NextSyncCommittee)); err != nil {
				return err
			}
		} else if err := batch.Delete(keyNextCommittee); err != nil {
			return err
		}
	}
	if err := e.setMode(batch, AwaitingExecutionHeaders); err != nil {
		return err
	}
	return batch.Write()
}

// validateUpdate runs the ordering, committee-bit, period, and Merkle
// proof checks of spec.md §4.E steps 1-6 (everything except BLS).
// finalizedPeriod is the period of the currently-stored finalized header,
// computed once by the caller so it can be reused for the BLS check too.
func (e *Engine) validateUpdate(update *types.LightClientUpdate, stored types.ExtendedBeaconBlockHeader, finalizedPeriod uint64) error {
	count := update.SyncAggregate.BitCount()
	if count < params.MinSyncCommitteeParticipants || 3*count < 2*512 {
		return ErrInvalidUpdate
	}

	finalizedSlot := update.FinalizedHeader.Beacon.Slot
	attestedSlot := update.AttestedHeader.Beacon.Slot
	if finalizedSlot <= stored.Header.Slot {
		return ErrInvalidUpdate
	}
	if attestedSlot < finalizedSlot {
		return ErrInvalidUpdate
	}
	if update.SignatureSlot <= attestedSlot {
		return ErrInvalidUpdate
	}

	updatePeriod := updatePeriodOf(update)
	if updatePeriod != finalizedPeriod && updatePeriod != finalizedPeriod+1 {
		return ErrInvalidUpdate
	}

	attestedStateRoot := update.AttestedHeader.Beacon.StateRoot
	finalizedRoot := update.FinalizedHeader.Beacon.TreeHashRoot()
	if err := verifyFinalityProof(finalizedRoot, update.FinalityBranch, attestedStateRoot); err != nil {
		return err
	}

	isDeneb := e.config.Schedule.IsDeneb(finalizedSlot)
	if err := verifyExecutionPayloadProof(&update.FinalizedHeader, isDeneb); err != nil {
		return err
	}

	if updatePeriod == finalizedPeriod+1 {
		if update.NextSyncCommittee == nil {
			return ErrInvalidUpdate
		}
		committeeRoot := update.NextSyncCommittee.TreeHashRoot()
		if err := verifyNextCommitteeProof(committeeRoot, update.NextSyncCommitteeBranch, attestedStateRoot); err != nil {
			return err
		}
	}
	return nil
}

// updatePeriodOf returns the sync-committee period of the update's
// finalized header's slot — the "update_period" spec.md §4.E reasons
// about (the finalized update is always present, so this is the header
// the original implementation calls "active_header").
func updatePeriodOf(update *types.LightClientUpdate) uint64 {
	return update.FinalizedHeader.Beacon.Slot / params.SlotsPerPeriod
}

// verifySignature checks the sync aggregate's FastAggregateVerify against
// the attested header's signing root, selecting the participant set from
// current or next committee by whichever period SignatureSlot falls in
// (spec.md §4.E step 7).
func (e *Engine) verifySignature(update *types.LightClientUpdate, finalizedPeriod uint64, current, next *types.SyncCommittee) error {
	signaturePeriod := update.SignatureSlot / params.SlotsPerPeriod

	var committee *types.SyncCommittee
	switch signaturePeriod {
	case finalizedPeriod:
		committee = current
	case finalizedPeriod + 1:
		committee = next
	default:
		return ErrInvalidUpdate
	}
	if committee == nil {
		return ErrInvalidUpdate
	}

	pubkeys := make([][]byte, 0, 512)
	for i := 0; i < 512; i++ {
		if update.SyncAggregate.BitSet(i) {
			pk := committee.Pubkeys[i]
			pubkeys = append(pubkeys, pk[:])
		}
	}

	forkVersion, err := e.config.Schedule.ForkVersionAtSlot(update.SignatureSlot)
	if err != nil {
		return ErrInvalidUpdate
	}
	domain := computeDomain(forkVersion, e.config.Schedule.GenesisValidatorsRoot)
	signingRoot := computeSigningRoot(update.AttestedHeader.Beacon.TreeHashRoot(), domain)

	ok, err := crypto.FastAggregateVerify(pubkeys, signingRoot[:], update.SyncAggregate.SyncCommitteeSignature[:])
	if err != nil {
		return err
	}
	if !ok {
		return ErrBLSVerifyFailed
	}
	return nil
}
