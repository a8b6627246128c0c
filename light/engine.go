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

// Package light implements the pre-Merge proof-of-work header-chain
// engine (spec.md §4.D): header ingestion under Ethash PoW, heaviest
// cumulative-difficulty fork choice, and bounded garbage collection.
package light

import (
	"errors"
	"math/big"

	"github.com/Near-One/rainbow-bridge-sub000/common"
	"github.com/Near-One/rainbow-bridge-sub000/consensus/ethash"
	"github.com/Near-One/rainbow-bridge-sub000/core/types"
	"github.com/Near-One/rainbow-bridge-sub000/ethdb"
	"github.com/Near-One/rainbow-bridge-sub000/internal/metrics"
	lg "github.com/Near-One/rainbow-bridge-sub000/log"
	mapset "github.com/deckarep/golang-set/v2"
)

// PauseAddBlockHeader is the pause-bitmask bit gating AddHeader, named
// after the original contract's PAUSE_ADD_BLOCK_HEADER flag
// (SPEC_FULL.md §3).
const PauseAddBlockHeader uint32 = 1 << 0

// Config holds the engine's runtime parameters (spec.md §3 "PoW engine
// state" minus the mutable retained-header maps). TrustedSigner,
// HashesGcThreshold, and Paused are mutable via the admin operations.
type Config struct {
	DAGRoots             ethash.EpochDAGRoots
	ValidateEthash       bool
	NumConfirmations     uint64
	HashesGcThreshold    uint64
	FinalizedGcThreshold uint64
	TrustedSigner        string // empty means no trusted-signer bypass
	Owner                string // empty means admin ops always ErrUnauthorized
	Paused               uint32
	Metrics              *metrics.Collector // nil disables instrumentation
}

// Engine is the PoW header-chain state machine. All of its mutable state
// lives in the backing KeyValueStore; Engine itself is safe to recreate
// from the same store at any time.
type Engine struct {
	db     ethdb.KeyValueStore
	config Config
	log    lg.Logger

	// forkCandidates tracks hashes accepted as valid but that lost the
	// heaviest-chain comparison at ingestion time: an in-memory,
	// process-local bookkeeping set (not part of the persisted schema)
	// that lets an operator inspect live fork pressure without replaying
	// the whole retained-header set.
	forkCandidates mapset.Set[common.H256]
}

// New wraps db as a PoW engine under config.
func New(db ethdb.KeyValueStore, config Config) *Engine {
	return &Engine{
		db:             db,
		config:         config,
		log:            lg.Root().With("engine", "light"),
		forkCandidates: mapset.NewSet[common.H256](),
	}
}

// ForkCandidates returns the hashes of headers that did not become the
// canonical tip when they were accepted (spec.md §9 supplemented
// operational visibility into fork-choice pressure). An entry stays in
// the set after a later descendant makes its branch canonical.
func (e *Engine) ForkCandidates() []common.H256 {
	return e.forkCandidates.ToSlice()
}

// Genesis seeds the engine with a single trusted starting header, used
// to bootstrap a fresh chain without running PoW/structural validation
// on it.
func (e *Engine) Genesis(header *types.ExecutionHeader, cumulativeDifficulty *big.Int) error {
	hash := header.Hash()
	info := types.HeaderInfo{CumulativeDifficulty: cumulativeDifficulty, ParentHash: header.ParentHash, Number: header.Number}
	batch := e.db.NewBatch()
	if err := e.storeHeader(batch, header, info); err != nil {
		return err
	}
	if err := batch.Put(bestKey, hash.Bytes()); err != nil {
		return err
	}
	if err := e.setCanonical(batch, header.Number, hash); err != nil {
		return err
	}
	return batch.Write()
}

// AddHeader validates and ingests a new execution header, along with the
// DAG-node Merkle proofs needed to check its PoW (spec.md §4.D).
// submitter identifies the caller for the trusted-signer bypass.
func (e *Engine) AddHeader(header *types.ExecutionHeader, dagNodes []ethash.DoubleNodeWithMerkleProof, submitter string) error {
	if err := e.addHeader(header, dagNodes, submitter); err != nil {
		e.config.Metrics.OperationFailed("add_header", err.Error())
		return err
	}
	e.config.Metrics.HeaderAdded("pow")
	e.config.Metrics.SetFinalizedHeight("pow_tip", header.Number)
	return nil
}

func (e *Engine) addHeader(header *types.ExecutionHeader, dagNodes []ethash.DoubleNodeWithMerkleProof, submitter string) error {
	if e.config.Paused&PauseAddBlockHeader != 0 {
		return ErrPaused
	}
	trusted := e.config.TrustedSigner != "" && submitter == e.config.TrustedSigner

	hash := header.Hash()
	parent, err := e.Header(header.ParentHash)
	if err != nil {
		return ErrUnknownParent
	}

	tip, err := e.tipInfo()
	if err != nil {
		return err
	}
	if isTooOld(header.Number, tip.Number, e.config.FinalizedGcThreshold) {
		return ErrTooOld
	}

	if !trusted {
		if err := ethash.VerifyPoW(e.config.DAGRoots, header.PartialHash(), header.Nonce, header.Number, common.NewU256FromBig(header.Difficulty), dagNodes, e.config.ValidateEthash); err != nil {
			return err
		}
		if err := structuralCheck(header, parent, e.config.ValidateEthash); err != nil {
			return err
		}
	}

	parentInfo, err := e.Info(header.ParentHash)
	if err != nil {
		return ErrUnknownParent
	}
	cumulative := new(big.Int).Add(parentInfo.CumulativeDifficulty, header.Difficulty)
	info := types.HeaderInfo{CumulativeDifficulty: cumulative, ParentHash: header.ParentHash, Number: header.Number}

	if known, _ := e.db.Has(headerKey(hash)); known {
		return ErrDuplicateHeader
	}

	batch := e.db.NewBatch()
	if err := e.storeHeader(batch, header, info); err != nil {
		return err
	}

	becomesTip := cumulative.Cmp(tip.CumulativeDifficulty) > 0 ||
		(cumulative.Cmp(tip.CumulativeDifficulty) == 0 && header.Difficulty.Bit(0) == 1)

	if becomesTip {
		if err := batch.Put(bestKey, hash.Bytes()); err != nil {
			return err
		}
		if err := e.reorgCanonical(batch, tip.Number, header.Number, hash, header.ParentHash); err != nil {
			return err
		}
		if err := e.garbageCollect(batch, header.Number); err != nil {
			return err
		}
		e.forkCandidates.Remove(hash)
	} else {
		e.forkCandidates.Add(hash)
	}
	return batch.Write()
}

// isTooOld reports whether a header at headerNumber falls at or below the
// finalized retention boundary relative to the current tip — the same
// boundary garbageCollect uses to drop full header/info entries, so a
// header that trips this check is one whose ancestry may already be
// unrecoverable (spec.md §4.D step 3).
func isTooOld(headerNumber, tipNumber, finalizedGcThreshold uint64) bool {
	return headerNumber+finalizedGcThreshold <= tipNumber
}

// structuralCheck enforces spec.md §4.D step 5.
func structuralCheck(header, parent *types.ExecutionHeader, validateEthash bool) error {
	if header.Number != parent.Number+1 {
		return ErrStructuralInvalid
	}
	if header.ParentHash != parent.Hash() {
		return ErrStructuralInvalid
	}
	if header.Timestamp <= parent.Timestamp {
		return ErrStructuralInvalid
	}
	if header.GasUsed > header.GasLimit {
		return ErrStructuralInvalid
	}
	if header.GasLimit < 5000 {
		return ErrStructuralInvalid
	}
	lowerBound := parent.GasLimit * 1023 / 1024
	upperBound := parent.GasLimit * 1025 / 1024
	if !(header.GasLimit > lowerBound && header.GasLimit < upperBound) {
		return ErrStructuralInvalid
	}
	if len(header.ExtraData) > 32 {
		return ErrStructuralInvalid
	}
	if validateEthash {
		lower := new(big.Int).Div(new(big.Int).Mul(parent.Difficulty, big.NewInt(99)), big.NewInt(100))
		upper := new(big.Int).Div(new(big.Int).Mul(parent.Difficulty, big.NewInt(101)), big.NewInt(100))
		if header.Difficulty.Cmp(lower) < 0 || header.Difficulty.Cmp(upper) > 0 {
			return ErrStructuralInvalid
		}
	}
	return nil
}

func (e *Engine) storeHeader(batch ethdb.Batch, header *types.ExecutionHeader, info types.HeaderInfo) error {
	hash := header.Hash()
	if err := batch.Put(headerKey(hash), header.EncodeRLP()); err != nil {
		return err
	}
	if err := batch.Put(infoKey(hash), encodeInfo(info)); err != nil {
		return err
	}
	return batch.Put(allHashesKey(header.Number, hash), []byte{1})
}

func (e *Engine) setCanonical(batch ethdb.Batch, number uint64, hash common.H256) error {
	return batch.Put(canonicalKey(number), hash.Bytes())
}

// reorgCanonical makes canonical_header_hashes consistent with the new
// heaviest chain headed by newHash at newNumber (spec.md §4.D properties
// #2/#6). It first unwinds any canonical[n] left over above newNumber
// from the previously canonical branch — the new heaviest chain can be
// shorter than the one it displaces — then walks newHash's ancestry
// downward via parent hashes, rewriting canonical[n] to match the new
// branch until it reaches a number whose canonical entry already agrees
// (the fork point, where rewriting further back is unnecessary), runs
// out of retained ancestors (the parent was already garbage collected),
// or reaches number 0. The new header's own info is still only in batch,
// so its parent hash is passed in as newParentHash.
func (e *Engine) reorgCanonical(batch ethdb.Batch, oldTipNumber, newNumber uint64, newHash, newParentHash common.H256) error {
	for n := oldTipNumber; n > newNumber; n-- {
		if err := batch.Delete(canonicalKey(n)); err != nil {
			return err
		}
	}

	hash, parentHash := newHash, newParentHash
	for n := newNumber; ; {
		if existing, err := e.canonicalHashAt(n); err == nil && existing == hash {
			return nil
		}
		if err := e.setCanonical(batch, n, hash); err != nil {
			return err
		}
		if n == 0 {
			return nil
		}
		info, err := e.Info(parentHash)
		if err != nil {
			return nil
		}
		hash, parentHash = parentHash, info.ParentHash
		n--
	}
}

// garbageCollect drops retained entries older than the configured
// retention windows, walking downward from the threshold boundary until
// the first already-missing entry (spec.md §4.D, §5).
func (e *Engine) garbageCollect(batch ethdb.Batch, tipNumber uint64) error {
	if tipNumber >= e.config.HashesGcThreshold {
		bound := tipNumber - e.config.HashesGcThreshold
		for n := bound; ; n-- {
			key := canonicalKey(n)
			ok, _ := e.db.Has(key)
			if !ok {
				break
			}
			if err := batch.Delete(key); err != nil {
				return err
			}
			if n == 0 {
				break
			}
		}
	}
	if tipNumber >= e.config.FinalizedGcThreshold {
		bound := tipNumber - e.config.FinalizedGcThreshold
		for n := bound; ; n-- {
			if !e.gcHeadersAtNumber(batch, n) {
				break
			}
			if n == 0 {
				break
			}
		}
	}
	return nil
}

// gcHeadersAtNumber removes the retained header/info at number n,
// reporting whether anything was present to remove. GC's descent only
// needs a missing-entry probe to know when to stop; since KeyValueStore
// has no range iterator, it keys that probe on the canonical hash at n.
// Non-canonical side-branch entries at the same height are not removed
// (see DESIGN.md's GC-simplification note).
func (e *Engine) gcHeadersAtNumber(batch ethdb.Batch, n uint64) bool {
	hash, err := e.canonicalHashAt(n)
	if err != nil {
		return false
	}
	_ = batch.Delete(headerKey(hash))
	_ = batch.Delete(infoKey(hash))
	_ = batch.Delete(allHashesKey(n, hash))
	return true
}

func (e *Engine) canonicalHashAt(number uint64) (common.H256, error) {
	raw, err := e.db.Get(canonicalKey(number))
	if err != nil {
		return common.H256{}, err
	}
	return common.BytesToH256(raw), nil
}

// Header returns the retained header for hash.
func (e *Engine) Header(hash common.H256) (*types.ExecutionHeader, error) {
	raw, err := e.db.Get(headerKey(hash))
	if err != nil {
		return nil, err
	}
	return types.DecodeHeaderRLP(raw)
}

// Info returns the retained HeaderInfo for hash.
func (e *Engine) Info(hash common.H256) (types.HeaderInfo, error) {
	raw, err := e.db.Get(infoKey(hash))
	if err != nil {
		return types.HeaderInfo{}, err
	}
	return decodeInfo(raw)
}

func (e *Engine) tipHash() (common.H256, error) {
	raw, err := e.db.Get(bestKey)
	if err != nil {
		return common.H256{}, err
	}
	return common.BytesToH256(raw), nil
}

func (e *Engine) tipInfo() (types.HeaderInfo, error) {
	hash, err := e.tipHash()
	if err != nil {
		return types.HeaderInfo{}, nil // no tip yet: zero-valued info
	}
	return e.Info(hash)
}

// LastBlockNumber returns the canonical tip's block number.
func (e *Engine) LastBlockNumber() (uint64, error) {
	info, err := e.tipInfo()
	if err != nil {
		return 0, err
	}
	return info.Number, nil
}

// BlockHash returns the canonical hash at number, regardless of safety lag.
func (e *Engine) BlockHash(number uint64) (common.H256, error) {
	return e.canonicalHashAt(number)
}

// ErrNotSafeYet is returned by BlockHashSafe when number has not yet
// cleared the configured confirmation lag.
var ErrNotSafeYet = errors.New("light: block has not reached num_confirmations")

// authorize reports whether caller may perform an administrative
// operation: Owner must be configured and must match caller exactly.
func (e *Engine) authorize(caller string) error {
	if e.config.Owner == "" || caller != e.config.Owner {
		return ErrUnauthorized
	}
	return nil
}

// UpdateTrustedSigner changes the trusted-signer bypass account. Pass ""
// to disable the bypass entirely (spec.md §3, §9 supplemented admin ops).
func (e *Engine) UpdateTrustedSigner(caller, newSigner string) error {
	if err := e.authorize(caller); err != nil {
		return err
	}
	e.config.TrustedSigner = newSigner
	return nil
}

// UpdateHashesGcThreshold changes the canonical-hash retention window.
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

// DagMerkleRoot returns the Ethash DAG Merkle root covering epoch
// (spec.md §4.G query).
func (e *Engine) DagMerkleRoot(epoch uint64) (common.H128, error) {
	return e.config.DAGRoots.RootForEpoch(epoch)
}

// BlockHashSafe returns the canonical hash at number only once
// number + num_confirmations has cleared tip (spec.md §4.D query).
func (e *Engine) BlockHashSafe(number uint64) (common.H256, error) {
	tip, err := e.LastBlockNumber()
	if err != nil {
		return common.H256{}, err
	}
	if number+e.config.NumConfirmations > tip {
		return common.H256{}, ErrNotSafeYet
	}
	return e.canonicalHashAt(number)
}
