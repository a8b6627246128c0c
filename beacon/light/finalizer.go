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
	"github.com/Near-One/rainbow-bridge-sub000/ethdb"
)

// SubmitExecutionHeader accepts one execution header of a backward chain
// from the just-finalized execution block (named by the finalized beacon
// header's execution_block_hash) down to the old finalized tip, closing
// the gap once a header's parent_hash reaches that old tip (spec.md
// §4.F). Headers must be submitted newest-first: each one's own hash must
// equal the previous submission's parent_hash (or, for the first
// submission, the beacon-committed execution_block_hash).
func (e *Engine) SubmitExecutionHeader(header *types.ExecutionHeader, submitter string) error {
	if err := e.submitExecutionHeader(header, submitter); err != nil {
		e.config.Metrics.OperationFailed("submit_execution_header", err.Error())
		return err
	}
	e.config.Metrics.HeaderAdded("beacon")
	if last, err := e.LastBlockNumber(); err == nil {
		e.config.Metrics.SetFinalizedHeight("beacon_execution", last)
	}
	if head, hasHead, err := e.tryUnfinalizedHead(); err == nil && hasHead {
		if tail, hasTail, err := e.tryUnfinalizedTail(); err == nil && hasTail {
			e.config.Metrics.SetUnfinalizedDepth(head.BlockNumber - tail.BlockNumber)
		}
	} else {
		e.config.Metrics.SetUnfinalizedDepth(0)
	}
	if mode, err := e.mode(); err == nil {
		e.config.Metrics.SetClientMode(byte(mode))
	}
	return nil
}

func (e *Engine) submitExecutionHeader(header *types.ExecutionHeader, submitter string) error {
	if e.config.Paused&PauseSubmitExecutionHeader != 0 {
		return ErrPaused
	}
	mode, err := e.mode()
	if err != nil {
		return err
	}
	if mode != AwaitingExecutionHeaders {
		return ErrWrongMode
	}

	tail, hasTail, err := e.tryUnfinalizedTail()
	if err != nil {
		return err
	}
	head, hasHead, err := e.tryUnfinalizedHead()
	if err != nil {
		return err
	}

	expected, err := e.expectedNextHash(hasTail, tail)
	if err != nil {
		return err
	}
	blockHash := header.Hash()
	if blockHash != expected {
		return ErrUnexpectedHeader
	}

	if dup, _ := e.db.Has(finalizedBlockKey(header.Number)); dup {
		return ErrDuplicateHeader
	}

	finalizedExec, err := e.finalizedExecution()
	if err != nil {
		return err
	}

	batch := e.db.NewBatch()
	if err := batch.Put(finalizedBlockKey(header.Number), blockHash.Bytes()); err != nil {
		return err
	}

	if hasTail && hasHead {
		diff := head.BlockNumber - tail.BlockNumber
		removeBound := saturatingSub(finalizedExec.BlockNumber+diff, e.config.HashesGcThreshold)
		if removeBound >= finalizedExec.BlockNumber {
			return ErrInsufficientGcThreshold
		}
		if removeBound > 0 {
			e.gcFinalizedBlocks(batch, removeBound)
		}
	}

	if header.Number == finalizedExec.BlockNumber+1 {
		closingHash, err := e.finalizedBlockHash(finalizedExec.BlockNumber)
		if err != nil {
			return err
		}
		if header.ParentHash != closingHash {
			return ErrCannotClose
		}

		newFinalized := head
		if !hasHead {
			// Single-header descent: this header is both the first and
			// the last submission in the gap.
			newFinalized = types.ExecutionHeaderInfo{
				ParentHash:  header.ParentHash,
				BlockNumber: header.Number,
				Submitter:   submitter,
				Hash:        blockHash,
			}
		}
		if err := batch.Put(keyFinalizedExecution, encodeExecutionHeaderInfo(newFinalized)); err != nil {
			return err
		}
		if err := batch.Delete(keyUnfinalizedTail); err != nil {
			return err
		}
		if err := batch.Delete(keyUnfinalizedHead); err != nil {
			return err
		}
		if err := e.setMode(batch, AwaitingBeaconUpdate); err != nil {
			return err
		}
		return batch.Write()
	}

	info := types.ExecutionHeaderInfo{
		ParentHash:  header.ParentHash,
		BlockNumber: header.Number,
		Submitter:   submitter,
		Hash:        blockHash,
	}
	if !hasHead {
		if err := batch.Put(keyUnfinalizedHead, encodeExecutionHeaderInfo(info)); err != nil {
			return err
		}
	}
	if err := batch.Put(keyUnfinalizedTail, encodeExecutionHeaderInfo(info)); err != nil {
		return err
	}
	return batch.Write()
}

// expectedNextHash is the hash the next submitted header must equal:
// the current tail's parent_hash once a descent is underway, else the
// execution block hash the finalized beacon header itself commits to
// (spec.md §4.F step 1).
func (e *Engine) expectedNextHash(hasTail bool, tail types.ExecutionHeaderInfo) (common.H256, error) {
	if hasTail {
		return tail.ParentHash, nil
	}
	beacon, err := e.finalizedBeacon()
	if err != nil {
		return common.H256{}, err
	}
	return beacon.ExecutionBlockHash, nil
}

func (e *Engine) finalizedBlockHash(number uint64) (common.H256, error) {
	raw, err := e.db.Get(finalizedBlockKey(number))
	if err != nil {
		return common.H256{}, err
	}
	return common.BytesToH256(raw), nil
}

// gcFinalizedBlocks drops finalized_execution_blocks entries strictly
// below bound, probing downward until the first already-missing entry —
// the same descent-until-miss pattern the PoW engine's garbageCollect
// uses, since the KV store has no range iterator (spec.md §4.F step 4).
func (e *Engine) gcFinalizedBlocks(batch ethdb.Batch, bound uint64) {
	if bound == 0 {
		return
	}
	for n := bound - 1; ; n-- {
		key := finalizedBlockKey(n)
		ok, _ := e.db.Has(key)
		if !ok {
			break
		}
		_ = batch.Delete(key)
		if n == 0 {
			break
		}
	}
}

func saturatingSub(a, b uint64) uint64 {
	if b > a {
		return 0
	}
	return a - b
}

func (e *Engine) finalizedExecution() (types.ExecutionHeaderInfo, error) {
	raw, err := e.db.Get(keyFinalizedExecution)
	if err != nil {
		return types.ExecutionHeaderInfo{}, err
	}
	return decodeExecutionHeaderInfo(raw)
}

func (e *Engine) tryUnfinalizedTail() (types.ExecutionHeaderInfo, bool, error) {
	raw, err := e.db.Get(keyUnfinalizedTail)
	if err != nil {
		return types.ExecutionHeaderInfo{}, false, nil
	}
	info, err := decodeExecutionHeaderInfo(raw)
	if err != nil {
		return types.ExecutionHeaderInfo{}, false, err
	}
	return info, true, nil
}

func (e *Engine) tryUnfinalizedHead() (types.ExecutionHeaderInfo, bool, error) {
	raw, err := e.db.Get(keyUnfinalizedHead)
	if err != nil {
		return types.ExecutionHeaderInfo{}, false, nil
	}
	info, err := decodeExecutionHeaderInfo(raw)
	if err != nil {
		return types.ExecutionHeaderInfo{}, false, err
	}
	return info, true, nil
}
