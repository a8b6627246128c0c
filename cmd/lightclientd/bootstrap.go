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

package main

import (
	"fmt"
	"math/big"
	"os"

	"github.com/Near-One/rainbow-bridge-sub000/common"
	"github.com/Near-One/rainbow-bridge-sub000/core/types"
	"github.com/Near-One/rainbow-bridge-sub000/rlp"
)

// Bootstrap files use this module's own RLP wire format, the same one
// every engine reads and writes, rather than introducing a parallel JSON
// schema only the daemon would understand.

// loadPoWGenesis reads a raw RLP-encoded ExecutionHeader from headerPath
// and a decimal cumulative-difficulty string, ready for Engine.Genesis.
func loadPoWGenesis(headerPath, cumulativeDifficulty string) (*types.ExecutionHeader, *big.Int, error) {
	raw, err := os.ReadFile(headerPath)
	if err != nil {
		return nil, nil, fmt.Errorf("lightclientd: reading genesis header: %w", err)
	}
	header, err := types.DecodeHeaderRLP(raw)
	if err != nil {
		return nil, nil, fmt.Errorf("lightclientd: decoding genesis header: %w", err)
	}
	cumulative, ok := new(big.Int).SetString(cumulativeDifficulty, 10)
	if !ok {
		return nil, nil, fmt.Errorf("lightclientd: invalid cumulative difficulty %q", cumulativeDifficulty)
	}
	return header, cumulative, nil
}

// beaconBootstrap is the trio of RLP blobs Engine.Bootstrap needs.
type beaconBootstrap struct {
	Header             types.ExtendedBeaconBlockHeader
	FinalizedExecution types.ExecutionHeaderInfo
	CurrentCommittee   *types.SyncCommittee
}

// loadBeaconBootstrap reads the extended beacon header, the finalized
// execution header info, and the current sync committee from three
// separate raw-RLP files, mirroring beacon/light/schema.go's own
// encode/decode shape for each container (those helpers are unexported,
// so the daemon carries its own copy of the same field order).
func loadBeaconBootstrap(headerPath, execPath, committeePath string) (beaconBootstrap, error) {
	var out beaconBootstrap

	headerRaw, err := os.ReadFile(headerPath)
	if err != nil {
		return out, fmt.Errorf("lightclientd: reading bootstrap beacon header: %w", err)
	}
	out.Header, err = decodeExtendedBeaconHeader(headerRaw)
	if err != nil {
		return out, fmt.Errorf("lightclientd: decoding bootstrap beacon header: %w", err)
	}

	execRaw, err := os.ReadFile(execPath)
	if err != nil {
		return out, fmt.Errorf("lightclientd: reading bootstrap execution info: %w", err)
	}
	out.FinalizedExecution, err = decodeExecutionHeaderInfo(execRaw)
	if err != nil {
		return out, fmt.Errorf("lightclientd: decoding bootstrap execution info: %w", err)
	}

	committeeRaw, err := os.ReadFile(committeePath)
	if err != nil {
		return out, fmt.Errorf("lightclientd: reading bootstrap sync committee: %w", err)
	}
	out.CurrentCommittee, err = decodeSyncCommittee(committeeRaw)
	if err != nil {
		return out, fmt.Errorf("lightclientd: decoding bootstrap sync committee: %w", err)
	}

	return out, nil
}

func decodeExtendedBeaconHeader(raw []byte) (types.ExtendedBeaconBlockHeader, error) {
	item, err := rlp.DecodeAll(raw)
	if err != nil {
		return types.ExtendedBeaconBlockHeader{}, err
	}
	elems, err := item.Elems()
	if err != nil || len(elems) != 7 {
		return types.ExtendedBeaconBlockHeader{}, rlp.ErrTrailingData
	}
	var h types.ExtendedBeaconBlockHeader
	var errAcc error
	must := func(b []byte, err error) []byte {
		if err != nil {
			errAcc = err
		}
		return b
	}
	if h.Header.Slot, err = elems[0].Uint64(); err != nil {
		errAcc = err
	}
	if h.Header.ProposerIndex, err = elems[1].Uint64(); err != nil {
		errAcc = err
	}
	h.Header.ParentRoot = common.BytesToH256(must(elems[2].Bytes()))
	h.Header.StateRoot = common.BytesToH256(must(elems[3].Bytes()))
	h.Header.BodyRoot = common.BytesToH256(must(elems[4].Bytes()))
	h.BeaconBlockRoot = common.BytesToH256(must(elems[5].Bytes()))
	h.ExecutionBlockHash = common.BytesToH256(must(elems[6].Bytes()))
	if errAcc != nil {
		return types.ExtendedBeaconBlockHeader{}, errAcc
	}
	return h, nil
}

func decodeExecutionHeaderInfo(raw []byte) (types.ExecutionHeaderInfo, error) {
	item, err := rlp.DecodeAll(raw)
	if err != nil {
		return types.ExecutionHeaderInfo{}, err
	}
	elems, err := item.Elems()
	if err != nil || len(elems) != 4 {
		return types.ExecutionHeaderInfo{}, rlp.ErrTrailingData
	}
	var info types.ExecutionHeaderInfo
	var errAcc error
	must := func(b []byte, err error) []byte {
		if err != nil {
			errAcc = err
		}
		return b
	}
	info.ParentHash = common.BytesToH256(must(elems[0].Bytes()))
	if info.BlockNumber, err = elems[1].Uint64(); err != nil {
		errAcc = err
	}
	info.Submitter = string(must(elems[2].Bytes()))
	info.Hash = common.BytesToH256(must(elems[3].Bytes()))
	if errAcc != nil {
		return types.ExecutionHeaderInfo{}, errAcc
	}
	return info, nil
}

func decodeSyncCommittee(raw []byte) (*types.SyncCommittee, error) {
	item, err := rlp.DecodeAll(raw)
	if err != nil {
		return nil, err
	}
	elems, err := item.Elems()
	if err != nil || len(elems) != 513 {
		return nil, rlp.ErrTrailingData
	}
	c := &types.SyncCommittee{}
	for i := 0; i < 512; i++ {
		b, err := elems[i].Bytes()
		if err != nil || len(b) != 48 {
			return nil, rlp.ErrTrailingData
		}
		copy(c.Pubkeys[i][:], b)
	}
	b, err := elems[512].Bytes()
	if err != nil || len(b) != 48 {
		return nil, rlp.ErrTrailingData
	}
	copy(c.AggregatePubkey[:], b)
	return c, nil
}
