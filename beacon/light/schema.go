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
	"encoding/binary"

	"github.com/Near-One/rainbow-bridge-sub000/common"
	"github.com/Near-One/rainbow-bridge-sub000/core/types"
	"github.com/Near-One/rainbow-bridge-sub000/rlp"
)

// Single-key (no hash suffix) records and a number-keyed finalized-block
// map make up the beacon engine's schema (spec.md §3 "Beacon engine
// state").
var (
	keyFinalizedBeacon    = []byte{'F'}
	keyFinalizedExecution = []byte{'X'}
	keyCurrentCommittee   = []byte{'C'}
	keyNextCommittee      = []byte{'N'}
	keyClientMode         = []byte{'M'}
	keyUnfinalizedHead    = []byte{'H'}
	keyUnfinalizedTail    = []byte{'T'}
)

func finalizedBlockKey(number uint64) []byte {
	k := make([]byte, 1+8)
	k[0] = 'B'
	binary.BigEndian.PutUint64(k[1:], number)
	return k
}

// ClientMode selects which of submit_beacon_chain_light_client_update or
// submit_execution_header is currently permitted (spec.md §3).
type ClientMode byte

const (
	AwaitingBeaconUpdate     ClientMode = 0
	AwaitingExecutionHeaders ClientMode = 1
)

func encodeExtendedHeader(h types.ExtendedBeaconBlockHeader) []byte {
	return rlp.EncodeList(
		rlp.EncodeUint64(h.Header.Slot),
		rlp.EncodeUint64(h.Header.ProposerIndex),
		rlp.EncodeBytes(h.Header.ParentRoot.Bytes()),
		rlp.EncodeBytes(h.Header.StateRoot.Bytes()),
		rlp.EncodeBytes(h.Header.BodyRoot.Bytes()),
		rlp.EncodeBytes(h.BeaconBlockRoot.Bytes()),
		rlp.EncodeBytes(h.ExecutionBlockHash.Bytes()),
	)
}

func decodeExtendedHeader(raw []byte) (types.ExtendedBeaconBlockHeader, error) {
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

func encodeExecutionHeaderInfo(info types.ExecutionHeaderInfo) []byte {
	return rlp.EncodeList(
		rlp.EncodeBytes(info.ParentHash.Bytes()),
		rlp.EncodeUint64(info.BlockNumber),
		rlp.EncodeBytes([]byte(info.Submitter)),
		rlp.EncodeBytes(info.Hash.Bytes()),
	)
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

func encodeSyncCommittee(c *types.SyncCommittee) []byte {
	items := make([][]byte, 0, 513)
	for _, pk := range c.Pubkeys {
		items = append(items, rlp.EncodeBytes(pk[:]))
	}
	items = append(items, rlp.EncodeBytes(c.AggregatePubkey[:]))
	return rlp.EncodeList(items...)
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
