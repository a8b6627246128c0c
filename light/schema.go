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

// Key prefixes for the engine's namespaced key/value schema. Single-byte
// prefixes keep key construction allocation-free for the hot path
// (add_header, block_hash_safe).
const (
	prefixHeader    = 'h' // h + hash -> RLP(ExecutionHeader)
	prefixInfo      = 'i' // i + hash -> RLP(HeaderInfo)
	prefixCanonical = 'c' // c + number(BE8) -> hash
	prefixAllHashes = 'a' // a + number(BE8) + hash -> presence marker
	prefixBest      = 'b' // the tip hash, no suffix
)

func headerKey(hash common.H256) []byte {
	return append([]byte{prefixHeader}, hash.Bytes()...)
}

func infoKey(hash common.H256) []byte {
	return append([]byte{prefixInfo}, hash.Bytes()...)
}

func canonicalKey(number uint64) []byte {
	k := make([]byte, 9)
	k[0] = prefixCanonical
	binary.BigEndian.PutUint64(k[1:], number)
	return k
}

func allHashesKey(number uint64, hash common.H256) []byte {
	k := make([]byte, 1+8+32)
	k[0] = prefixAllHashes
	binary.BigEndian.PutUint64(k[1:9], number)
	copy(k[9:], hash.Bytes())
	return k
}

var bestKey = []byte{prefixBest}

// encodeInfo/decodeInfo give HeaderInfo a tiny RLP-based wire format:
// {cumulative_difficulty, parent_hash, number}.
func encodeInfo(info types.HeaderInfo) []byte {
	return rlp.EncodeList(
		rlp.EncodeBigInt(info.CumulativeDifficulty),
		rlp.EncodeBytes(info.ParentHash.Bytes()),
		rlp.EncodeUint64(info.Number),
	)
}

func decodeInfo(raw []byte) (types.HeaderInfo, error) {
	item, err := rlp.DecodeAll(raw)
	if err != nil {
		return types.HeaderInfo{}, err
	}
	elems, err := item.Elems()
	if err != nil || len(elems) != 3 {
		return types.HeaderInfo{}, rlp.ErrTrailingData
	}
	diff, err := elems[0].BigInt()
	if err != nil {
		return types.HeaderInfo{}, err
	}
	parentBytes, err := elems[1].Bytes()
	if err != nil {
		return types.HeaderInfo{}, err
	}
	number, err := elems[2].Uint64()
	if err != nil {
		return types.HeaderInfo{}, err
	}
	return types.HeaderInfo{
		CumulativeDifficulty: diff,
		ParentHash:           common.BytesToH256(parentBytes),
		Number:               number,
	}, nil
}
