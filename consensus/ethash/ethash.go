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

// Package ethash verifies Ethereum proof-of-work headers the "light" way:
// instead of holding the full per-epoch DAG, it checks Merkle proofs of the
// handful of DAG nodes Hashimoto actually touches against a pre-agreed
// 128-bit DAG Merkle root for the header's epoch (spec.md §4.B).
package ethash

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"math/big"

	"github.com/Near-One/rainbow-bridge-sub000/common"
	"github.com/Near-One/rainbow-bridge-sub000/crypto"
)

// ErrUnknownEpoch is returned when block_number falls outside the range
// covered by the configured DAG Merkle roots.
var ErrUnknownEpoch = errors.New("ethash: unknown epoch")

// ErrPoWFailed covers both a failing DAG Merkle proof and a final hash
// that does not clear the difficulty boundary.
var ErrPoWFailed = errors.New("ethash: proof-of-work verification failed")

const (
	epochLength = 30000

	mixBytes      = 128
	hashBytes     = 64
	mixWords      = mixBytes / 4 // 32
	hashWords     = hashBytes / 4 // 16
	loopAccesses  = 64

	datasetInitBytes   = 1 << 30
	datasetGrowthBytes = 1 << 23
)

// DoubleNodeWithMerkleProof carries one DAG dataset "parent" pair — two
// consecutive 64-byte dataset rows — plus the sibling hashes proving
// their inclusion under the epoch's DAG Merkle root.
type DoubleNodeWithMerkleProof struct {
	DagNodes [2]common.H512
	Proof    []common.H128
}

// EpochDAGRoots resolves a block number to its expected DAG Merkle root.
type EpochDAGRoots struct {
	StartEpoch uint64
	Roots      []common.H128
}

// RootForBlock returns the DAG Merkle root covering block number n.
func (e EpochDAGRoots) RootForBlock(number uint64) (common.H128, error) {
	return e.RootForEpoch(number / epochLength)
}

// RootForEpoch returns the DAG Merkle root configured for epoch
// (spec.md §4.G dag_merkle_root query).
func (e EpochDAGRoots) RootForEpoch(epoch uint64) (common.H128, error) {
	if epoch < e.StartEpoch {
		return common.H128{}, ErrUnknownEpoch
	}
	idx := epoch - e.StartEpoch
	if idx >= uint64(len(e.Roots)) {
		return common.H128{}, ErrUnknownEpoch
	}
	return e.Roots[idx], nil
}

// VerifyPoW runs Hashimoto against the supplied DAG node proofs and
// reports whether the resulting final hash clears the header's claimed
// difficulty. When validateDAG is false the Merkle-proof equality checks
// are skipped (debug bypass, spec.md §4.B) but the difficulty boundary
// check is always enforced.
func VerifyPoW(roots EpochDAGRoots, partialHash common.H256, nonce common.H64, blockNumber uint64, difficulty common.U256, nodes []DoubleNodeWithMerkleProof, validateDAG bool) error {
	root, err := roots.RootForBlock(blockNumber)
	if err != nil {
		return err
	}

	datasetSize := datasetSizeForEpoch(blockNumber / epochLength)
	_, finalHash, err := hashimotoLight(root, partialHash, nonce, datasetSize, nodes, validateDAG)
	if err != nil {
		return err
	}
	if !belowDifficulty(finalHash, difficulty) {
		return ErrPoWFailed
	}
	return nil
}

var twoTo256 = new(big.Int).Lsh(big.NewInt(1), 256)

// belowDifficulty reports whether U256(final_hash) < cross_boundary(difficulty),
// where cross_boundary(d) = 2^256 / d for d > 0.
func belowDifficulty(finalHash common.H256, difficulty common.U256) bool {
	d := difficulty.Big()
	if d.Sign() <= 0 {
		return false
	}
	boundary := new(big.Int).Div(twoTo256, d)
	final := new(big.Int).SetBytes(finalHash.Bytes())
	return final.Cmp(boundary) < 0
}

// datasetSizeForEpoch mirrors go-ethereum's dataset sizing schedule,
// needed only to compute the DAG-parent count Hashimoto selects from.
func datasetSizeForEpoch(epoch uint64) uint64 {
	size := uint64(datasetInitBytes) + uint64(datasetGrowthBytes)*epoch
	size -= mixBytes
	for !isPrime(size / mixBytes) {
		size -= 2 * mixBytes
	}
	return size
}

func isPrime(n uint64) bool {
	if n < 2 {
		return false
	}
	if n%2 == 0 {
		return n == 2
	}
	for i := uint64(3); i*i <= n; i += 2 {
		if n%i == 0 {
			return false
		}
	}
	return true
}

// hashimotoLight reproduces the Hashimoto inner loop (go-ethereum's
// consensus/ethash/algorithm.go hashimoto) but sources each DAG dataset
// pair from the caller-supplied, Merkle-proven nodes instead of a
// resident dataset.
func hashimotoLight(root common.H128, hash common.H256, nonce common.H64, datasetSize uint64, nodes []DoubleNodeWithMerkleProof, validateDAG bool) (mixDigest common.H256, finalHash common.H256, err error) {
	rows := uint32(datasetSize / mixBytes)

	seed := seedHash(hash, nonce)
	seedHead := binary.LittleEndian.Uint32(seed[:4])

	var mix [mixWords]uint32
	for i := range mix {
		mix[i] = binary.LittleEndian.Uint32(seed[(i%hashWords)*4 : (i%hashWords)*4+4])
	}

	var temp [mixWords]uint32
	for i := 0; i < loopAccesses; i++ {
		parent := fnv(uint32(i)^seedHead, mix[i%mixWords]) % rows
		if i >= len(nodes) {
			return common.H256{}, common.H256{}, ErrPoWFailed
		}
		entry := nodes[i]
		if err := verifyDAGEntry(root, entry, uint64(parent), validateDAG); err != nil {
			return common.H256{}, common.H256{}, err
		}

		row0 := reverseHalves(entry.DagNodes[0])
		row1 := reverseHalves(entry.DagNodes[1])
		for j := 0; j < hashWords; j++ {
			temp[j] = binary.LittleEndian.Uint32(row0[j*4 : j*4+4])
			temp[hashWords+j] = binary.LittleEndian.Uint32(row1[j*4 : j*4+4])
		}
		for j := range mix {
			mix[j] = fnv(mix[j], temp[j])
		}
	}

	var compressed [mixWords / 4]uint32
	for i := range compressed {
		compressed[i] = fnv(fnv(fnv(mix[i*4], mix[i*4+1]), mix[i*4+2]), mix[i*4+3])
	}

	var digest [32]byte
	for i, w := range compressed {
		binary.LittleEndian.PutUint32(digest[i*4:i*4+4], w)
	}

	final := crypto.Keccak256(append(append([]byte{}, seed[:]...), digest[:]...))
	return digest, common.BytesToH256(final), nil
}

// seedHash is keccak512(partial_header_hash || little_endian(nonce)), the
// per-block seed Hashimoto derives its initial mix and DAG access pattern
// from. The header's nonce field is big-endian on the wire; Hashimoto
// consumes it as a little-endian uint64.
func seedHash(hash common.H256, nonce common.H64) [64]byte {
	nonceUint := binary.BigEndian.Uint64(nonce[:])
	buf := make([]byte, 40)
	copy(buf, hash.Bytes())
	binary.LittleEndian.PutUint64(buf[32:], nonceUint)
	return [64]byte(crypto.Keccak512(buf))
}

func fnv(a, b uint32) uint32 {
	return a*0x01000193 ^ b
}

// reverseHalves byte-reverses each 32-byte lane of a 64-byte DAG row,
// per spec.md §4.B step 3, before it is folded into the mix.
func reverseHalves(h common.H512) common.H512 {
	var out common.H512
	for _, lane := range [2]int{0, 32} {
		for i := 0; i < 32; i++ {
			out[lane+i] = h[lane+31-i]
		}
	}
	return out
}

// verifyDAGEntry reconstructs the DAG Merkle root from entry and its
// proof and checks it against root (spec.md §4.B step 2), unless
// validateDAG is false.
func verifyDAGEntry(root common.H128, entry DoubleNodeWithMerkleProof, index uint64, validateDAG bool) error {
	if !validateDAG {
		return nil
	}

	leaf := dagMerkleLeaf(entry.DagNodes)
	computed := leaf
	for i := 0; i < len(entry.Proof); i++ {
		if (index>>uint(i))%2 == 0 {
			computed = hashH128(computed, entry.Proof[i])
		} else {
			computed = hashH128(entry.Proof[i], computed)
		}
	}
	if computed != root {
		return ErrPoWFailed
	}
	return nil
}

// dagMerkleLeaf is truncate_to_h128(sha256(dag_nodes[0] || dag_nodes[1]))
// over the raw (non byte-reversed) 128-byte pair.
func dagMerkleLeaf(nodes [2]common.H512) common.H128 {
	var buf [128]byte
	copy(buf[:64], nodes[0][:])
	copy(buf[64:], nodes[1][:])
	sum := sha256.Sum256(buf[:])
	return truncateToH128(sum)
}

// hashH128 is the interior Merkle-tree hash: both 16-byte halves are
// zero-padded to 32 bytes before hashing, matching the reference
// implementation's byte layout exactly.
func hashH128(l, r common.H128) common.H128 {
	var buf [64]byte
	copy(buf[16:32], l[:])
	copy(buf[48:64], r[:])
	sum := sha256.Sum256(buf[:])
	return truncateToH128(sum)
}

func truncateToH128(sum [32]byte) common.H128 {
	var out common.H128
	copy(out[:], sum[16:])
	return out
}
