// Package ssz implements the subset of SimpleSerialize hash-tree-root and
// generalized-index Merkle proof verification the beacon light client
// needs (spec.md §4.A, §4.E, GLOSSARY "Generalized index"). It is not a
// general SSZ codec: only the container/list shapes beacon types actually
// use are supported.
package ssz

import (
	"encoding/binary"

	"github.com/Near-One/rainbow-bridge-sub000/crypto"
)

// Root is a 32-byte SSZ hash-tree-root.
type Root [32]byte

var zeroHashes = computeZeroHashes(64)

func computeZeroHashes(levels int) []Root {
	zh := make([]Root, levels)
	for i := 1; i < levels; i++ {
		zh[i] = hashPair(zh[i-1], zh[i-1])
	}
	return zh
}

func hashPair(l, r Root) Root {
	var out Root
	copy(out[:], crypto.SHA256(l[:], r[:]))
	return out
}

// nextPowerOfTwo returns the smallest power of two >= n (n >= 1).
func nextPowerOfTwo(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

func log2(n int) int {
	d := 0
	for (1 << d) < n {
		d++
	}
	return d
}

// Merkleize builds a balanced binary Merkle tree over chunks, right-padded
// with zero hashes up to limit (or to the next power of two of len(chunks)
// if limit <= 0), and returns the root.
func Merkleize(chunks []Root, limit int) Root {
	if limit <= 0 {
		limit = len(chunks)
	}
	width := nextPowerOfTwo(limit)
	if width == 0 {
		width = 1
	}
	depth := log2(width)

	layer := make([]Root, width)
	copy(layer, chunks)

	for d := 0; d < depth; d++ {
		next := make([]Root, len(layer)/2)
		for i := range next {
			next[i] = hashPair(layer[2*i], layer[2*i+1])
		}
		layer = next
	}
	if len(layer) == 0 {
		return Root{}
	}
	return layer[0]
}

// MixInLength returns hash(root || uint256_le(length)), SSZ's scheme for
// committing to a variable-length list's element count alongside its
// content root.
func MixInLength(root Root, length uint64) Root {
	var lenChunk Root
	binary.LittleEndian.PutUint64(lenChunk[:8], length)
	return hashPair(root, lenChunk)
}

// PackBytes splits data into 32-byte chunks, zero-padding the final chunk.
func PackBytes(data []byte) []Root {
	if len(data) == 0 {
		return []Root{{}}
	}
	n := (len(data) + 31) / 32
	chunks := make([]Root, n)
	for i := 0; i < n; i++ {
		copy(chunks[i][:], data[i*32:min(len(data), (i+1)*32)])
	}
	return chunks
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// HashTreeRootBytesList computes the hash-tree-root of a `List[byte, limit]`
// field such as a beacon header's extra_data (spec.md §4.A): pack into
// 32-byte chunks, Merkleize up to ceil(limit/32) chunks, then mix in the
// byte length.
func HashTreeRootBytesList(data []byte, byteLimit int) Root {
	chunkLimit := (byteLimit + 31) / 32
	root := Merkleize(PackBytes(data), chunkLimit)
	return MixInLength(root, uint64(len(data)))
}

// HashTreeRootUint64 computes the hash-tree-root of a basic uint64 field:
// the little-endian value left in a single zero-padded 32-byte chunk.
func HashTreeRootUint64(v uint64) Root {
	var r Root
	binary.LittleEndian.PutUint64(r[:8], v)
	return r
}

// HashTreeRootBytes32 computes the hash-tree-root of a fixed 32-byte field
// (itself, unchanged — a Bytes32 is already one chunk).
func HashTreeRootBytes32(b [32]byte) Root {
	return Root(b)
}

// HashTreeRootContainer merkleizes a container's field roots (no length
// mixing — containers are fixed-shape).
func HashTreeRootContainer(fields ...Root) Root {
	return Merkleize(fields, len(fields))
}
