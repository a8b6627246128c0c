// Package crypto provides the hash and signature primitives the rest of
// the client treats as injected capabilities (spec.md §4.A, §9): keccak256,
// keccak512, sha256, and BLS fast-aggregate-verify. Callers that need a
// different implementation (e.g. a hardware HSM, or a precompile host
// function when embedded in a VM) can satisfy the same function types.
package crypto

import (
	"crypto/sha256"

	"golang.org/x/crypto/sha3"
)

// HashFunc computes a digest over the concatenation of its arguments.
type HashFunc func(data ...[]byte) []byte

// Keccak256 is the default keccak256 implementation (legacy Keccak, not
// NIST SHA3, matching Ethereum's convention).
func Keccak256(data ...[]byte) []byte {
	h := sha3.NewLegacyKeccak256()
	for _, d := range data {
		h.Write(d)
	}
	return h.Sum(nil)
}

// Keccak256Hash is Keccak256 but returns a fixed 32-byte array.
func Keccak256Hash(data ...[]byte) [32]byte {
	var out [32]byte
	copy(out[:], Keccak256(data...))
	return out
}

// Keccak512 is the default keccak512 implementation, used by the Ethash
// Hashimoto loop to derive DAG dataset items from a header's seed.
func Keccak512(data ...[]byte) []byte {
	h := sha3.NewLegacyKeccak512()
	for _, d := range data {
		h.Write(d)
	}
	return h.Sum(nil)
}

// SHA256 is the default sha256 implementation, used by the Ethash DAG
// Merkle proof (truncated to 128 bits) and by SSZ Merkle proofs.
func SHA256(data ...[]byte) []byte {
	h := sha256.New()
	for _, d := range data {
		h.Write(d)
	}
	return h.Sum(nil)
}

// SHA256Hash is SHA256 but returns a fixed 32-byte array.
func SHA256Hash(data ...[]byte) [32]byte {
	var out [32]byte
	copy(out[:], SHA256(data...))
	return out
}
