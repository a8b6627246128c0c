package common

import (
	"errors"
	"math/big"

	"github.com/holiman/uint256"
)

// ErrOverflow is returned by the checked arithmetic helpers below when an
// operation would wrap around its fixed width. Difficulty and cumulative
// difficulty accounting must never silently wrap: spec.md §9 requires
// overflow to be a mandatory, detectable check even though it should never
// trigger on honest input.
var ErrOverflow = errors.New("common: integer overflow")

// U64 is an unsigned 64-bit integer. It is a plain alias of uint64, whose
// addition wraps silently; overflow-checked addition is provided by the
// AddU64 helper rather than by a distinct type.
type U64 = uint64

// AddU64 returns a+b and reports whether the addition overflowed.
func AddU64(a, b uint64) (uint64, error) {
	sum := a + b
	if sum < a {
		return 0, ErrOverflow
	}
	return sum, nil
}

// U128 is a 128-bit unsigned big-endian integer, represented as a 16-byte
// array for storage and a big.Int for arithmetic. Ethash DAG Merkle roots
// are carried as H128 elsewhere; U128 is reserved for future width-128
// counters and is kept minimal.
type U128 struct {
	inner big.Int
}

// NewU128FromBytes interprets b (big-endian, up to 16 bytes) as a U128.
func NewU128FromBytes(b []byte) U128 {
	var u U128
	u.inner.SetBytes(b)
	return u
}

// Bytes16 returns the 16-byte big-endian encoding. A value wider than 16
// bytes is truncated to its low-order 16 bytes.
func (u U128) Bytes16() [16]byte {
	var out [16]byte
	b := u.inner.Bytes()
	copyRight(out[:], b)
	return out
}

// U256 is a 256-bit unsigned big-endian integer used for difficulty,
// cumulative difficulty, and PoW boundary comparisons. It wraps
// holiman/uint256.Int, the fixed-width 256-bit integer type used
// throughout the go-ethereum codebase this client is modeled on.
type U256 struct {
	inner uint256.Int
}

// ZeroU256 is the additive identity.
func ZeroU256() U256 { return U256{} }

// NewU256FromBig converts a big.Int, truncating silently only if the input
// is already out of range (callers are expected to validate upstream).
func NewU256FromBig(b *big.Int) U256 {
	var u U256
	u.inner.SetFromBig(b)
	return u
}

// NewU256FromBytes interprets b as a big-endian 256-bit integer.
func NewU256FromBytes(b []byte) U256 {
	var u U256
	u.inner.SetBytes(b)
	return u
}

// NewU256 constructs a U256 from a uint64.
func NewU256(v uint64) U256 {
	var u U256
	u.inner.SetUint64(v)
	return u
}

// Big returns the value as a big.Int.
func (u U256) Big() *big.Int { return u.inner.ToBig() }

// Bytes32 returns the big-endian 32-byte encoding.
func (u U256) Bytes32() [32]byte { return u.inner.Bytes32() }

// Add returns u+v and an error if the 256-bit width overflowed.
func (u U256) Add(v U256) (U256, error) {
	var sum uint256.Int
	overflow := sum.AddOverflow(&u.inner, &v.inner)
	if overflow {
		return U256{}, ErrOverflow
	}
	return U256{inner: sum}, nil
}

// Cmp compares u and v the same way big.Int.Cmp does.
func (u U256) Cmp(v U256) int {
	return u.inner.Cmp(&v.inner)
}

// LessThan reports whether u < v.
func (u U256) LessThan(v U256) bool {
	return u.inner.Lt(&v.inner)
}

// IsZero reports whether u is the additive identity.
func (u U256) IsZero() bool {
	return u.inner.IsZero()
}

// Uint64 returns the low 64 bits, truncating silently (used only for
// values already known to fit, such as block numbers).
func (u U256) Uint64() uint64 {
	return u.inner.Uint64()
}
