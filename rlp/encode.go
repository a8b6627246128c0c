// Package rlp implements the Recursive Length Prefix encoding Ethereum
// uses for block headers, receipts, logs, and Merkle-Patricia trie nodes
// (spec.md §4.A). Unlike go-ethereum's reflection-based encoder, types
// here implement Encoder/Decoder explicitly — every type this client
// round-trips is on the hot verification path, so the explicit form
// favors predictable allocation over reflection convenience.
package rlp

import (
	"math/big"
)

// Encoder is implemented by types that know how to serialize themselves
// to a single RLP item (a string or a list).
type Encoder interface {
	EncodeRLP() []byte
}

// Decoder is implemented by types that know how to populate themselves
// from a single decoded RLP Item.
type Decoder interface {
	DecodeRLP(*Item) error
}

// EncodeBytes wraps b as a single RLP string item.
func EncodeBytes(b []byte) []byte {
	if len(b) == 1 && b[0] < 0x80 {
		return []byte{b[0]}
	}
	return append(encodeHeader(0x80, 0xb7, len(b)), b...)
}

// EncodeUint64 encodes v as its minimal big-endian byte string, per RLP's
// rule that integers carry no leading zero bytes (zero encodes as the
// empty string).
func EncodeUint64(v uint64) []byte {
	return EncodeBytes(minimalBigEndian(v))
}

// EncodeBigInt encodes a non-negative big.Int as a minimal byte string.
func EncodeBigInt(v *big.Int) []byte {
	if v == nil || v.Sign() == 0 {
		return EncodeBytes(nil)
	}
	return EncodeBytes(v.Bytes())
}

// EncodeList wraps the already-encoded items as a single RLP list.
func EncodeList(items ...[]byte) []byte {
	var total int
	for _, it := range items {
		total += len(it)
	}
	out := encodeHeader(0xc0, 0xf7, total)
	for _, it := range items {
		out = append(out, it...)
	}
	return out
}

// encodeHeader builds the length-prefix header for a string (shortBase
//0x80, longBase 0xb7) or list (0xc0, 0xf7) item of the given payload
// length, following the RLP spec's short/long-form split at 55 bytes.
func encodeHeader(shortBase, longBase byte, length int) []byte {
	if length <= 55 {
		return []byte{shortBase + byte(length)}
	}
	lenBytes := minimalBigEndian(uint64(length))
	out := make([]byte, 0, 1+len(lenBytes))
	out = append(out, longBase+byte(len(lenBytes)))
	return append(out, lenBytes...)
}

func minimalBigEndian(v uint64) []byte {
	if v == 0 {
		return nil
	}
	var buf [8]byte
	buf[0] = byte(v >> 56)
	buf[1] = byte(v >> 48)
	buf[2] = byte(v >> 40)
	buf[3] = byte(v >> 32)
	buf[4] = byte(v >> 24)
	buf[5] = byte(v >> 16)
	buf[6] = byte(v >> 8)
	buf[7] = byte(v)
	i := 0
	for i < 7 && buf[i] == 0 {
		i++
	}
	return buf[i:]
}
