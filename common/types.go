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

// Package common holds the fixed-width primitive types shared by every
// other package in the light client: hashes, addresses, signatures and
// the bloom filter, plus the checked big-integer arithmetic used for
// difficulty accounting.
package common

import (
	"encoding/hex"
	"fmt"
)

// fixedBytes is implemented by all fixed-width byte array types below so
// that generic helpers (hex formatting, zero checks) can be shared.
type fixedBytes interface {
	Bytes() []byte
}

// H64 is a 64-bit (8-byte) hash, used for Ethash nonces.
type H64 [8]byte

// H128 is a 128-bit (16-byte) hash, used for Ethash DAG Merkle roots.
type H128 [16]byte

// H160 is a 160-bit (20-byte) hash, used for Ethereum addresses.
type H160 [20]byte

// H256 is a 256-bit (32-byte) hash, used for block hashes, roots and keys.
type H256 [32]byte

// H512 is a 512-bit (64-byte) hash, used for raw DAG node halves.
type H512 [64]byte

// H520 is a 520-bit (65-byte) value, used for ECDSA signatures.
type H520 [65]byte

func (h H64) Bytes() []byte  { return h[:] }
func (h H128) Bytes() []byte { return h[:] }
func (h H160) Bytes() []byte { return h[:] }
func (h H256) Bytes() []byte { return h[:] }
func (h H512) Bytes() []byte { return h[:] }
func (h H520) Bytes() []byte { return h[:] }

func (h H64) String() string  { return hexString(h[:]) }
func (h H128) String() string { return hexString(h[:]) }
func (h H160) String() string { return hexString(h[:]) }
func (h H256) String() string { return hexString(h[:]) }
func (h H512) String() string { return hexString(h[:]) }
func (h H520) String() string { return hexString(h[:]) }

func (h H256) IsZero() bool {
	return h == H256{}
}

func hexString(b []byte) string {
	return "0x" + hex.EncodeToString(b)
}

// BytesToH256 truncates or zero-left-pads b to 32 bytes.
func BytesToH256(b []byte) H256 {
	var h H256
	copyRight(h[:], b)
	return h
}

// BytesToH128 truncates or zero-left-pads b to 16 bytes.
func BytesToH128(b []byte) H128 {
	var h H128
	copyRight(h[:], b)
	return h
}

// BytesToH160 truncates or zero-left-pads b to 20 bytes.
func BytesToH160(b []byte) H160 {
	var h H160
	copyRight(h[:], b)
	return h
}

// copyRight copies src into the right-hand (least-significant) end of dst,
// mirroring go-ethereum's common.BytesToHash semantics.
func copyRight(dst, src []byte) {
	if len(src) > len(dst) {
		src = src[len(src)-len(dst):]
	}
	copy(dst[len(dst)-len(src):], src)
}

// HexToH256 decodes a "0x"-prefixed or bare hex string into an H256.
func HexToH256(s string) (H256, error) {
	b, err := decodeHex(s)
	if err != nil {
		return H256{}, err
	}
	return BytesToH256(b), nil
}

func decodeHex(s string) ([]byte, error) {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		s = s[2:]
	}
	if len(s)%2 == 1 {
		s = "0" + s
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("common: invalid hex string: %w", err)
	}
	return b, nil
}
