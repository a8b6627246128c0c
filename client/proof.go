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

package client

import (
	"bytes"
	"errors"

	"github.com/Near-One/rainbow-bridge-sub000/common"
	"github.com/Near-One/rainbow-bridge-sub000/core/types"
	"github.com/Near-One/rainbow-bridge-sub000/crypto"
	"github.com/Near-One/rainbow-bridge-sub000/rlp"
	"github.com/Near-One/rainbow-bridge-sub000/trie"
)

// ErrMalformedInput covers any input that fails to decode to its
// expected shape (spec.md §7 MalformedInput).
var ErrMalformedInput = errors.New("client: malformed input")

// ErrMalformedAccount is returned when an account-state RLP blob does
// not decode to the [nonce, balance, storage_root, code_hash] shape.
var ErrMalformedAccount = errors.New("client: malformed account state")

// VerifyLogEntry implements spec.md §4.G's verify_log_entry: it decodes
// log, receipt, and header, asserts the log is the receipt's logIndex
// entry, and verifies an MPT proof of rlp(receiptIndex) -> receiptRLP
// against the header's receipts_root. Unless skipBridgeCall is set, it
// additionally asserts that the header's own number is known and that
// its stored hash equals keccak256(headerRLP) — the self-callback
// two-hop pattern of spec.md §6 collapses to a direct call here since
// facade and engine share one process.
func (f *Facade) VerifyLogEntry(logIndex uint64, logEntryRLP []byte, receiptIndex uint64, receiptRLP []byte, headerRLP []byte, proof [][]byte, skipBridgeCall bool) (bool, error) {
	log, err := types.DecodeLogRLP(logEntryRLP)
	if err != nil {
		return false, errors.Join(ErrMalformedInput, err)
	}
	receipt, err := types.DecodeReceiptRLP(receiptRLP)
	if err != nil {
		return false, errors.Join(ErrMalformedInput, err)
	}
	header, err := types.DecodeHeaderRLP(headerRLP)
	if err != nil {
		return false, errors.Join(ErrMalformedInput, err)
	}

	if logIndex >= uint64(len(receipt.Logs)) || !receipt.Logs[logIndex].Equal(log) {
		return false, nil
	}

	key := rlp.EncodeUint64(receiptIndex)
	value, err := trie.VerifyProof(header.ReceiptsRoot, key, proof)
	if err != nil || !bytes.Equal(value, receiptRLP) {
		return false, nil
	}

	if skipBridgeCall {
		return true, nil
	}
	return f.headerKnownAndMatches(header.Number, headerRLP)
}

// VerifyStorageProof implements spec.md §4.G's verify_storage_proof: it
// verifies contractAddress's account state is present at the header's
// state_root, extracts storage_root from that account state, then
// verifies storageKeyHash -> expectedStorageValue is present at that
// storage_root. Optional height bounds reject headers outside
// [minHeaderHeight, maxHeaderHeight]; pass nil to leave a bound
// unchecked.
func (f *Facade) VerifyStorageProof(
	headerRLP []byte,
	accountProof [][]byte,
	contractAddress common.H160,
	expectedAccountStateRLP []byte,
	storageKeyHash common.H256,
	storageProof [][]byte,
	expectedStorageValue []byte,
	minHeaderHeight, maxHeaderHeight *uint64,
	skipBridgeCall bool,
) (bool, error) {
	header, err := types.DecodeHeaderRLP(headerRLP)
	if err != nil {
		return false, errors.Join(ErrMalformedInput, err)
	}
	if minHeaderHeight != nil && header.Number < *minHeaderHeight {
		return false, nil
	}
	if maxHeaderHeight != nil && header.Number > *maxHeaderHeight {
		return false, nil
	}

	addrKey := crypto.Keccak256(contractAddress.Bytes())
	accountVal, err := trie.VerifyProof(header.StateRoot, addrKey, accountProof)
	if err != nil || !bytes.Equal(accountVal, expectedAccountStateRLP) {
		return false, nil
	}

	storageRoot, err := decodeAccountStorageRoot(expectedAccountStateRLP)
	if err != nil {
		return false, errors.Join(ErrMalformedAccount, err)
	}

	storageVal, err := trie.VerifyProof(storageRoot, storageKeyHash.Bytes(), storageProof)
	if err != nil || !bytes.Equal(storageVal, expectedStorageValue) {
		return false, nil
	}

	if skipBridgeCall {
		return true, nil
	}
	return f.headerKnownAndMatches(header.Number, headerRLP)
}

// headerKnownAndMatches is the self-callback's continuation: it queries
// the engine's own block_hash_safe(number) and compares the result to
// keccak256(headerRLP), exactly the comparison spec.md §6 describes the
// bridge's continuation performing.
func (f *Facade) headerKnownAndMatches(number uint64, headerRLP []byte) (bool, error) {
	stored, err := f.BlockHashSafe(number)
	if err != nil {
		return false, nil
	}
	return stored == common.BytesToH256(crypto.Keccak256(headerRLP)), nil
}

// decodeAccountStorageRoot extracts the storage_root field (index 2) of
// an RLP-encoded [nonce, balance, storage_root, code_hash] account state.
func decodeAccountStorageRoot(raw []byte) (common.H256, error) {
	item, err := rlp.DecodeAll(raw)
	if err != nil {
		return common.H256{}, err
	}
	elems, err := item.Elems()
	if err != nil || len(elems) != 4 {
		return common.H256{}, rlp.ErrTrailingData
	}
	b, err := elems[2].Bytes()
	if err != nil {
		return common.H256{}, err
	}
	return common.BytesToH256(b), nil
}
