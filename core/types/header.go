// Package types holds the wire data model shared by the PoW engine, the
// beacon light client, and the proof verifier: execution headers, logs,
// receipts, and the beacon-chain/SSZ types layered on top after the Merge
// (spec.md §3).
package types

import (
	"errors"
	"math/big"

	"github.com/Near-One/rainbow-bridge-sub000/common"
	"github.com/Near-One/rainbow-bridge-sub000/crypto"
	"github.com/Near-One/rainbow-bridge-sub000/rlp"
)

// ErrMalformedHeader is returned when a header's raw RLP fails to decode or
// carries an invalid field. The header carries no separately supplied hash;
// its hash is always computed as keccak256 of its own RLP.
var ErrMalformedHeader = errors.New("types: malformed execution header")

// ExecutionHeader is an Ethereum block header. Each fork-dependent pointer
// field is non-nil only for headers from the fork that introduced it.
type ExecutionHeader struct {
	ParentHash      common.H256
	UnclesHash      common.H256
	Author          common.H160
	StateRoot       common.H256
	TransactionsRoot common.H256
	ReceiptsRoot    common.H256
	LogBloom        common.Bloom
	Difficulty      *big.Int
	Number          uint64
	GasLimit        uint64
	GasUsed         uint64
	Timestamp       uint64
	ExtraData       []byte
	MixHash         common.H256
	Nonce           common.H64

	BaseFeePerGas     *big.Int    // EIP-1559, nil pre-London
	WithdrawalsRoot   *common.H256 // Shanghai, nil pre-Shanghai
	BlobGasUsed       *uint64     // Cancun, nil pre-Cancun
	ExcessBlobGas     *uint64     // Cancun, nil pre-Cancun

	hash        *common.H256
	partialHash *common.H256
}

// fields returns the ordered RLP field encodings, optionally including
// mix_hash/nonce (omitted when computing the partial hash used by Ethash)
// and the fork-dependent trailing fields actually present.
func (h *ExecutionHeader) fields(includeSeal bool) [][]byte {
	out := [][]byte{
		rlp.EncodeBytes(h.ParentHash.Bytes()),
		rlp.EncodeBytes(h.UnclesHash.Bytes()),
		rlp.EncodeBytes(h.Author.Bytes()),
		rlp.EncodeBytes(h.StateRoot.Bytes()),
		rlp.EncodeBytes(h.TransactionsRoot.Bytes()),
		rlp.EncodeBytes(h.ReceiptsRoot.Bytes()),
		rlp.EncodeBytes(h.LogBloom.Bytes()),
		rlp.EncodeBigInt(h.Difficulty),
		rlp.EncodeUint64(h.Number),
		rlp.EncodeUint64(h.GasLimit),
		rlp.EncodeUint64(h.GasUsed),
		rlp.EncodeUint64(h.Timestamp),
		rlp.EncodeBytes(h.ExtraData),
	}
	if includeSeal {
		out = append(out,
			rlp.EncodeBytes(h.MixHash.Bytes()),
			rlp.EncodeBytes(h.Nonce.Bytes()),
		)
	}
	if h.BaseFeePerGas != nil {
		out = append(out, rlp.EncodeBigInt(h.BaseFeePerGas))
	}
	if h.WithdrawalsRoot != nil {
		out = append(out, rlp.EncodeBytes(h.WithdrawalsRoot.Bytes()))
	}
	if h.BlobGasUsed != nil {
		out = append(out, rlp.EncodeUint64(*h.BlobGasUsed))
	}
	if h.ExcessBlobGas != nil {
		out = append(out, rlp.EncodeUint64(*h.ExcessBlobGas))
	}
	return out
}

// EncodeRLP returns the canonical RLP encoding of the full header,
// including mix_hash and nonce.
func (h *ExecutionHeader) EncodeRLP() []byte {
	return rlp.EncodeList(h.fields(true)...)
}

// encodePartialRLP returns the RLP encoding excluding mix_hash and nonce,
// the pre-image Ethash hashes to obtain the Hashimoto seed (spec.md §4.B).
func (h *ExecutionHeader) encodePartialRLP() []byte {
	return rlp.EncodeList(h.fields(false)...)
}

// Hash returns keccak256(RLP(header)), memoizing the result.
func (h *ExecutionHeader) Hash() common.H256 {
	if h.hash == nil {
		hash := common.BytesToH256(crypto.Keccak256(h.EncodeRLP()))
		h.hash = &hash
	}
	return *h.hash
}

// PartialHash returns keccak256(RLP(header) without mix_hash/nonce),
// memoizing the result.
func (h *ExecutionHeader) PartialHash() common.H256 {
	if h.partialHash == nil {
		hash := common.BytesToH256(crypto.Keccak256(h.encodePartialRLP()))
		h.partialHash = &hash
	}
	return *h.partialHash
}

// DecodeHeaderRLP decodes and structurally validates a header, rejecting
// malformed input per spec.md §4.A.
func DecodeHeaderRLP(raw []byte) (*ExecutionHeader, error) {
	item, err := rlp.DecodeAll(raw)
	if err != nil {
		return nil, errors.Join(ErrMalformedHeader, err)
	}
	elems, err := item.Elems()
	if err != nil {
		return nil, errors.Join(ErrMalformedHeader, err)
	}
	if len(elems) < 15 || len(elems) > 19 {
		return nil, ErrMalformedHeader
	}

	h := &ExecutionHeader{}
	get := func(i int) *rlp.Item { return elems[i] }

	bytesField := func(i int) ([]byte, error) { return get(i).Bytes() }

	var errAcc error
	must := func(b []byte, err error) []byte {
		if err != nil {
			errAcc = err
		}
		return b
	}

	h.ParentHash = common.BytesToH256(must(bytesField(0)))
	h.UnclesHash = common.BytesToH256(must(bytesField(1)))
	h.Author = common.BytesToH160(must(bytesField(2)))
	h.StateRoot = common.BytesToH256(must(bytesField(3)))
	h.TransactionsRoot = common.BytesToH256(must(bytesField(4)))
	h.ReceiptsRoot = common.BytesToH256(must(bytesField(5)))
	h.LogBloom = common.BytesToBloom(must(bytesField(6)))

	diff, err := get(7).BigInt()
	if err != nil {
		errAcc = err
	}
	h.Difficulty = diff

	if h.Number, err = get(8).Uint64(); err != nil {
		errAcc = err
	}
	if h.GasLimit, err = get(9).Uint64(); err != nil {
		errAcc = err
	}
	if h.GasUsed, err = get(10).Uint64(); err != nil {
		errAcc = err
	}
	if h.Timestamp, err = get(11).Uint64(); err != nil {
		errAcc = err
	}
	h.ExtraData = must(bytesField(12))
	if len(h.ExtraData) > 32 {
		errAcc = ErrMalformedHeader
	}
	h.MixHash = common.BytesToH256(must(bytesField(13)))
	h.Nonce = [8]byte{}
	nonceBytes := must(bytesField(14))
	copy(h.Nonce[8-len(nonceBytes):], nonceBytes)

	idx := 15
	if idx < len(elems) {
		v, err := get(idx).BigInt()
		if err != nil {
			errAcc = err
		}
		h.BaseFeePerGas = v
		idx++
	}
	if idx < len(elems) {
		b, err := get(idx).Bytes()
		if err != nil {
			errAcc = err
		}
		root := common.BytesToH256(b)
		h.WithdrawalsRoot = &root
		idx++
	}
	if idx < len(elems) {
		v, err := get(idx).Uint64()
		if err != nil {
			errAcc = err
		}
		h.BlobGasUsed = &v
		idx++
	}
	if idx < len(elems) {
		v, err := get(idx).Uint64()
		if err != nil {
			errAcc = err
		}
		h.ExcessBlobGas = &v
		idx++
	}
	if idx != len(elems) {
		errAcc = ErrMalformedHeader
	}
	if errAcc != nil {
		return nil, errors.Join(ErrMalformedHeader, errAcc)
	}
	return h, nil
}
