package types

import (
	"errors"

	"github.com/Near-One/rainbow-bridge-sub000/common"
	"github.com/Near-One/rainbow-bridge-sub000/rlp"
)

// ErrMalformedReceipt is returned when a receipt's RLP is structurally
// invalid (spec.md §4.A).
var ErrMalformedReceipt = errors.New("types: malformed receipt")

// TypedReceiptKinds are the EIP-2718 transaction types that prefix a
// typed receipt's RLP with a single byte before the RLP list
// (spec.md §4.A, §6).
const (
	LegacyReceiptType     byte = 0xff // sentinel, legacy receipts carry no type byte
	AccessListReceiptType byte = 0x01
	DynamicFeeReceiptType byte = 0x02
	BlobReceiptType       byte = 0x03
)

// Receipt is an Ethereum transaction receipt.
type Receipt struct {
	Type              byte // LegacyReceiptType if untyped
	PostStateOrStatus []byte
	CumulativeGasUsed uint64
	Bloom             common.Bloom
	Logs              []*Log
}

// EncodeRLP returns the canonical RLP encoding, typed-prefixed when
// Type != LegacyReceiptType.
func (r *Receipt) EncodeRLP() []byte {
	logs := make([][]byte, len(r.Logs))
	for i, l := range r.Logs {
		logs[i] = l.EncodeRLP()
	}
	body := rlp.EncodeList(
		rlp.EncodeBytes(r.PostStateOrStatus),
		rlp.EncodeUint64(r.CumulativeGasUsed),
		rlp.EncodeBytes(r.Bloom.Bytes()),
		rlp.EncodeList(logs...),
	)
	if r.Type == LegacyReceiptType {
		return body
	}
	return append([]byte{r.Type}, body...)
}

// DecodeReceiptRLP decodes a (possibly EIP-2718 typed) receipt. A leading
// byte <= 0x7f denotes the transaction type and is stripped before RLP
// decoding the remainder (spec.md §4.A).
func DecodeReceiptRLP(raw []byte) (*Receipt, error) {
	if len(raw) == 0 {
		return nil, ErrMalformedReceipt
	}
	typ := byte(LegacyReceiptType)
	body := raw
	if raw[0] <= 0x7f {
		typ = raw[0]
		body = raw[1:]
	}
	item, err := rlp.DecodeAll(body)
	if err != nil {
		return nil, errors.Join(ErrMalformedReceipt, err)
	}
	elems, err := item.Elems()
	if err != nil || len(elems) != 4 {
		return nil, ErrMalformedReceipt
	}
	postState, err := elems[0].Bytes()
	if err != nil {
		return nil, errors.Join(ErrMalformedReceipt, err)
	}
	cumGas, err := elems[1].Uint64()
	if err != nil {
		return nil, errors.Join(ErrMalformedReceipt, err)
	}
	bloomB, err := elems[2].Bytes()
	if err != nil {
		return nil, errors.Join(ErrMalformedReceipt, err)
	}
	logElems, err := elems[3].Elems()
	if err != nil {
		return nil, errors.Join(ErrMalformedReceipt, err)
	}
	logs := make([]*Log, len(logElems))
	for i, le := range logElems {
		l, err := decodeLogItem(le)
		if err != nil {
			return nil, err
		}
		logs[i] = l
	}
	return &Receipt{
		Type:              typ,
		PostStateOrStatus: postState,
		CumulativeGasUsed: cumGas,
		Bloom:             common.BytesToBloom(bloomB),
		Logs:              logs,
	}, nil
}
