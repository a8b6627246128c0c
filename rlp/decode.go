package rlp

import (
	"math/big"
)

// Item is the parsed tree form of one RLP value: either a byte string
// (IsList == false) or an ordered list of sub-items.
type Item struct {
	IsList bool
	Value  []byte
	List   []*Item
}

// Uint64 interprets a string item as a big-endian unsigned integer,
// rejecting any non-canonical leading zero byte.
func (it *Item) Uint64() (uint64, error) {
	if it.IsList {
		return 0, ErrExpectedString
	}
	if len(it.Value) > 8 {
		return 0, ErrValueTooLarge
	}
	if len(it.Value) > 0 && it.Value[0] == 0 {
		return 0, ErrNonCanonicalSize
	}
	var v uint64
	for _, b := range it.Value {
		v = v<<8 | uint64(b)
	}
	return v, nil
}

// BigInt interprets a string item as a non-negative big-endian integer.
func (it *Item) BigInt() (*big.Int, error) {
	if it.IsList {
		return nil, ErrExpectedString
	}
	if len(it.Value) > 0 && it.Value[0] == 0 {
		return nil, ErrNonCanonicalSize
	}
	return new(big.Int).SetBytes(it.Value), nil
}

// Bytes returns the raw string payload.
func (it *Item) Bytes() ([]byte, error) {
	if it.IsList {
		return nil, ErrExpectedString
	}
	return it.Value, nil
}

// Elems returns the list payload.
func (it *Item) Elems() ([]*Item, error) {
	if !it.IsList {
		return nil, ErrExpectedList
	}
	return it.List, nil
}

// Decode parses exactly one RLP item from the front of data and returns
// it along with any unconsumed trailing bytes.
func Decode(data []byte) (*Item, []byte, error) {
	if len(data) == 0 {
		return nil, nil, ErrUnexpectedEOF
	}
	b0 := data[0]
	switch {
	case b0 < 0x80:
		return &Item{Value: data[0:1]}, data[1:], nil
	case b0 < 0xb8:
		size := int(b0 - 0x80)
		return takeString(data[1:], size)
	case b0 < 0xc0:
		lenOfLen := int(b0 - 0xb7)
		size, rest, err := readLength(data[1:], lenOfLen)
		if err != nil {
			return nil, nil, err
		}
		if size <= 55 {
			return nil, nil, ErrNonCanonicalSize
		}
		return takeString(rest, size)
	case b0 < 0xf8:
		size := int(b0 - 0xc0)
		return takeList(data[1:], size)
	default:
		lenOfLen := int(b0 - 0xf7)
		size, rest, err := readLength(data[1:], lenOfLen)
		if err != nil {
			return nil, nil, err
		}
		if size <= 55 {
			return nil, nil, ErrNonCanonicalSize
		}
		return takeList(rest, size)
	}
}

// DecodeAll decodes exactly one item, requiring data to be fully consumed.
func DecodeAll(data []byte) (*Item, error) {
	item, rest, err := Decode(data)
	if err != nil {
		return nil, err
	}
	if len(rest) != 0 {
		return nil, ErrTrailingData
	}
	return item, nil
}

func readLength(data []byte, lenOfLen int) (int, []byte, error) {
	if len(data) < lenOfLen {
		return 0, nil, ErrUnexpectedEOF
	}
	if lenOfLen > 0 && data[0] == 0 {
		return 0, nil, ErrNonCanonicalSize
	}
	var size int
	for i := 0; i < lenOfLen; i++ {
		size = size<<8 | int(data[i])
	}
	return size, data[lenOfLen:], nil
}

func takeString(data []byte, size int) (*Item, []byte, error) {
	if len(data) < size {
		return nil, nil, ErrUnexpectedEOF
	}
	if size == 1 && data[0] < 0x80 {
		return nil, nil, ErrNonCanonicalSize
	}
	if size == 0 {
		return &Item{}, data, nil
	}
	val := make([]byte, size)
	copy(val, data[:size])
	return &Item{Value: val}, data[size:], nil
}

func takeList(data []byte, size int) (*Item, []byte, error) {
	if len(data) < size {
		return nil, nil, ErrUnexpectedEOF
	}
	body, rest := data[:size], data[size:]
	var list []*Item
	for len(body) > 0 {
		item, remaining, err := Decode(body)
		if err != nil {
			return nil, nil, err
		}
		list = append(list, item)
		body = remaining
	}
	return &Item{IsList: true, List: list}, rest, nil
}
