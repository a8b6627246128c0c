package types

import (
	"math/big"
	"testing"

	"github.com/Near-One/rainbow-bridge-sub000/common"
	"github.com/stretchr/testify/require"
)

func sampleHeader() *ExecutionHeader {
	return &ExecutionHeader{
		ParentHash:       common.H256{1},
		UnclesHash:       common.H256{2},
		Author:           common.H160{3},
		StateRoot:        common.H256{4},
		TransactionsRoot: common.H256{5},
		ReceiptsRoot:     common.H256{6},
		Difficulty:       big.NewInt(123456),
		Number:           400001,
		GasLimit:         8_000_000,
		GasUsed:          21000,
		Timestamp:        1600000000,
		ExtraData:        []byte("hello"),
		MixHash:          common.H256{7},
		Nonce:            common.H64{0, 0, 0, 0, 0, 0, 0, 42},
	}
}

func TestHeaderRLPRoundTrip(t *testing.T) {
	h := sampleHeader()
	raw := h.EncodeRLP()
	decoded, err := DecodeHeaderRLP(raw)
	require.NoError(t, err)
	require.Equal(t, h.ParentHash, decoded.ParentHash)
	require.Equal(t, h.Number, decoded.Number)
	require.Equal(t, h.Nonce, decoded.Nonce)
	require.Equal(t, h.Hash(), decoded.Hash())
}

func TestHeaderPartialHashExcludesSeal(t *testing.T) {
	h := sampleHeader()
	partial := h.PartialHash()

	h2 := sampleHeader()
	h2.MixHash = common.H256{99}
	h2.Nonce = common.H64{1, 2, 3, 4, 5, 6, 7, 8}
	require.Equal(t, partial, h2.PartialHash())
	require.NotEqual(t, h.Hash(), h2.Hash())
}

func TestHeaderWithBaseFeeAndWithdrawals(t *testing.T) {
	h := sampleHeader()
	baseFee := big.NewInt(7)
	h.BaseFeePerGas = baseFee
	root := common.H256{8}
	h.WithdrawalsRoot = &root

	raw := h.EncodeRLP()
	decoded, err := DecodeHeaderRLP(raw)
	require.NoError(t, err)
	require.NotNil(t, decoded.BaseFeePerGas)
	require.Equal(t, 0, baseFee.Cmp(decoded.BaseFeePerGas))
	require.NotNil(t, decoded.WithdrawalsRoot)
	require.Equal(t, root, *decoded.WithdrawalsRoot)
}

func TestDecodeHeaderRejectsMalformed(t *testing.T) {
	raw := sampleHeader().EncodeRLP()
	raw = append(raw, 0x00) // trailing garbage
	_, err := DecodeHeaderRLP(raw)
	require.ErrorIs(t, err, ErrMalformedHeader)
}

func TestDecodeHeaderRejectsOversizedExtraData(t *testing.T) {
	h := sampleHeader()
	h.ExtraData = make([]byte, 33)
	raw := h.EncodeRLP()
	_, err := DecodeHeaderRLP(raw)
	require.ErrorIs(t, err, ErrMalformedHeader)
}
