package types

import (
	"testing"

	"github.com/Near-One/rainbow-bridge-sub000/common"
	"github.com/stretchr/testify/require"
)

func TestLogRLPRoundTrip(t *testing.T) {
	l := &Log{
		Address: common.H160{1, 2, 3},
		Topics:  []common.H256{{4}, {5}},
		Data:    []byte("payload"),
	}
	raw := l.EncodeRLP()
	decoded, err := DecodeLogRLP(raw)
	require.NoError(t, err)
	require.True(t, l.Equal(decoded))
}

func TestLogEqualDetectsTamper(t *testing.T) {
	l1 := &Log{Address: common.H160{1}, Data: []byte("a")}
	l2 := &Log{Address: common.H160{1}, Data: []byte("b")}
	require.False(t, l1.Equal(l2))
}

func TestReceiptRLPRoundTripTyped(t *testing.T) {
	r := &Receipt{
		Type:              DynamicFeeReceiptType,
		PostStateOrStatus: []byte{1},
		CumulativeGasUsed: 21000,
		Logs: []*Log{
			{Address: common.H160{9}, Topics: []common.H256{{1}}, Data: []byte("x")},
		},
	}
	raw := r.EncodeRLP()
	require.Equal(t, DynamicFeeReceiptType, raw[0])
	decoded, err := DecodeReceiptRLP(raw)
	require.NoError(t, err)
	require.Equal(t, r.Type, decoded.Type)
	require.Equal(t, r.CumulativeGasUsed, decoded.CumulativeGasUsed)
	require.Len(t, decoded.Logs, 1)
	require.True(t, r.Logs[0].Equal(decoded.Logs[0]))
}

func TestReceiptRLPRoundTripLegacy(t *testing.T) {
	r := &Receipt{
		Type:              LegacyReceiptType,
		PostStateOrStatus: []byte{1},
		CumulativeGasUsed: 5000,
	}
	raw := r.EncodeRLP()
	decoded, err := DecodeReceiptRLP(raw)
	require.NoError(t, err)
	require.Equal(t, LegacyReceiptType, decoded.Type)
}
