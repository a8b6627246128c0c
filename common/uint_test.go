package common

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddU64Overflow(t *testing.T) {
	_, err := AddU64(math.MaxUint64, 1)
	require.ErrorIs(t, err, ErrOverflow)

	sum, err := AddU64(1, 2)
	require.NoError(t, err)
	require.Equal(t, uint64(3), sum)
}

func TestU256AddOverflow(t *testing.T) {
	max := NewU256FromBytes(make([]byte, 0))
	maxBytes := make([]byte, 32)
	for i := range maxBytes {
		maxBytes[i] = 0xff
	}
	max = NewU256FromBytes(maxBytes)

	_, err := max.Add(NewU256(1))
	require.ErrorIs(t, err, ErrOverflow)

	a := NewU256(10)
	b := NewU256(20)
	sum, err := a.Add(b)
	require.NoError(t, err)
	require.Equal(t, uint64(30), sum.Uint64())
}

func TestU256Cmp(t *testing.T) {
	a := NewU256(5)
	b := NewU256(10)
	require.True(t, a.LessThan(b))
	require.False(t, b.LessThan(a))
	require.Equal(t, 0, a.Cmp(NewU256(5)))
}
