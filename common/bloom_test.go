package common

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBloomAddTest(t *testing.T) {
	var b Bloom
	hash1 := make([]byte, 32)
	for i := range hash1 {
		hash1[i] = byte(i)
	}
	hash2 := make([]byte, 32)
	for i := range hash2 {
		hash2[i] = byte(255 - i)
	}

	b.Add(hash1)
	require.True(t, b.Test(hash1))
	require.False(t, b.Test(hash2))

	b.Add(hash2)
	require.True(t, b.Test(hash1))
	require.True(t, b.Test(hash2))
}

func TestBytesToBloomRoundTrip(t *testing.T) {
	raw := make([]byte, 256)
	raw[0] = 0xab
	raw[255] = 0xcd
	bl := BytesToBloom(raw)
	require.Equal(t, raw, bl.Bytes())
}
