package params

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScheduleForkVersionAtSlot(t *testing.T) {
	s, err := Schedule(Mainnet)
	require.NoError(t, err)

	_, err = s.ForkVersionAtSlot(0)
	require.ErrorIs(t, err, ErrPreBellatrixSlot)

	v, err := s.ForkVersionAtSlot(s.Bellatrix.Epoch * SlotsPerEpoch)
	require.NoError(t, err)
	require.Equal(t, s.Bellatrix.Version, v)

	v, err = s.ForkVersionAtSlot(s.Deneb.Epoch * SlotsPerEpoch)
	require.NoError(t, err)
	require.Equal(t, s.Deneb.Version, v)
	require.True(t, s.IsDeneb(s.Deneb.Epoch*SlotsPerEpoch))
	require.False(t, s.IsDeneb(s.Capella.Epoch*SlotsPerEpoch))
}

func TestScheduleUnknownNetwork(t *testing.T) {
	_, err := Schedule(Network("klingon"))
	require.ErrorIs(t, err, ErrUnknownNetwork)
}

func TestLoadDAGMerkleRoots(t *testing.T) {
	data := "# epoch 13\n0x" + strings.Repeat("ab", 16) + "\n\n0x" + strings.Repeat("cd", 16) + "\n"
	roots, err := LoadDAGMerkleRoots(strings.NewReader(data), 13)
	require.NoError(t, err)
	require.Equal(t, uint64(13), roots.StartEpoch)
	require.Len(t, roots.Roots, 2)
	require.Equal(t, byte(0xab), roots.Roots[0][0])
}

func TestLoadDAGMerkleRootsRejectsBadLength(t *testing.T) {
	_, err := LoadDAGMerkleRoots(strings.NewReader("0xabcd"), 13)
	require.Error(t, err)
}

func TestLoadConfigFromTOML(t *testing.T) {
	data := `
network = "sepolia"
validate_ethash = true
hashes_gc_threshold = 50000
finalized_gc_threshold = 2000
num_confirmations = 10
trusted_signer = "relayer.near"
`
	cfg, err := LoadConfig(strings.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, Sepolia, cfg.Network)
	require.True(t, cfg.ValidateEthash)
	require.Equal(t, uint64(50000), cfg.HashesGcThreshold)
	require.Equal(t, "relayer.near", cfg.TrustedSigner)
}
