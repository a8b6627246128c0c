package client

import (
	"math/big"
	"testing"

	"github.com/Near-One/rainbow-bridge-sub000/common"
	"github.com/Near-One/rainbow-bridge-sub000/core/types"
	"github.com/Near-One/rainbow-bridge-sub000/crypto"
	"github.com/Near-One/rainbow-bridge-sub000/ethdb/memorydb"
	powlight "github.com/Near-One/rainbow-bridge-sub000/light"
	"github.com/Near-One/rainbow-bridge-sub000/rlp"
	"github.com/stretchr/testify/require"
)

// keyToNibbles and compactEncodeLeaf build a single-leaf trie node by
// hand, the same hex-prefix encoding trie.VerifyProof's decodeCompactPath
// expects (trie/nibbles.go), so tests can construct proofs without a
// real Ethereum state trie.
func keyToNibbles(key []byte) []byte {
	out := make([]byte, 0, len(key)*2)
	for _, b := range key {
		out = append(out, b>>4, b&0x0f)
	}
	return out
}

func compactEncodeLeaf(nibbles []byte) []byte {
	flags := byte(0x20)
	odd := len(nibbles)%2 == 1
	var out []byte
	if odd {
		out = append(out, flags|0x10|nibbles[0])
		nibbles = nibbles[1:]
	} else {
		out = append(out, flags)
	}
	for i := 0; i < len(nibbles); i += 2 {
		out = append(out, nibbles[i]<<4|nibbles[i+1])
	}
	return out
}

func encodeLeafNode(key, value []byte) []byte {
	path := compactEncodeLeaf(keyToNibbles(key))
	return rlp.EncodeList(rlp.EncodeBytes(path), rlp.EncodeBytes(value))
}

func sampleLogAndReceipt() (*types.Log, []byte, []byte) {
	log := &types.Log{
		Address: common.H160{0x01},
		Topics:  []common.H256{{0x02}},
		Data:    []byte("event-data"),
	}
	receipt := &types.Receipt{
		Type:              types.LegacyReceiptType,
		PostStateOrStatus: []byte{1},
		CumulativeGasUsed: 21000,
		Bloom:             common.Bloom{},
		Logs:              []*types.Log{log},
	}
	return log, log.EncodeRLP(), receipt.EncodeRLP()
}

func TestVerifyLogEntrySkipBridgeCall(t *testing.T) {
	_, logRLP, receiptRLP := sampleLogAndReceipt()

	key := []byte{0x01} // rlp.EncodeUint64(1)
	leafRLP := encodeLeafNode(key, receiptRLP)
	root := common.BytesToH256(crypto.Keccak256(leafRLP))

	header := &types.ExecutionHeader{Difficulty: big.NewInt(0), ReceiptsRoot: root}
	headerRLP := header.EncodeRLP()

	f := &Facade{}
	ok, err := f.VerifyLogEntry(0, logRLP, 1, receiptRLP, headerRLP, [][]byte{leafRLP}, true)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestVerifyLogEntryRejectsWrongLogIndex(t *testing.T) {
	_, logRLP, receiptRLP := sampleLogAndReceipt()
	key := []byte{0x01}
	leafRLP := encodeLeafNode(key, receiptRLP)
	root := common.BytesToH256(crypto.Keccak256(leafRLP))
	header := &types.ExecutionHeader{Difficulty: big.NewInt(0), ReceiptsRoot: root}
	headerRLP := header.EncodeRLP()

	f := &Facade{}
	ok, err := f.VerifyLogEntry(1, logRLP, 1, receiptRLP, headerRLP, [][]byte{leafRLP}, true)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestVerifyLogEntryRejectsTamperedProof(t *testing.T) {
	_, logRLP, receiptRLP := sampleLogAndReceipt()
	key := []byte{0x01}
	leafRLP := encodeLeafNode(key, receiptRLP)
	root := common.BytesToH256(crypto.Keccak256(leafRLP))
	header := &types.ExecutionHeader{Difficulty: big.NewInt(0), ReceiptsRoot: root}
	headerRLP := header.EncodeRLP()

	tampered := append([]byte(nil), leafRLP...)
	tampered[len(tampered)-1] ^= 0xff

	f := &Facade{}
	ok, err := f.VerifyLogEntry(0, logRLP, 1, receiptRLP, headerRLP, [][]byte{tampered}, true)
	require.NoError(t, err)
	require.False(t, ok)
}

func sampleAccountAndStorage(t *testing.T) (addr common.H160, accountRLP []byte, stateRoot common.H256, storageKeyHash common.H256, storageValue []byte, storageProof [][]byte) {
	t.Helper()
	storageValue = []byte("storage-value")
	storageKeyHash = common.H256{0x07}
	storageLeaf := encodeLeafNode(storageKeyHash.Bytes(), storageValue)
	storageRoot := common.BytesToH256(crypto.Keccak256(storageLeaf))

	accountRLP = rlp.EncodeList(
		rlp.EncodeUint64(1),
		rlp.EncodeBigInt(big.NewInt(100)),
		rlp.EncodeBytes(storageRoot.Bytes()),
		rlp.EncodeBytes(common.H256{0x09}.Bytes()),
	)

	addr = common.H160{0x05}
	addrKey := crypto.Keccak256(addr.Bytes())
	accountLeaf := encodeLeafNode(addrKey, accountRLP)
	stateRoot = common.BytesToH256(crypto.Keccak256(accountLeaf))

	return addr, accountRLP, stateRoot, storageKeyHash, storageValue, [][]byte{storageLeaf}
}

func TestVerifyStorageProofSkipBridgeCall(t *testing.T) {
	addr, accountRLP, stateRoot, storageKeyHash, storageValue, storageProof := sampleAccountAndStorage(t)
	addrKey := crypto.Keccak256(addr.Bytes())
	accountLeaf := encodeLeafNode(addrKey, accountRLP)

	header := &types.ExecutionHeader{Difficulty: big.NewInt(0), StateRoot: stateRoot, Number: 42}
	headerRLP := header.EncodeRLP()

	f := &Facade{}
	ok, err := f.VerifyStorageProof(headerRLP, [][]byte{accountLeaf}, addr, accountRLP, storageKeyHash, storageProof, storageValue, nil, nil, true)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestVerifyStorageProofRejectsOutOfBounds(t *testing.T) {
	addr, accountRLP, stateRoot, storageKeyHash, storageValue, storageProof := sampleAccountAndStorage(t)
	addrKey := crypto.Keccak256(addr.Bytes())
	accountLeaf := encodeLeafNode(addrKey, accountRLP)

	header := &types.ExecutionHeader{Difficulty: big.NewInt(0), StateRoot: stateRoot, Number: 42}
	headerRLP := header.EncodeRLP()

	min := uint64(100)
	f := &Facade{}
	ok, err := f.VerifyStorageProof(headerRLP, [][]byte{accountLeaf}, addr, accountRLP, storageKeyHash, storageProof, storageValue, &min, nil, true)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestVerifyStorageProofRejectsWrongExpectedValue(t *testing.T) {
	addr, accountRLP, stateRoot, storageKeyHash, _, storageProof := sampleAccountAndStorage(t)
	addrKey := crypto.Keccak256(addr.Bytes())
	accountLeaf := encodeLeafNode(addrKey, accountRLP)

	header := &types.ExecutionHeader{Difficulty: big.NewInt(0), StateRoot: stateRoot}
	headerRLP := header.EncodeRLP()

	f := &Facade{}
	ok, err := f.VerifyStorageProof(headerRLP, [][]byte{accountLeaf}, addr, accountRLP, storageKeyHash, storageProof, []byte("wrong-value"), nil, nil, true)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestVerifyLogEntryWithBridgeCall(t *testing.T) {
	_, logRLP, receiptRLP := sampleLogAndReceipt()
	key := []byte{0x01}
	leafRLP := encodeLeafNode(key, receiptRLP)
	root := common.BytesToH256(crypto.Keccak256(leafRLP))

	header := &types.ExecutionHeader{Difficulty: big.NewInt(0), ReceiptsRoot: root, Number: 0}
	headerRLP := header.EncodeRLP()

	db := memorydb.New()
	engine := powlight.New(db, powlight.Config{NumConfirmations: 0, HashesGcThreshold: 1000, FinalizedGcThreshold: 1000})
	require.NoError(t, engine.Genesis(header, big.NewInt(0)))
	f := NewPoWFacade(engine)

	ok, err := f.VerifyLogEntry(0, logRLP, 1, receiptRLP, headerRLP, [][]byte{leafRLP}, false)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestVerifyLogEntryBridgeCallFailsForUnknownHeader(t *testing.T) {
	_, logRLP, receiptRLP := sampleLogAndReceipt()
	key := []byte{0x01}
	leafRLP := encodeLeafNode(key, receiptRLP)
	root := common.BytesToH256(crypto.Keccak256(leafRLP))

	header := &types.ExecutionHeader{Difficulty: big.NewInt(0), ReceiptsRoot: root, Number: 99}
	headerRLP := header.EncodeRLP()

	genesis := &types.ExecutionHeader{Difficulty: big.NewInt(0), Number: 0}
	db := memorydb.New()
	engine := powlight.New(db, powlight.Config{NumConfirmations: 0, HashesGcThreshold: 1000, FinalizedGcThreshold: 1000})
	require.NoError(t, engine.Genesis(genesis, big.NewInt(0)))
	f := NewPoWFacade(engine)

	ok, err := f.VerifyLogEntry(0, logRLP, 1, receiptRLP, headerRLP, [][]byte{leafRLP}, false)
	require.NoError(t, err)
	require.False(t, ok)
}
