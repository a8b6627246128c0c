package types

import (
	"github.com/Near-One/rainbow-bridge-sub000/common"
	"github.com/Near-One/rainbow-bridge-sub000/ssz"
)

// BeaconBlockHeader is the beacon chain's block header container.
type BeaconBlockHeader struct {
	Slot          uint64
	ProposerIndex uint64
	ParentRoot    common.H256
	StateRoot     common.H256
	BodyRoot      common.H256
}

// TreeHashRoot computes the SSZ hash-tree-root of the 5-field container.
func (h *BeaconBlockHeader) TreeHashRoot() ssz.Root {
	return ssz.HashTreeRootContainer(
		ssz.HashTreeRootUint64(h.Slot),
		ssz.HashTreeRootUint64(h.ProposerIndex),
		ssz.HashTreeRootBytes32(h.ParentRoot),
		ssz.HashTreeRootBytes32(h.StateRoot),
		ssz.HashTreeRootBytes32(h.BodyRoot),
	)
}

// ExecutionPayloadHeader is the execution-layer fields carried inside a
// post-Merge beacon block body, with fork-dependent optional fields
// (spec.md §3).
type ExecutionPayloadHeader struct {
	ParentHash    common.H256
	FeeRecipient  common.H160
	StateRoot     common.H256
	ReceiptsRoot  common.H256
	LogsBloom     common.Bloom
	PrevRandao    common.H256
	BlockNumber   uint64
	GasLimit      uint64
	GasUsed       uint64
	Timestamp     uint64
	ExtraData     []byte
	BaseFeePerGas [32]byte // little-endian uint256
	BlockHash     common.H256
	TransactionsRoot common.H256

	WithdrawalsRoot *common.H256 // Capella+
	BlobGasUsed     *uint64      // Deneb+
	ExcessBlobGas   *uint64      // Deneb+
}

// TreeHashRoot computes the SSZ hash-tree-root over the fields actually
// present for this header's fork.
func (p *ExecutionPayloadHeader) TreeHashRoot() ssz.Root {
	fields := []ssz.Root{
		ssz.HashTreeRootBytes32([32]byte(p.ParentHash)),
		ssz.HashTreeRootBytesList(p.FeeRecipient.Bytes(), 20),
		ssz.HashTreeRootBytes32([32]byte(p.StateRoot)),
		ssz.HashTreeRootBytes32([32]byte(p.ReceiptsRoot)),
		ssz.HashTreeRootBytesList(p.LogsBloom.Bytes(), 256),
		ssz.HashTreeRootBytes32([32]byte(p.PrevRandao)),
		ssz.HashTreeRootUint64(p.BlockNumber),
		ssz.HashTreeRootUint64(p.GasLimit),
		ssz.HashTreeRootUint64(p.GasUsed),
		ssz.HashTreeRootUint64(p.Timestamp),
		ssz.HashTreeRootBytesList(p.ExtraData, 32),
		ssz.HashTreeRootBytes32(p.BaseFeePerGas),
		ssz.HashTreeRootBytes32([32]byte(p.BlockHash)),
		ssz.HashTreeRootBytes32([32]byte(p.TransactionsRoot)),
	}
	if p.WithdrawalsRoot != nil {
		fields = append(fields, ssz.HashTreeRootBytes32([32]byte(*p.WithdrawalsRoot)))
	}
	if p.BlobGasUsed != nil {
		fields = append(fields, ssz.HashTreeRootUint64(*p.BlobGasUsed))
	}
	if p.ExcessBlobGas != nil {
		fields = append(fields, ssz.HashTreeRootUint64(*p.ExcessBlobGas))
	}
	return ssz.Merkleize(fields, nextPow2Fields(len(fields)))
}

func nextPow2Fields(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// LightClientHeader bundles a beacon header with its execution-layer
// counterpart and the Merkle branch linking the two (spec.md §3).
type LightClientHeader struct {
	Beacon          BeaconBlockHeader
	Execution       ExecutionPayloadHeader
	ExecutionBranch []common.H256
}

// SyncCommittee is the 512-member rotating validator set that signs
// light-client updates (GLOSSARY "Sync committee").
type SyncCommittee struct {
	Pubkeys         [512][48]byte
	AggregatePubkey [48]byte
}

// SyncAggregate carries the bitfield of which committee members
// participated and their aggregate BLS signature.
type SyncAggregate struct {
	SyncCommitteeBits      [64]byte // 512-bit little-endian bitfield
	SyncCommitteeSignature [96]byte
}

// LightClientUpdate is a sync-committee-signed attestation to a new
// finalized header, optionally rotating the next sync committee
// (spec.md §3).
type LightClientUpdate struct {
	AttestedHeader          LightClientHeader
	NextSyncCommittee       *SyncCommittee
	NextSyncCommitteeBranch []common.H256
	FinalizedHeader         LightClientHeader
	FinalityBranch          []common.H256
	SyncAggregate           SyncAggregate
	SignatureSlot           uint64
}

// ExtendedBeaconBlockHeader is derived from a finalized LightClientHeader:
// the beacon header plus its own root and the execution block hash it
// commits to (spec.md §3).
type ExtendedBeaconBlockHeader struct {
	Header             BeaconBlockHeader
	BeaconBlockRoot    common.H256
	ExecutionBlockHash common.H256
}

// NewExtendedBeaconBlockHeader derives an ExtendedBeaconBlockHeader from a
// finalized LightClientHeader.
func NewExtendedBeaconBlockHeader(h *LightClientHeader) ExtendedBeaconBlockHeader {
	root := h.Beacon.TreeHashRoot()
	return ExtendedBeaconBlockHeader{
		Header:             h.Beacon,
		BeaconBlockRoot:    common.H256(root),
		ExecutionBlockHash: h.Execution.BlockHash,
	}
}
