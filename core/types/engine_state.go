package types

import (
	"math/big"

	"github.com/Near-One/rainbow-bridge-sub000/common"
)

// HeaderInfo is the per-hash summary the PoW engine retains for every
// header it stores, independent of whether that header is on the
// canonical chain (spec.md §3).
type HeaderInfo struct {
	CumulativeDifficulty *big.Int
	ParentHash           common.H256
	Number               uint64
}

// ExecutionHeaderInfo is the minimal per-unfinalized-header record the
// post-Merge engine needs to chain execution headers backward to the
// previously finalized tip (spec.md §3).
type ExecutionHeaderInfo struct {
	ParentHash  common.H256
	BlockNumber uint64
	Submitter   string
	Hash        common.H256
}
