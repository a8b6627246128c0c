package types

import "github.com/Near-One/rainbow-bridge-sub000/ssz"

func pubkeyRoot(pk [48]byte) ssz.Root {
	return ssz.Merkleize(ssz.PackBytes(pk[:]), 2)
}

// TreeHashRoot computes the SSZ hash-tree-root of the sync committee:
// a 512-element vector of BLS pubkeys plus the aggregate pubkey.
func (c *SyncCommittee) TreeHashRoot() ssz.Root {
	leaves := make([]ssz.Root, len(c.Pubkeys))
	for i, pk := range c.Pubkeys {
		leaves[i] = pubkeyRoot(pk)
	}
	pubkeysRoot := ssz.Merkleize(leaves, len(leaves))
	aggRoot := pubkeyRoot(c.AggregatePubkey)
	return ssz.HashTreeRootContainer(pubkeysRoot, aggRoot)
}

// BitCount returns the number of set bits in the 512-bit little-endian
// sync_committee_bits field (spec.md §4.E.1).
func (a *SyncAggregate) BitCount() int {
	count := 0
	for _, b := range a.SyncCommitteeBits {
		count += popcount(b)
	}
	return count
}

// BitSet reports whether participant i signed, per the bitfield's
// little-endian bit ordering.
func (a *SyncAggregate) BitSet(i int) bool {
	byteIdx := i / 8
	bitIdx := uint(i % 8)
	return a.SyncCommitteeBits[byteIdx]&(1<<bitIdx) != 0
}

func popcount(b byte) int {
	n := 0
	for b != 0 {
		n += int(b & 1)
		b >>= 1
	}
	return n
}
