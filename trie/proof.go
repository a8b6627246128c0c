// Package trie implements the Merkle-Patricia Trie proof verifier
// (spec.md §4.C): given a claimed root, a key, and the raw RLP of each
// trie node on the path, it certifies (or rejects) a claimed value.
package trie

import (
	"bytes"
	"errors"

	"github.com/Near-One/rainbow-bridge-sub000/common"
	"github.com/Near-One/rainbow-bridge-sub000/crypto"
	"github.com/Near-One/rainbow-bridge-sub000/rlp"
	"github.com/VictoriaMetrics/fastcache"
)

// nodeHashCache memoizes keccak256(nodeRLP) for proof nodes, the same
// way go-ethereum's trie.Database leans on fastcache for its clean-node
// cache: upper branch/extension nodes near a trie's root are shared by
// almost every proof against that root, so a bridge verifying many
// entries in the same block re-hashes the same bytes repeatedly.
var nodeHashCache = fastcache.New(4 * 1024 * 1024)

func cachedKeccak256(nodeRLP []byte) []byte {
	if hash, ok := nodeHashCache.HasGet(nil, nodeRLP); ok {
		return hash
	}
	hash := crypto.Keccak256(nodeRLP)
	nodeHashCache.Set(nodeRLP, hash)
	return hash
}

// ErrInvalidProof is returned for any structural mismatch, nibble
// mismatch, or premature/late proof exhaustion (spec.md §4.C, §7).
var ErrInvalidProof = errors.New("trie: invalid merkle-patricia proof")

// VerifyProof walks proof starting at expectedRoot and confirms that key
// maps to the returned value. It returns (value, nil) when the proof shows
// key present, and a non-nil error for any malformed or inconsistent
// proof. It only proves presence: a proof of absence is rejected with
// ErrInvalidProof.
func VerifyProof(expectedRoot common.H256, key []byte, proof [][]byte) ([]byte, error) {
	nibbles := keyToNibbles(key)
	keyIndex := 0
	expected := expectedRoot.Bytes()

	for i, nodeRLP := range proof {
		if err := checkNodeIdentity(nodeRLP, expected, keyIndex); err != nil {
			return nil, err
		}

		item, err := decodeNode(nodeRLP)
		if err != nil {
			return nil, err
		}
		elems, err := item.Elems()
		if err != nil {
			return nil, ErrInvalidProof
		}

		switch len(elems) {
		case 17:
			if keyIndex == nibbles.len() {
				if i != len(proof)-1 {
					return nil, ErrInvalidProof
				}
				return elems[16].Bytes()
			}
			nibble := nibbles.at(keyIndex)
			childBytes, err := encodedChildBytes(elems[nibble])
			if err != nil || len(childBytes) == 0 {
				return nil, ErrInvalidProof
			}
			expected = childBytes
			keyIndex++

		case 2:
			pathItem := elems[0]
			pathRaw, err := pathItem.Bytes()
			if err != nil || len(pathRaw) == 0 {
				return nil, ErrInvalidProof
			}
			isLeaf, pathNibbles := decodeCompactPath(pathRaw)
			if keyIndex+len(pathNibbles) > nibbles.len() {
				return nil, ErrInvalidProof
			}
			for j, n := range pathNibbles {
				if nibbles.at(keyIndex+j) != n {
					return nil, ErrInvalidProof
				}
			}
			keyIndex += len(pathNibbles)

			if isLeaf {
				if keyIndex != nibbles.len() || i != len(proof)-1 {
					return nil, ErrInvalidProof
				}
				return elems[1].Bytes()
			}
			// Extension node: the second item is the next expected node
			// bytes, which may be embedded (raw sub-list) rather than a
			// 32-byte hash reference.
			next, err := encodedChildBytes(elems[1])
			if err != nil {
				return nil, err
			}
			expected = next

		default:
			return nil, ErrInvalidProof
		}
	}
	return nil, ErrInvalidProof
}

// checkNodeIdentity verifies a proof node's binding to the expected value:
// at the first step it must hash to the claimed trie root; thereafter an
// embedded node (RLP shorter than 32 bytes) must equal the expected bytes
// verbatim, while a larger node must hash to it (spec.md §4.C step 3).
func checkNodeIdentity(nodeRLP []byte, expected []byte, keyIndex int) error {
	if keyIndex == 0 {
		if !bytes.Equal(cachedKeccak256(nodeRLP), expected) {
			return ErrInvalidProof
		}
		return nil
	}
	if len(nodeRLP) < 32 {
		if !bytes.Equal(nodeRLP, expected) {
			return ErrInvalidProof
		}
		return nil
	}
	if !bytes.Equal(cachedKeccak256(nodeRLP), expected) {
		return ErrInvalidProof
	}
	return nil
}

func decodeNode(nodeRLP []byte) (*rlp.Item, error) {
	item, err := rlp.DecodeAll(nodeRLP)
	if err != nil {
		return nil, ErrInvalidProof
	}
	return item, nil
}

// encodedChildBytes interprets a branch/extension child slot: either an
// inline (embedded, <32 byte) node, carried as the raw sub-list bytes, or
// a 32-byte hash reference.
func encodedChildBytes(item *rlp.Item) ([]byte, error) {
	if item.IsList {
		// Embedded node: re-encode it to get its canonical RLP bytes so
		// checkNodeIdentity can compare verbatim against it next round.
		return reencode(item), nil
	}
	b, err := item.Bytes()
	if err != nil {
		return nil, ErrInvalidProof
	}
	return b, nil
}

func reencode(item *rlp.Item) []byte {
	if !item.IsList {
		return rlp.EncodeBytes(item.Value)
	}
	parts := make([][]byte, len(item.List))
	for i, sub := range item.List {
		parts[i] = reencode(sub)
	}
	return rlp.EncodeList(parts...)
}
