package crypto

import (
	"errors"
	"fmt"

	blst "github.com/supranational/blst/bindings/go"
)

// ErrInvalidPublicKey and ErrInvalidSignature are returned when a raw
// 48-byte public key or 96-byte signature fails to deserialize to a valid
// curve point; this is distinct from BLSVerifyFailed (spec.md §7), which
// means the point deserialized fine but the pairing check failed.
var (
	ErrInvalidPublicKey = errors.New("crypto: invalid BLS public key encoding")
	ErrInvalidSignature = errors.New("crypto: invalid BLS signature encoding")
)

// blstSignature/blstPublicKey alias the min-pubkey-size BLST instantiation
// used by the Ethereum consensus layer: 48-byte G1 public keys and 96-byte
// G2 signatures.
type blstSignature = blst.P2Affine
type blstPublicKey = blst.P1Affine

// dst is the BLS12-381 ciphersuite domain separation tag mandated by the
// consensus-layer signing spec for sync-committee signatures.
const dst = "BLS_SIG_BLS12381G2_XMD:SHA-256_SSWU_RO_POP_"

// FastAggregateVerify verifies that sig is a valid BLS aggregate signature
// over msg by every key in pubkeys (the sync-committee participant set
// selected by bit index per spec.md §4.E.7). It is a capability the
// engine injects rather than assumes, since some hosts verify BLS via a
// precompile instead of an in-process pairing library (spec.md §9).
func FastAggregateVerify(pubkeys [][]byte, msg []byte, sig []byte) (bool, error) {
	if len(pubkeys) == 0 {
		return false, nil
	}
	parsed := make([]*blstPublicKey, 0, len(pubkeys))
	for _, raw := range pubkeys {
		if len(raw) != 48 {
			return false, ErrInvalidPublicKey
		}
		pk := new(blstPublicKey).Uncompress(raw)
		if pk == nil || !pk.KeyValidate() {
			return false, ErrInvalidPublicKey
		}
		parsed = append(parsed, pk)
	}
	if len(sig) != 96 {
		return false, ErrInvalidSignature
	}
	s := new(blstSignature).Uncompress(sig)
	if s == nil {
		return false, ErrInvalidSignature
	}
	ok := s.FastAggregateVerify(true, parsed, msg, []byte(dst))
	return ok, nil
}

// ValidatePublicKey reports whether raw deserializes to a point on the
// curve and is not the identity element.
func ValidatePublicKey(raw []byte) error {
	if len(raw) != 48 {
		return fmt.Errorf("%w: want 48 bytes, got %d", ErrInvalidPublicKey, len(raw))
	}
	pk := new(blstPublicKey).Uncompress(raw)
	if pk == nil || !pk.KeyValidate() {
		return ErrInvalidPublicKey
	}
	return nil
}
