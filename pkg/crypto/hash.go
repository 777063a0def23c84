// Package crypto provides cryptographic primitives for Mintgate.
package crypto

import (
	"github.com/mintgate-labs/mintgate/pkg/types"
	"github.com/zeebo/blake3"
)

// Hash computes a BLAKE3-256 hash of the input data.
func Hash(data []byte) types.Hash {
	return blake3.Sum256(data)
}

// IdentityFromPubKey derives an account identity from a compressed
// public key. Identity = BLAKE3(compressed_pubkey).
func IdentityFromPubKey(pubKey []byte) types.Identity {
	h := Hash(pubKey)
	return types.Identity(h)
}

// DeriveIdentity computes a domain-separated identity from a tag and a
// parent identity. Used to bind derived accounts (such as a token's
// configuration slot) to the account that governs them.
func DeriveIdentity(tag string, parent types.Identity) types.Identity {
	buf := make([]byte, 0, len(tag)+types.IdentitySize)
	buf = append(buf, tag...)
	buf = append(buf, parent[:]...)
	h := Hash(buf)
	return types.Identity(h)
}
