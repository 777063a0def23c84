// Package types defines core primitive types for Mintgate.
package types

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// IdentitySize is the length of an identity in bytes.
const IdentitySize = 32

// HashSize is the length of a hash in bytes.
const HashSize = 32

// Identity represents a 256-bit account identity (public key value).
type Identity [IdentitySize]byte

// Hash represents a 256-bit hash value.
type Hash [HashSize]byte

// IsZero returns true if the identity is all zeros.
func (id Identity) IsZero() bool {
	return id == Identity{}
}

// String returns the hex-encoded identity.
func (id Identity) String() string {
	return hex.EncodeToString(id[:])
}

// Bytes returns a copy of the identity as a byte slice.
func (id Identity) Bytes() []byte {
	b := make([]byte, IdentitySize)
	copy(b, id[:])
	return b
}

// MarshalJSON encodes the identity as a hex string.
func (id Identity) MarshalJSON() ([]byte, error) {
	return json.Marshal(id.String())
}

// UnmarshalJSON decodes a hex string into an identity.
func (id *Identity) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*id = Identity{}
		return nil
	}
	decoded, err := hex.DecodeString(s)
	if err != nil {
		return fmt.Errorf("invalid identity hex: %w", err)
	}
	if len(decoded) != IdentitySize {
		return fmt.Errorf("identity must be %d bytes, got %d", IdentitySize, len(decoded))
	}
	copy(id[:], decoded)
	return nil
}

// HexToIdentity converts a hex string to an Identity.
// Returns an error if the string is not exactly 64 hex characters.
func HexToIdentity(s string) (Identity, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return Identity{}, fmt.Errorf("invalid hex: %w", err)
	}
	if len(b) != IdentitySize {
		return Identity{}, fmt.Errorf("identity must be %d bytes, got %d", IdentitySize, len(b))
	}
	var id Identity
	copy(id[:], b)
	return id, nil
}

// IsZero returns true if the hash is all zeros.
func (h Hash) IsZero() bool {
	return h == Hash{}
}

// String returns the hex-encoded hash.
func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// Bytes returns a copy of the hash as a byte slice.
func (h Hash) Bytes() []byte {
	b := make([]byte, HashSize)
	copy(b, h[:])
	return b
}

// MarshalJSON encodes the hash as a hex string.
func (h Hash) MarshalJSON() ([]byte, error) {
	return json.Marshal(h.String())
}

// UnmarshalJSON decodes a hex string into a hash.
func (h *Hash) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*h = Hash{}
		return nil
	}
	decoded, err := hex.DecodeString(s)
	if err != nil {
		return fmt.Errorf("invalid hash hex: %w", err)
	}
	if len(decoded) != HashSize {
		return fmt.Errorf("hash must be %d bytes, got %d", HashSize, len(decoded))
	}
	copy(h[:], decoded)
	return nil
}
