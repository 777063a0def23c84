package crypto

import (
	"testing"

	"github.com/mintgate-labs/mintgate/pkg/types"
)

func TestHash_Deterministic(t *testing.T) {
	h1 := Hash([]byte("mintgate"))
	h2 := Hash([]byte("mintgate"))
	if h1 != h2 {
		t.Error("same input should produce same hash")
	}
	if h1.IsZero() {
		t.Error("hash should not be zero")
	}
}

func TestHash_DifferentInputs(t *testing.T) {
	if Hash([]byte("a")) == Hash([]byte("b")) {
		t.Error("different inputs should produce different hashes")
	}
}

func TestIdentityFromPubKey(t *testing.T) {
	key, err := GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}

	id := IdentityFromPubKey(key.PublicKey())
	if id.IsZero() {
		t.Error("derived identity should not be zero")
	}

	// Deterministic for the same key.
	if id != IdentityFromPubKey(key.PublicKey()) {
		t.Error("identity derivation should be deterministic")
	}
}

func TestDeriveIdentity(t *testing.T) {
	parent := types.Identity{0x01}

	d1 := DeriveIdentity("config", parent)
	d2 := DeriveIdentity("config", parent)
	if d1 != d2 {
		t.Error("same tag and parent should derive the same identity")
	}

	if DeriveIdentity("config", parent) == DeriveIdentity("other", parent) {
		t.Error("different tags should derive different identities")
	}
	if DeriveIdentity("config", parent) == DeriveIdentity("config", types.Identity{0x02}) {
		t.Error("different parents should derive different identities")
	}
}

func TestSignVerify(t *testing.T) {
	key, err := GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}

	digest := Hash([]byte("request bytes"))
	sig, err := key.Sign(digest[:])
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	if !VerifySignature(digest[:], sig, key.PublicKey()) {
		t.Error("valid signature should verify")
	}

	// Wrong message.
	other := Hash([]byte("other bytes"))
	if VerifySignature(other[:], sig, key.PublicKey()) {
		t.Error("signature over different message should not verify")
	}

	// Wrong key.
	key2, _ := GenerateKey()
	if VerifySignature(digest[:], sig, key2.PublicKey()) {
		t.Error("signature should not verify under a different key")
	}
}

func TestSign_RejectsBadHashLength(t *testing.T) {
	key, _ := GenerateKey()
	if _, err := key.Sign([]byte("short")); err == nil {
		t.Error("Sign should reject non-32-byte input")
	}
}

func TestPrivateKeyFromBytes_Roundtrip(t *testing.T) {
	key, _ := GenerateKey()
	restored, err := PrivateKeyFromBytes(key.Serialize())
	if err != nil {
		t.Fatalf("PrivateKeyFromBytes: %v", err)
	}

	digest := Hash([]byte("payload"))
	sig, err := restored.Sign(digest[:])
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if !VerifySignature(digest[:], sig, key.PublicKey()) {
		t.Error("restored key should produce signatures valid under the original pubkey")
	}

	if _, err := PrivateKeyFromBytes([]byte{1, 2, 3}); err == nil {
		t.Error("short key bytes should fail")
	}
}
