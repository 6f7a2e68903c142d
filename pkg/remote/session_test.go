package remote

import (
	"bytes"
	"testing"
)

func TestNewNonce(t *testing.T) {
	a, err := newNonce()
	if err != nil {
		t.Fatalf("newNonce failed: %v", err)
	}
	if len(a) != NonceSize {
		t.Errorf("nonce length = %d, want %d", len(a), NonceSize)
	}

	b, err := newNonce()
	if err != nil {
		t.Fatalf("newNonce failed: %v", err)
	}
	if bytes.Equal(a, b) {
		t.Error("two nonces are identical")
	}
}

func TestDeriveSessionKeySymmetric(t *testing.T) {
	psk := []byte("shared secret")
	clientNonce, _ := newNonce()
	serverNonce, _ := newNonce()

	clientKey, err := deriveSessionKey(psk, clientNonce, serverNonce)
	if err != nil {
		t.Fatalf("client derivation failed: %v", err)
	}
	serverKey, err := deriveSessionKey(psk, clientNonce, serverNonce)
	if err != nil {
		t.Fatalf("server derivation failed: %v", err)
	}

	if len(clientKey) != SessionKeySize {
		t.Errorf("key length = %d, want %d", len(clientKey), SessionKeySize)
	}
	if !bytes.Equal(clientKey, serverKey) {
		t.Error("both sides must derive the same key")
	}
}

func TestDeriveSessionKeyDependsOnInputs(t *testing.T) {
	clientNonce, _ := newNonce()
	serverNonce, _ := newNonce()

	key1, _ := deriveSessionKey([]byte("secret one"), clientNonce, serverNonce)
	key2, _ := deriveSessionKey([]byte("secret two"), clientNonce, serverNonce)
	if bytes.Equal(key1, key2) {
		t.Error("different PSKs derived the same key")
	}

	otherNonce, _ := newNonce()
	key3, _ := deriveSessionKey([]byte("secret one"), clientNonce, otherNonce)
	if bytes.Equal(key1, key3) {
		t.Error("different nonces derived the same key")
	}
}

func TestProofsVerify(t *testing.T) {
	psk := []byte("shared secret")
	clientNonce, _ := newNonce()
	serverNonce, _ := newNonce()
	key, _ := deriveSessionKey(psk, clientNonce, serverNonce)

	sp := serverProof(key, serverNonce, clientNonce)
	if !verifyProof(sp, serverProof(key, serverNonce, clientNonce)) {
		t.Error("server proof does not verify against itself")
	}

	cp := clientProof(key, clientNonce, serverNonce)
	if !verifyProof(cp, clientProof(key, clientNonce, serverNonce)) {
		t.Error("client proof does not verify against itself")
	}

	// Direction labels keep the two proofs distinct: a reflected server
	// proof must not pass as a client proof.
	if verifyProof(sp, cp) {
		t.Error("server proof verified as client proof")
	}
}

func TestProofWrongKeyFails(t *testing.T) {
	clientNonce, _ := newNonce()
	serverNonce, _ := newNonce()

	goodKey, _ := deriveSessionKey([]byte("right"), clientNonce, serverNonce)
	badKey, _ := deriveSessionKey([]byte("wrong"), clientNonce, serverNonce)

	got := clientProof(badKey, clientNonce, serverNonce)
	want := clientProof(goodKey, clientNonce, serverNonce)
	if verifyProof(got, want) {
		t.Error("proof from the wrong key verified")
	}
}
