package remote

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

// Session authentication constants.
const (
	// NonceSize is the size of a session nonce in bytes.
	NonceSize = 32

	// SessionKeySize is the size of the derived session key in bytes.
	SessionKeySize = 32
)

// hkdfInfo binds derived keys to this protocol and version.
var hkdfInfo = []byte("regmap-psk-v1")

// newNonce returns a fresh random nonce.
func newNonce() ([]byte, error) {
	nonce := make([]byte, NonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}
	return nonce, nil
}

// deriveSessionKey derives the proof key from the pre-shared key and both
// nonces. Client and agent derive the same key; neither nonce alone is
// enough to replay a proof.
func deriveSessionKey(psk, clientNonce, serverNonce []byte) ([]byte, error) {
	salt := append(append([]byte{}, clientNonce...), serverNonce...)
	hkdfReader := hkdf.New(sha256.New, psk, salt, hkdfInfo)

	key := make([]byte, SessionKeySize)
	if _, err := io.ReadFull(hkdfReader, key); err != nil {
		return nil, fmt.Errorf("failed to derive session key: %w", err)
	}
	return key, nil
}

// serverProof computes the agent's proof over both nonces.
func serverProof(key, serverNonce, clientNonce []byte) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte("server"))
	mac.Write(serverNonce)
	mac.Write(clientNonce)
	return mac.Sum(nil)
}

// clientProof computes the client's proof over both nonces.
func clientProof(key, clientNonce, serverNonce []byte) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte("client"))
	mac.Write(clientNonce)
	mac.Write(serverNonce)
	return mac.Sum(nil)
}

// verifyProof compares proofs in constant time.
func verifyProof(got, want []byte) bool {
	return hmac.Equal(got, want)
}
