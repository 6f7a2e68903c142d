// Package remote serves and consumes register spaces over TCP.
//
// An agent serves one register.Space; clients read and write whole raw
// register values by offset, exactly the narrow contract a local bus
// offers. Client implements bus.Bus, so the model layer cannot tell a
// remote agent from local memory.
//
// # Protocol Stack
//
//	┌────────────────────────────────┐
//	│   CBOR Messages (integer keys) │
//	├────────────────────────────────┤
//	│   Length-Prefix Framing (4B)   │
//	├────────────────────────────────┤
//	│           TCP                  │
//	└────────────────────────────────┘
//
// # Handshake
//
// Every connection opens with a Hello/Challenge exchange carrying the
// protocol identifier ("regmap/1") and the agent-assigned session ID.
// When both sides hold the same pre-shared key, the exchange extends to
// a nonce/proof round in each direction: the session key is derived
// with HKDF-SHA256 from the key over both nonces, and each side sends
// an HMAC-SHA256 proof the other verifies in constant time. Proofs
// authenticate; frames are not encrypted, so agents belong on trusted
// links.
//
// Requests on a session that has not proven the key are answered with
// StatusUnauthenticated rather than dropped, and the client surfaces
// ErrUnauthenticated.
package remote
