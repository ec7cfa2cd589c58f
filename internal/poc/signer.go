package poc

import "errors"

// ErrNoKey is returned when no device key pair exists yet. Key generation
// is a separate, explicit onboarding action, never implicit.
var ErrNoKey = errors.New("no signing key: run key setup first")

// Signer holds the long-lived device key pair and produces Ed25519
// signatures over content digests. The digest is decoded from hex to raw
// bytes before signing — it is never signed as a hex string.
// Signing and verification are side-effect-free aside from reading the
// stored private key.
type Signer interface {
	// Sign signs the decoded digest bytes and returns the signature as
	// lowercase hex. Returns ErrNoKey if the device has no key pair.
	Sign(digestHex string) (string, error)

	// PublicKey returns the device public key as lowercase hex.
	// Returns ErrNoKey if the device has no key pair.
	PublicKey() (string, error)

	// Verify reports whether signatureHex is a valid signature over the
	// decoded digest bytes under the given public key. Malformed input
	// verifies as false, never as an error.
	Verify(digestHex, signatureHex, publicKeyHex string) bool
}
