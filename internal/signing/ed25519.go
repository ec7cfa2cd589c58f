// Package signing holds the device key pair and produces Ed25519
// signatures over content digests.
package signing

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"poc-go/internal/poc"
)

// Key material names in the key store.
const (
	PrivateKeyName = "signing_key"
	PublicKeyName  = "public_key"
)

// Ed25519Signer implements poc.Signer backed by a poc.KeyStore.
// The key pair is generated once per device installation via Setup;
// Sign and PublicKey return poc.ErrNoKey until then.
type Ed25519Signer struct {
	keys poc.KeyStore
}

var _ poc.Signer = (*Ed25519Signer)(nil)

// NewEd25519Signer creates a signer reading key material from keys.
func NewEd25519Signer(keys poc.KeyStore) *Ed25519Signer {
	return &Ed25519Signer{keys: keys}
}

// Setup performs one-time key generation and stores both halves of the
// pair. Calling Setup again replaces the existing pair, invalidating
// signatures on records anchored under the old key.
func (s *Ed25519Signer) Setup() error {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return fmt.Errorf("generating key pair: %w", err)
	}
	if err := s.keys.Set(PrivateKeyName, priv); err != nil {
		return fmt.Errorf("storing private key: %w", err)
	}
	if err := s.keys.Set(PublicKeyName, pub); err != nil {
		return fmt.Errorf("storing public key: %w", err)
	}
	return nil
}

// IsConfigured returns true if a key pair exists in the store.
func (s *Ed25519Signer) IsConfigured() bool {
	priv, err := s.keys.Get(PrivateKeyName)
	return err == nil && len(priv) == ed25519.PrivateKeySize
}

// Sign signs the decoded digest bytes and returns the signature as hex.
func (s *Ed25519Signer) Sign(digestHex string) (string, error) {
	raw, err := hex.DecodeString(digestHex)
	if err != nil {
		return "", fmt.Errorf("decoding digest: %w", err)
	}

	priv, err := s.keys.Get(PrivateKeyName)
	if err != nil {
		return "", fmt.Errorf("reading private key: %w", err)
	}
	if len(priv) != ed25519.PrivateKeySize {
		return "", poc.ErrNoKey
	}

	sig := ed25519.Sign(ed25519.PrivateKey(priv), raw)
	return hex.EncodeToString(sig), nil
}

// PublicKey returns the device public key as hex.
func (s *Ed25519Signer) PublicKey() (string, error) {
	pub, err := s.keys.Get(PublicKeyName)
	if err != nil {
		return "", fmt.Errorf("reading public key: %w", err)
	}
	if len(pub) != ed25519.PublicKeySize {
		return "", poc.ErrNoKey
	}
	return hex.EncodeToString(pub), nil
}

// Verify reports whether signatureHex is a valid Ed25519 signature over
// the decoded digest bytes under publicKeyHex. Malformed input verifies
// as false.
func (s *Ed25519Signer) Verify(digestHex, signatureHex, publicKeyHex string) bool {
	raw, err := hex.DecodeString(digestHex)
	if err != nil {
		return false
	}
	sig, err := hex.DecodeString(signatureHex)
	if err != nil {
		return false
	}
	pub, err := hex.DecodeString(publicKeyHex)
	if err != nil || len(pub) != ed25519.PublicKeySize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(pub), raw, sig)
}
