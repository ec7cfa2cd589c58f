package poc

// KeyStore provides access-controlled storage for the device key pair.
// Used only by the Signer. Known names: "signing_key" (private key,
// encrypted at rest), "public_key" (plaintext).
type KeyStore interface {
	// Get returns the named key material, or nil if it has never been set.
	Get(name string) ([]byte, error)

	// Set stores the named key material, replacing any previous value.
	Set(name string, data []byte) error
}
