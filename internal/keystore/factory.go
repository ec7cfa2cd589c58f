package keystore

import (
	"fmt"

	"poc-go/internal/config"
	"poc-go/internal/poc"
)

// NewKeyStoreFromConfig creates a KeyStore implementation based on the
// keystore config type. passphrase unlocks encrypted entries in the file
// store and is ignored for the memory store.
func NewKeyStoreFromConfig(cfg config.KeyStoreConfig, passphrase string) (poc.KeyStore, error) {
	switch cfg.Type {
	case "memory":
		return NewMemoryKeyStore(), nil
	case "file":
		if cfg.Dir == "" {
			return nil, fmt.Errorf("file keystore requires dir to be set")
		}
		return NewFileKeyStore(cfg.Dir, passphrase), nil
	default:
		return nil, fmt.Errorf("unknown keystore type: %s", cfg.Type)
	}
}
