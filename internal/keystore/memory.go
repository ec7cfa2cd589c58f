package keystore

import (
	"sync"

	"poc-go/internal/poc"
)

// MemoryKeyStore is an in-memory implementation of poc.KeyStore.
// Useful for testing. Safe for concurrent use.
type MemoryKeyStore struct {
	mu   sync.RWMutex
	keys map[string][]byte
}

var _ poc.KeyStore = (*MemoryKeyStore)(nil)

// NewMemoryKeyStore creates an empty in-memory key store.
func NewMemoryKeyStore() *MemoryKeyStore {
	return &MemoryKeyStore{keys: make(map[string][]byte)}
}

// Get returns the named key material, or nil if it has never been set.
func (k *MemoryKeyStore) Get(name string) ([]byte, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()

	data, ok := k.keys[name]
	if !ok {
		return nil, nil
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// Set stores the named key material, replacing any previous value.
func (k *MemoryKeyStore) Set(name string, data []byte) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	stored := make([]byte, len(data))
	copy(stored, data)
	k.keys[name] = stored
	return nil
}
