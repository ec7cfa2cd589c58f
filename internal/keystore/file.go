// Package keystore provides the secure store for the device key pair.
package keystore

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"filippo.io/age"

	"poc-go/internal/poc"
)

// FileKeyStore implements poc.KeyStore on the local filesystem.
// Every entry except "public_key" is encrypted at rest with the user's
// passphrase using age's scrypt-based passphrase encryption. The public
// key is stored in plaintext so it can be read without unlocking.
type FileKeyStore struct {
	dir        string
	passphrase string
}

var _ poc.KeyStore = (*FileKeyStore)(nil)

// NewFileKeyStore creates a key store rooted at dir. The passphrase is
// required only for operations touching encrypted entries; pass "" when
// only plaintext entries will be read.
func NewFileKeyStore(dir, passphrase string) *FileKeyStore {
	return &FileKeyStore{dir: dir, passphrase: passphrase}
}

// plaintext reports whether the named entry is stored unencrypted.
func plaintext(name string) bool {
	return name == "public_key"
}

// Get returns the named key material, or nil if it has never been set.
// For encrypted entries, returns an error if the passphrase is wrong.
func (k *FileKeyStore) Get(name string) ([]byte, error) {
	data, err := os.ReadFile(k.entryPath(name))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading key %s: %w", name, err)
	}

	if plaintext(name) {
		return data, nil
	}

	identity, err := age.NewScryptIdentity(k.passphrase)
	if err != nil {
		return nil, fmt.Errorf("creating scrypt identity: %w", err)
	}

	r, err := age.Decrypt(bytes.NewReader(data), identity)
	if err != nil {
		return nil, fmt.Errorf("decrypting key %s: %w", name, err)
	}

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading decrypted key %s: %w", name, err)
	}
	return out, nil
}

// Set stores the named key material, replacing any previous value.
func (k *FileKeyStore) Set(name string, data []byte) error {
	if err := os.MkdirAll(k.dir, 0700); err != nil {
		return fmt.Errorf("creating key directory: %w", err)
	}

	if plaintext(name) {
		if err := os.WriteFile(k.entryPath(name), data, 0644); err != nil {
			return fmt.Errorf("writing key %s: %w", name, err)
		}
		return nil
	}

	recipient, err := age.NewScryptRecipient(k.passphrase)
	if err != nil {
		return fmt.Errorf("creating scrypt recipient: %w", err)
	}

	f, err := os.OpenFile(k.entryPath(name), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("creating key file: %w", err)
	}
	defer f.Close()

	w, err := age.Encrypt(f, recipient)
	if err != nil {
		return fmt.Errorf("creating encrypted writer: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing encrypted key %s: %w", name, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("finalizing encrypted key %s: %w", name, err)
	}
	return nil
}

func (k *FileKeyStore) entryPath(name string) string {
	return filepath.Join(k.dir, name)
}
