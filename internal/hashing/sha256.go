// Package hashing computes content digests of media files.
package hashing

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"

	"poc-go/internal/poc"
)

// SHA256Hasher implements poc.Hasher with streaming SHA-256.
// It hashes the exact bytes as stored on disk; callers must guarantee the
// file is not recompressed between capture and hashing.
type SHA256Hasher struct {
	fsmgr poc.FilesystemManager
}

var _ poc.Hasher = (*SHA256Hasher)(nil)

// NewSHA256Hasher creates a hasher that reads files through fsmgr.
func NewSHA256Hasher(fsmgr poc.FilesystemManager) *SHA256Hasher {
	return &SHA256Hasher{fsmgr: fsmgr}
}

// Hash reads the full file and returns its SHA-256 digest as a 64-character
// lowercase hex string. Returns poc.ErrUnreadable if the file cannot be
// read; there is no retry.
func (h *SHA256Hasher) Hash(path *poc.Path) (string, error) {
	f, err := h.fsmgr.Open(path)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", poc.ErrUnreadable, path.String(), err)
	}
	defer f.Close()

	digest := sha256.New()
	if _, err := io.Copy(digest, f); err != nil {
		return "", fmt.Errorf("%w: %s: %v", poc.ErrUnreadable, path.String(), err)
	}

	return hex.EncodeToString(digest.Sum(nil)), nil
}
