package poc

import "errors"

// ErrUnreadable is returned by Hasher implementations when the referenced
// file cannot be read. There is no retry; the caller decides.
var ErrUnreadable = errors.New("media file unreadable")

// Hasher computes a stable content digest of a media file's raw bytes.
// The digest is SHA-256, hex-encoded lowercase, always 64 characters.
// Implementations must hash the exact bytes as stored — any transcoding
// before hashing invalidates later verification.
type Hasher interface {
	// Hash reads the full raw bytes of the file and returns its digest.
	// Deterministic: identical bytes always yield the identical digest.
	Hash(path *Path) (string, error)
}
