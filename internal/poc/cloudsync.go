package poc

import (
	"context"
	"io"
)

// Syncer uploads a finished capture record and its media bytes to a
// remote backend. Sync is best-effort: a failure never changes the
// record's lifecycle status, only the step detail shown to the user.
type Syncer interface {
	// SyncRecord uploads the record (keyed by id) and the media content
	// (keyed by digest). size is the number of bytes readable from media.
	SyncRecord(ctx context.Context, record *CaptureRecord, media io.Reader, size int64) error
}
