package cloudsync

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"poc-go/internal/poc"
)

// FileSystemSyncer implements poc.Syncer against a local directory tree,
// mirroring the S3 layout: <root>/records/<id>.json and
// <root>/media/<digest>. Useful for development and tests.
type FileSystemSyncer struct {
	root string
}

var _ poc.Syncer = (*FileSystemSyncer)(nil)

// NewFileSystemSyncer creates a syncer rooted at root.
func NewFileSystemSyncer(root string) (*FileSystemSyncer, error) {
	for _, sub := range []string{"records", "media"} {
		if err := os.MkdirAll(filepath.Join(root, sub), 0755); err != nil {
			return nil, fmt.Errorf("creating sync directory: %w", err)
		}
	}
	return &FileSystemSyncer{root: root}, nil
}

// SyncRecord writes the record JSON and copies the media bytes.
func (f *FileSystemSyncer) SyncRecord(_ context.Context, record *poc.CaptureRecord, media io.Reader, _ int64) error {
	doc, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding record: %w", err)
	}
	if err := os.WriteFile(filepath.Join(f.root, "records", record.ID+".json"), doc, 0644); err != nil {
		return fmt.Errorf("writing record %s: %w", record.ID, err)
	}

	if record.Digest == "" {
		return nil
	}

	dest, err := os.Create(filepath.Join(f.root, "media", record.Digest))
	if err != nil {
		return fmt.Errorf("creating media file: %w", err)
	}
	defer dest.Close()

	if _, err := io.Copy(dest, media); err != nil {
		return fmt.Errorf("copying media for %s: %w", record.ID, err)
	}
	return nil
}
