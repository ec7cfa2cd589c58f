package cloudsync

import (
	"context"
	"fmt"
	"io"

	"poc-go/internal/config"
	"poc-go/internal/poc"
)

// NopSyncer discards everything. Used when cloud sync is disabled.
type NopSyncer struct{}

var _ poc.Syncer = (*NopSyncer)(nil)

func NewNopSyncer() *NopSyncer { return &NopSyncer{} }

func (*NopSyncer) SyncRecord(context.Context, *poc.CaptureRecord, io.Reader, int64) error {
	return nil
}

// NewSyncerFromConfig creates a Syncer implementation based on the
// cloudsync config type.
func NewSyncerFromConfig(ctx context.Context, cfg config.CloudSyncConfig) (poc.Syncer, error) {
	switch cfg.Type {
	case "", "none":
		return NewNopSyncer(), nil
	case "s3":
		if cfg.S3Bucket == "" {
			return nil, fmt.Errorf("s3 sync requires s3_bucket to be set")
		}
		return NewS3Syncer(ctx, cfg.S3Bucket, cfg.S3Prefix, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey)
	case "filesystem":
		if cfg.FSRoot == "" {
			return nil, fmt.Errorf("filesystem sync requires fs_root to be set")
		}
		return NewFileSystemSyncer(cfg.FSRoot)
	default:
		return nil, fmt.Errorf("unknown cloudsync type: %s", cfg.Type)
	}
}
