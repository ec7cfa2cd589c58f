// Package cloudsync uploads finished capture records and their media to
// a remote backend. Sync is best-effort: callers never fail a pipeline on
// a sync error.
package cloudsync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"poc-go/internal/poc"
)

// S3Syncer implements poc.Syncer against an S3 bucket.
// Records are stored under <prefix>/records/<id>.json and media content
// under <prefix>/media/<digest>. Media uploads are content-addressed by
// digest, so re-syncing the same capture is idempotent.
type S3Syncer struct {
	bucket   string
	prefix   string
	client   *s3.Client
	uploader *manager.Uploader
}

var _ poc.Syncer = (*S3Syncer)(nil)

// NewS3Syncer creates an S3 syncer for the given bucket. If accessKey is
// non-empty, static credentials are used; otherwise the default AWS
// credential chain applies.
func NewS3Syncer(ctx context.Context, bucket, prefix, region, accessKey, secretKey string) (*S3Syncer, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(region),
	}
	if accessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	client := s3.NewFromConfig(cfg)
	return &S3Syncer{
		bucket:   bucket,
		prefix:   prefix,
		client:   client,
		uploader: manager.NewUploader(client),
	}, nil
}

// SyncRecord uploads the record JSON and the media bytes.
func (s *S3Syncer) SyncRecord(ctx context.Context, record *poc.CaptureRecord, media io.Reader, size int64) error {
	doc, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encoding record: %w", err)
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key("records", record.ID+".json")),
		Body:        bytes.NewReader(doc),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("uploading record %s: %w", record.ID, err)
	}

	if record.Digest == "" {
		return nil // nothing to content-address the media under
	}

	// The uploader handles multipart for large video files.
	_, err = s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key("media", record.Digest)),
		Body:   media,
	})
	if err != nil {
		return fmt.Errorf("uploading media for %s: %w", record.ID, err)
	}

	return nil
}

func (s *S3Syncer) key(parts ...string) string {
	return path.Join(append([]string{s.prefix}, parts...)...)
}
