// Package testutil provides fakes and helpers shared by package tests.
package testutil

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"poc-go/internal/poc"
)

// MockFilesystemManager is an in-memory poc.FilesystemManager.
type MockFilesystemManager struct {
	mu    sync.Mutex
	files map[string][]byte
	// OpenErr, when set, makes Open fail for every file.
	OpenErr error
}

var _ poc.FilesystemManager = (*MockFilesystemManager)(nil)

// NewMockFilesystemManager creates an empty in-memory filesystem.
func NewMockFilesystemManager() *MockFilesystemManager {
	return &MockFilesystemManager{files: make(map[string][]byte)}
}

// AddFile registers a file with the given content.
func (m *MockFilesystemManager) AddFile(path string, content []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[path] = content
}

// Resolve returns a Path for a registered file.
func (m *MockFilesystemManager) Resolve(rawPath string) (*poc.Path, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	content, ok := m.files[rawPath]
	if !ok {
		return nil, fmt.Errorf("stat path: no such file: %s", rawPath)
	}
	info := fakeFileInfo{name: filepath.Base(rawPath), size: int64(len(content))}
	return poc.NewPath(rawPath, false, info), nil
}

// Open returns a reader over the registered content.
func (m *MockFilesystemManager) Open(path *poc.Path) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.OpenErr != nil {
		return nil, m.OpenErr
	}
	content, ok := m.files[path.String()]
	if !ok {
		return nil, fmt.Errorf("no such file: %s", path.String())
	}
	return io.NopCloser(bytes.NewReader(content)), nil
}

// MediaKind classifies by extension like the real manager.
func (m *MockFilesystemManager) MediaKind(path *poc.Path) poc.MediaKind {
	switch strings.ToLower(filepath.Ext(path.String())) {
	case ".mp4", ".mov", ".avi", ".mkv", ".webm":
		return poc.MediaVideo
	default:
		return poc.MediaImage
	}
}

type fakeFileInfo struct {
	name string
	size int64
}

func (f fakeFileInfo) Name() string       { return f.name }
func (f fakeFileInfo) Size() int64        { return f.size }
func (f fakeFileInfo) Mode() fs.FileMode  { return 0644 }
func (f fakeFileInfo) ModTime() time.Time { return time.Time{} }
func (f fakeFileInfo) IsDir() bool        { return false }
func (f fakeFileInfo) Sys() any           { return nil }

// FakeAnchorClient returns a scripted result for every Anchor call.
type FakeAnchorClient struct {
	Result *poc.AnchorResult
	Err    error
	Calls  int
}

var _ poc.AnchorClient = (*FakeAnchorClient)(nil)

func (c *FakeAnchorClient) Anchor(_ context.Context, _, _, _ string) (*poc.AnchorResult, error) {
	c.Calls++
	if c.Err != nil {
		return nil, c.Err
	}
	return c.Result, nil
}

// AnchorSuccess returns a client that anchors every digest.
func AnchorSuccess(tx string, block int64) *FakeAnchorClient {
	return &FakeAnchorClient{Result: &poc.AnchorResult{Outcome: poc.Anchored, TxRef: tx, BlockRef: block}}
}

// AnchorUnavailable returns a client whose gateway is down.
func AnchorUnavailable() *FakeAnchorClient {
	return &FakeAnchorClient{Result: &poc.AnchorResult{Outcome: poc.AnchorUnavailable, Detail: "gateway down"}}
}

// FakeAuthenticityClient returns a scripted result for every call.
type FakeAuthenticityClient struct {
	Result *poc.AuthenticityResult
	Err    error
}

var _ poc.AuthenticityClient = (*FakeAuthenticityClient)(nil)

func (c *FakeAuthenticityClient) DetectSynthetic(context.Context, []byte) (*poc.AuthenticityResult, error) {
	if c.Err != nil {
		return nil, c.Err
	}
	return c.Result, nil
}

// FakeOriginalityClient returns a scripted result for every call.
type FakeOriginalityClient struct {
	Result *poc.OriginalityResult
	Err    error
}

var _ poc.OriginalityClient = (*FakeOriginalityClient)(nil)

func (c *FakeOriginalityClient) CheckOriginality(context.Context, []byte) (*poc.OriginalityResult, error) {
	if c.Err != nil {
		return nil, c.Err
	}
	return c.Result, nil
}

// FakeSyncer records every synced record and can be forced to fail.
type FakeSyncer struct {
	mu     sync.Mutex
	Synced []string
	Err    error
}

var _ poc.Syncer = (*FakeSyncer)(nil)

func (s *FakeSyncer) SyncRecord(_ context.Context, record *poc.CaptureRecord, media io.Reader, _ int64) error {
	if s.Err != nil {
		return s.Err
	}
	if _, err := io.Copy(io.Discard, media); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Synced = append(s.Synced, record.ID)
	return nil
}

// RecordingObserver collects every step-list snapshot pushed by the
// pipeline, in order.
type RecordingObserver struct {
	mu        sync.Mutex
	Snapshots [][]poc.VerificationStep
}

var _ poc.ProgressObserver = (*RecordingObserver)(nil)

func (o *RecordingObserver) OnStep(steps []poc.VerificationStep) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.Snapshots = append(o.Snapshots, steps)
}

// Final returns the last snapshot, or nil if none was recorded.
func (o *RecordingObserver) Final() []poc.VerificationStep {
	o.mu.Lock()
	defer o.mu.Unlock()
	if len(o.Snapshots) == 0 {
		return nil
	}
	return o.Snapshots[len(o.Snapshots)-1]
}
