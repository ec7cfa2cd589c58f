// Package fs provides real filesystem access for the verification core.
package fs

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"poc-go/internal/poc"
)

// videoExtensions lists the extensions classified as video media.
// Everything else classifies as image, the conservative default for
// watermarking.
var videoExtensions = map[string]bool{
	".mp4":  true,
	".mov":  true,
	".m4v":  true,
	".avi":  true,
	".mkv":  true,
	".webm": true,
	".3gp":  true,
}

// OSFilesystemManager is the real filesystem implementation of
// poc.FilesystemManager. It performs actual filesystem operations using
// the os package.
type OSFilesystemManager struct{}

var _ poc.FilesystemManager = (*OSFilesystemManager)(nil)

// NewOSFilesystemManager creates a new filesystem manager that operates on the real filesystem.
func NewOSFilesystemManager() *OSFilesystemManager {
	return &OSFilesystemManager{}
}

// Resolve validates a raw path and returns a Path object.
func (m *OSFilesystemManager) Resolve(rawPath string) (*poc.Path, error) {
	// Convert to absolute path
	absPath, err := filepath.Abs(rawPath)
	if err != nil {
		return nil, fmt.Errorf("resolving absolute path: %w", err)
	}

	// Stat the path
	info, err := os.Stat(absPath)
	if err != nil {
		return nil, fmt.Errorf("stat path: %w", err)
	}

	// Check for special file types we don't support
	mode := info.Mode()
	if mode&os.ModeSymlink != 0 {
		return nil, fmt.Errorf("symlinks not supported: %s", absPath)
	}
	if mode&os.ModeDevice != 0 {
		return nil, fmt.Errorf("device files not supported: %s", absPath)
	}
	if mode&os.ModeNamedPipe != 0 {
		return nil, fmt.Errorf("named pipes not supported: %s", absPath)
	}
	if mode&os.ModeSocket != 0 {
		return nil, fmt.Errorf("sockets not supported: %s", absPath)
	}

	return poc.NewPath(absPath, info.IsDir(), info), nil
}

// Open opens a file for reading.
func (m *OSFilesystemManager) Open(path *poc.Path) (io.ReadCloser, error) {
	if path.IsDir() {
		return nil, fmt.Errorf("cannot open directory as file: %s", path.String())
	}
	return os.Open(path.String())
}

// MediaKind classifies a file as image or video by its extension.
func (m *OSFilesystemManager) MediaKind(path *poc.Path) poc.MediaKind {
	ext := strings.ToLower(filepath.Ext(path.String()))
	if videoExtensions[ext] {
		return poc.MediaVideo
	}
	return poc.MediaImage
}
