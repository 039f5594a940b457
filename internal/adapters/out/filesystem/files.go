// Package filesystem implements file storage adapters on the local disk.
package filesystem

import (
	"bytes"
	"fmt"
	"os"

	"github.com/natefinch/atomic"

	"github.com/bnema/docker-local-proxy/internal/boundaries/out"
)

const (
	defaultFileMode os.FileMode = 0644
	defaultDirMode  os.FileMode = 0755
)

// Files implements out.FileStore. Writes go through a temporary file in the
// target directory followed by a rename.
type Files struct{}

var _ out.FileStore = (*Files)(nil)

// NewFiles creates a new file store.
func NewFiles() *Files {
	return &Files{}
}

// ReadFile returns the content of path.
func (f *Files) ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

// WriteFile atomically replaces path with data. An existing file keeps its
// permissions, a new file gets 0644.
func (f *Files) WriteFile(path string, data []byte) error {
	mode := defaultFileMode
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Chmod(path, mode); err != nil {
		return fmt.Errorf("failed to set permissions on %s: %w", path, err)
	}
	return nil
}

// EnsureDir creates path and its parents when missing.
func (f *Files) EnsureDir(path string) error {
	if err := os.MkdirAll(path, defaultDirMode); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", path, err)
	}
	return nil
}
