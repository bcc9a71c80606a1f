package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// FS implements Provider backed by the local file system.
type FS struct {
	root string // absolute path to the destination directory
}

// NewFS creates a new FS provider rooted at the given directory, creating it
// if necessary.
func NewFS(root string) (*FS, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create root: %w", err)
	}
	return &FS{root: abs}, nil
}

// Root returns the absolute destination directory.
func (f *FS) Root() string {
	return f.root
}

// safePath resolves a relative path against the destination root. The
// component is cleaned against a virtual root first, so leading ".."
// sequences are stripped and the result can never escape the root.
func (f *FS) safePath(rel string) string {
	cleaned := filepath.Clean(string(os.PathSeparator) + filepath.FromSlash(rel))
	return filepath.Join(f.root, cleaned)
}

// Read returns the raw bytes of an output file.
func (f *FS) Read(path string) ([]byte, error) {
	data, err := os.ReadFile(f.safePath(path))
	if err != nil {
		return nil, fmt.Errorf("storage: read %s: %w", path, err)
	}
	return data, nil
}

// Exists reports whether a regular file exists at path.
func (f *FS) Exists(path string) bool {
	info, err := os.Stat(f.safePath(path))
	return err == nil && info.Mode().IsRegular()
}

// Write stages content to a temp file in the target directory, fsyncs it and
// renames it into place. Failed writes leave no partial file behind.
func (f *FS) Write(path string, content []byte) error {
	abs := f.safePath(path)
	dir := filepath.Dir(abs)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("storage: mkdir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".notion-exporter-tmp-*")
	if err != nil {
		return fmt.Errorf("storage: create temp: %w", err)
	}
	tmpName := tmp.Name()

	// Clean up on any failure path.
	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		return fmt.Errorf("storage: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("storage: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("storage: close temp: %w", err)
	}
	if err := os.Rename(tmpName, abs); err != nil {
		return fmt.Errorf("storage: rename: %w", err)
	}
	success = true
	return nil
}
