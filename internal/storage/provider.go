// Package storage defines the export destination file-system abstraction.
package storage

// Provider is the interface for output file operations. All paths are
// relative to the destination root.
type Provider interface {
	// Read returns the raw bytes of the file at path.
	Read(path string) ([]byte, error)
	// Write atomically writes content to path, creating parent directories.
	Write(path string, content []byte) error
	// Exists reports whether a regular file exists at path.
	Exists(path string) bool
}
