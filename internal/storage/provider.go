// Package storage confines session file operations to one directory.
package storage

// Provider is the interface for session file operations. All paths are
// relative to the provider root.
type Provider interface {
	// Create writes content to path, replacing any existing file.
	Create(path string, content []byte) error
	// Append adds content to the end of path and syncs it to disk
	// before returning. The file is created if missing.
	Append(path string, content []byte) error
	// Read returns the raw bytes of the file at path.
	Read(path string) ([]byte, error)
	// Exists reports whether a regular file exists at path.
	Exists(path string) bool
	// Abs returns the absolute location of path.
	Abs(path string) (string, error)
}
