// Package storage defines the vault file-system abstraction.
package storage

// Provider is the interface for vault file operations. All paths are
// relative to the provider's root.
type Provider interface {
	// List returns the relative paths of every .md file under dir.
	List(dir string) ([]string, error)
	// Read returns the raw bytes of the file at path.
	Read(path string) ([]byte, error)
	// Write atomically writes content to path, creating parent directories.
	Write(path string, content []byte) error
}
