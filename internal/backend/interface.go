package backend

import (
	"context"

	"tirelire/internal/storage"
)

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// Result contains the blob store instance and optional cleanup function
type Result struct {
	Store   storage.BlobStore
	Cleanup CleanupFunc
}

// Factory creates blob stores based on configuration
type Factory interface {
	CreateStore(ctx context.Context, config Config) (*Result, error)
}

// Config holds configuration for blob store creation
type Config struct {
	Type Type

	// File specific
	DataDir string

	// SQLite specific
	SQLiteDBPath string
}

// Type represents the kind of blob store backing the document
type Type string

const (
	FileBackend   Type = "file"
	SQLiteBackend Type = "sqlite"
	MemoryBackend Type = "memory"
)

// String implements fmt.Stringer
func (t Type) String() string {
	return string(t)
}

// IsValid returns true if the backend type is valid
func (t Type) IsValid() bool {
	switch t {
	case FileBackend, SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
