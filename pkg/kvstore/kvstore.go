// Package kvstore provides partitioned key-value document storage with
// flat-file and Azure Blob Storage implementations. Each record is a
// single JSON document addressed by (partition, key).
package kvstore

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/inkwell-labs/inkwell/pkg/lifecycle"
)

// Record is one stored document and its key within a partition.
type Record struct {
	Key  string
	Data []byte
}

// System manages partitioned document storage and lifecycle coordination.
type System interface {
	// Start registers a startup hook that prepares the backing store.
	Start(lc *lifecycle.Coordinator) error
	// List returns every record in a partition in enumeration order.
	// A missing or empty partition yields an empty slice, not an error.
	List(ctx context.Context, partition string) ([]Record, error)
	// Get returns the document at the given key.
	// Returns ErrNotFound if no document exists.
	Get(ctx context.Context, partition, key string) ([]byte, error)
	// Put writes the document at the given key, replacing any existing document.
	Put(ctx context.Context, partition, key string, data []byte) error
	// Delete removes the document at the given key.
	// Returns ErrNotFound if no document exists.
	Delete(ctx context.Context, partition, key string) error
	// Exists reports whether a document exists at the given key.
	Exists(ctx context.Context, partition, key string) (bool, error)
}

// New creates a storage system for the configured backend.
func New(cfg *Config, logger *slog.Logger) (System, error) {
	switch cfg.Backend {
	case BackendFile:
		return newFileStore(cfg, logger), nil
	case BackendAzure:
		return newBlobStore(cfg, logger)
	default:
		return nil, fmt.Errorf("unknown store backend: %s", cfg.Backend)
	}
}

func validateKey(key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if strings.Contains(key, "..") || strings.ContainsAny(key, "/\\") {
		return ErrInvalidKey
	}
	return nil
}

func validatePartition(partition string) error {
	if partition == "" {
		return ErrEmptyPartition
	}
	if strings.Contains(partition, "..") || strings.ContainsAny(partition, "/\\") {
		return ErrInvalidKey
	}
	return nil
}
