package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned by Backend.Get when a key holds no value.
var ErrNotFound = errors.New("store: key not found")

// Backend is a durable key-value slot store.
type Backend interface {
	// Get returns the payload stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put replaces the payload stored under key.
	Put(ctx context.Context, key string, value []byte) error

	// Close releases the backend's resources.
	Close() error
}

// Backend kinds accepted by OpenBackend.
const (
	KindSQLite = "sqlite"
	KindBolt   = "bolt"
	KindMemory = "memory"
)

// ValidKinds lists the backend kinds in display order.
var ValidKinds = []string{KindSQLite, KindBolt, KindMemory}

// OpenBackend opens the backend of the given kind at path.
// path is ignored for the memory backend.
func OpenBackend(kind, path string) (Backend, error) {
	switch strings.ToLower(kind) {
	case KindSQLite, "":
		return Open(path)
	case KindBolt:
		return OpenBolt(path)
	case KindMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown backend %q: must be one of %v", kind, ValidKinds)
	}
}
