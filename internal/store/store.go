// Package store holds uploaded blobs keyed by caller-supplied identifiers.
package store

import (
	"context"
	"errors"
	"fmt"
	"io"
)

var (
	// ErrInvalidID is returned when an operation is given an empty identifier.
	ErrInvalidID = errors.New("store: invalid id")

	// ErrKuzuUnavailable is returned by NewKuzuStore in builds without CGO.
	ErrKuzuUnavailable = errors.New("store: kuzu backend requires cgo")
)

// Store is a single slot-per-identifier blob store.
// Implementations: MemStore (default), KuzuStore (embedded KuzuDB, cgo only).
//
// Implementations must copy blobs on the way in and out, and must treat a
// stored zero-length blob as present.
type Store interface {
	io.Closer

	// Save stores data under id, replacing any previous value.
	Save(ctx context.Context, id string, data []byte) error

	// Find returns the blob stored under id. The boolean is false when no
	// blob is stored.
	Find(ctx context.Context, id string) ([]byte, bool, error)

	// Remove deletes the blob stored under id. Removing an absent id is not
	// an error.
	Remove(ctx context.Context, id string) error
}

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendKuzu   = "kuzu"
)

// Open returns a new, empty store for the named backend.
func Open(backend string) (Store, error) {
	switch backend {
	case "", BackendMemory:
		return NewMemStore(), nil
	case BackendKuzu:
		return NewKuzuStore()
	default:
		return nil, fmt.Errorf("store: unknown backend %q", backend)
	}
}

func checkID(id string) error {
	if id == "" {
		return ErrInvalidID
	}
	return nil
}

func cloneBytes(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
