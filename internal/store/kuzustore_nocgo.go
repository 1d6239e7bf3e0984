//go:build !cgo

package store

// NewKuzuStore reports ErrKuzuUnavailable: the KuzuDB driver needs CGO.
func NewKuzuStore() (Store, error) {
	return nil, ErrKuzuUnavailable
}
