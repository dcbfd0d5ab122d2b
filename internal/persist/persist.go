// Package persist stores opaque session snapshots by key. The Store owns the
// snapshot format; backends only move bytes.
package persist

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Load when nothing has been saved under the key.
var ErrNotFound = errors.New("persist: not found")

type Persister interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
}
