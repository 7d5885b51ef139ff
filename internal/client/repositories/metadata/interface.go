// Package metadata is the persisted-state store: a flat key → bytes map
// holding the session record and the catalog. Two backends exist, SQLite
// (default) and one-file-per-key on disk.
package metadata

import (
	"context"
	"errors"
)

var ErrInvalidKey = errors.New("invalid metadata key")

// Repository is a durable key/value store. Get returns (nil, nil) for a
// missing key. Every Set replaces the whole value atomically.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error

	// Update reads key, passes the current value (nil if missing) to fn and
	// stores what fn returns, all as one unit. If fn fails nothing is
	// written and its error is returned unchanged.
	Update(ctx context.Context, key string, fn func(current []byte) ([]byte, error)) error
}
