// Package session stores the CLI's login session as key/value pairs in the
// local SQLite database, so a token survives between runs.
package session

import (
	"context"
)

// Repository is a small key/value store. Get returns (nil, nil) for a
// missing key.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
