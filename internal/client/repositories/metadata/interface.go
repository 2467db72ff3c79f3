// Package metadata implements a small key/value repository on the client
// database, used for durable client state such as the session credential.
package metadata

import "context"

// Repository reads and writes opaque byte values under string keys.
// Get returns (nil, nil) when the key is absent.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}
