// Package metadata is the client's durable key/value storage. The session
// store and the API client share it through the keys in internal/common.
package metadata

import (
	"context"
)

// Repository is a string-keyed store of opaque values.
//
// Get returns (nil, nil) for a missing key. SetMany and DeleteMany apply all
// keys or none. Deleting a missing key is not an error.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetMany(ctx context.Context, values map[string][]byte) error
	DeleteMany(ctx context.Context, keys ...string) error
}
