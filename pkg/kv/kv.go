// Package kv provides the durable key-value storage used to persist layouts.
//
// Every backend implements [Store]. The layout store only ever reads and
// writes a single well-known key, so backends are optimised for simplicity
// over throughput.
//
// # Backends
//
//   - [Memory]: process-local map, used by tests and ephemeral views
//   - [File]: one JSON-wrapped file per key under a directory
//   - [Null]: discards writes, always misses
//   - [SQLite]: a single table in a SQLite database (pure Go driver)
//   - [Redis]: plain GET/SET against a Redis server
//   - [Mongo]: one document per key in a MongoDB collection
//
// [Open] picks a backend from a URL:
//
//	memory:
//	null:
//	file:///home/me/.local/share/topolayout
//	sqlite:///var/lib/topolayout/layouts.db
//	redis://localhost:6379/0
//	mongodb://localhost:27017/topolayout
//
// Any store can be namespaced with [WithPrefix].
package kv

import "context"

// Store is a minimal durable key-value store.
type Store interface {
	// Get returns the value for key. The bool reports whether the key exists.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key, replacing any previous value atomically.
	Set(ctx context.Context, key string, data []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the store.
	Close() error
}
