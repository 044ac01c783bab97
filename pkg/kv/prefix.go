package kv

import "context"

// Prefixed namespaces every key of an inner store.
//
// This lets several users or deployments share one Redis or Mongo instance:
//
//	shared, _ := kv.Open(ctx, "redis://cache:6379/0")
//	alice := kv.WithPrefix(shared, "user:alice:")
type Prefixed struct {
	inner  Store
	prefix string
}

// WithPrefix wraps inner so that all keys are prepended with prefix.
// An empty prefix returns inner unchanged.
func WithPrefix(inner Store, prefix string) Store {
	if prefix == "" {
		return inner
	}
	return &Prefixed{inner: inner, prefix: prefix}
}

// Get reads the prefixed key.
func (p *Prefixed) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return p.inner.Get(ctx, p.prefix+key)
}

// Set writes the prefixed key.
func (p *Prefixed) Set(ctx context.Context, key string, data []byte) error {
	return p.inner.Set(ctx, p.prefix+key, data)
}

// Delete removes the prefixed key.
func (p *Prefixed) Delete(ctx context.Context, key string) error {
	return p.inner.Delete(ctx, p.prefix+key)
}

// Close closes the inner store.
func (p *Prefixed) Close() error {
	return p.inner.Close()
}
