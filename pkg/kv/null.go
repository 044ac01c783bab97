package kv

import "context"

// Null is a store that never keeps anything.
// Views backed by it start fresh every time.
type Null struct{}

// NewNull creates a null store.
func NewNull() Null { return Null{} }

// Get always misses.
func (Null) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

// Set does nothing.
func (Null) Set(context.Context, string, []byte) error { return nil }

// Delete does nothing.
func (Null) Delete(context.Context, string) error { return nil }

// Close does nothing.
func (Null) Close() error { return nil }

var _ Store = Null{}
