package kv

import "context"

// Backend is a raw key-value storage records are kept in. Implementations
// must be safe for concurrent use.
type Backend interface {
	// Put stores value by key replacing the previous one.
	Put(ctx context.Context, key, value []byte) error
	// Get returns value stored by key or ErrNotFound.
	Get(ctx context.Context, key []byte) ([]byte, error)
	// Delete removes value stored by key. Missing keys are not an error.
	Delete(ctx context.Context, key []byte) error
}

// Inserter is an optional Backend capability to create a value atomically
// within the storage itself. Store uses it to keep first-writer-wins across
// several Store instances sharing the same storage.
type Inserter interface {
	// PutIfAbsent stores value by key only if there is no value yet. It
	// returns false if the key is already taken.
	PutIfAbsent(ctx context.Context, key, value []byte) (bool, error)
}
