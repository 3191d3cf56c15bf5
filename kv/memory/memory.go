// Package memory provides in-process kv.Backend.
package memory

import (
	"context"
	"sync"

	"github.com/nspcc-dev/ownedkv-contract/kv"
)

// Backend keeps values in a map. It's safe for concurrent use.
type Backend struct {
	mtx    sync.RWMutex
	values map[string][]byte
}

// Ensure Backend implements kv.Backend and kv.Inserter interfaces.
var (
	_ kv.Backend  = (*Backend)(nil)
	_ kv.Inserter = (*Backend)(nil)
)

// New returns empty Backend.
func New() *Backend {
	return &Backend{values: make(map[string][]byte)}
}

// Put implements kv.Backend.
func (b *Backend) Put(_ context.Context, key, value []byte) error {
	b.mtx.Lock()
	b.values[string(key)] = append([]byte{}, value...)
	b.mtx.Unlock()
	return nil
}

// PutIfAbsent implements kv.Inserter.
func (b *Backend) PutIfAbsent(_ context.Context, key, value []byte) (bool, error) {
	b.mtx.Lock()
	defer b.mtx.Unlock()

	if _, ok := b.values[string(key)]; ok {
		return false, nil
	}

	b.values[string(key)] = append([]byte{}, value...)
	return true, nil
}

// Get implements kv.Backend.
func (b *Backend) Get(_ context.Context, key []byte) ([]byte, error) {
	b.mtx.RLock()
	defer b.mtx.RUnlock()

	v, ok := b.values[string(key)]
	if !ok {
		return nil, kv.ErrNotFound
	}

	return append([]byte{}, v...), nil
}

// Delete implements kv.Backend.
func (b *Backend) Delete(_ context.Context, key []byte) error {
	b.mtx.Lock()
	delete(b.values, string(key))
	b.mtx.Unlock()
	return nil
}

// Len returns the number of stored values.
func (b *Backend) Len() int {
	b.mtx.RLock()
	defer b.mtx.RUnlock()
	return len(b.values)
}
