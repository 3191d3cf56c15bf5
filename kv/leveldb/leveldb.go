// Package leveldb provides kv.Backend persisting values in LevelDB.
package leveldb

import (
	"context"
	"errors"
	"fmt"

	"github.com/nspcc-dev/ownedkv-contract/kv"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
)

// Backend keeps values in LevelDB database. Writes are synced to disk.
type Backend struct {
	db *leveldb.DB
}

// Ensure Backend implements kv.Backend and kv.Inserter interfaces.
var (
	_ kv.Backend  = (*Backend)(nil)
	_ kv.Inserter = (*Backend)(nil)
)

// Open opens or creates database in the given directory.
func Open(path string) (*Backend, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("open leveldb: %w", err)
	}

	return &Backend{db: db}, nil
}

// Close closes the underlying database.
func (b *Backend) Close() error {
	return b.db.Close()
}

// Put implements kv.Backend.
func (b *Backend) Put(_ context.Context, key, value []byte) error {
	return b.db.Put(key, value, &opt.WriteOptions{Sync: true})
}

// PutIfAbsent implements kv.Inserter. LevelDB transaction blocks other writes
// until committed or discarded.
func (b *Backend) PutIfAbsent(_ context.Context, key, value []byte) (bool, error) {
	tx, err := b.db.OpenTransaction()
	if err != nil {
		return false, fmt.Errorf("open transaction: %w", err)
	}

	ok, err := tx.Has(key, nil)
	if err != nil || ok {
		tx.Discard()
		return false, err
	}

	err = tx.Put(key, value, &opt.WriteOptions{Sync: true})
	if err != nil {
		tx.Discard()
		return false, err
	}

	err = tx.Commit()
	if err != nil {
		return false, fmt.Errorf("commit transaction: %w", err)
	}

	return true, nil
}

// Get implements kv.Backend.
func (b *Backend) Get(_ context.Context, key []byte) ([]byte, error) {
	v, err := b.db.Get(key, nil)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return nil, kv.ErrNotFound
		}
		return nil, err
	}

	return v, nil
}

// Delete implements kv.Backend.
func (b *Backend) Delete(_ context.Context, key []byte) error {
	return b.db.Delete(key, &opt.WriteOptions{Sync: true})
}
