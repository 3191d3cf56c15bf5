// Package boltdb provides kv.Backend persisting values in a bbolt file.
package boltdb

import (
	"context"
	"fmt"
	"time"

	"github.com/nspcc-dev/ownedkv-contract/kv"
	bolt "go.etcd.io/bbolt"
)

// DefaultBucket is the name of the bucket values are stored in.
const DefaultBucket = "ownedkv"

// Options groups optional parameters of Open.
type Options struct {
	// Bucket is the name of the Bolt bucket to use.
	Bucket string
	// Timeout is the amount of time to wait to obtain a file lock.
	// Defaults to 1 second.
	Timeout time.Duration
}

// Backend keeps values in a single bucket of bbolt database. It's safe for
// concurrent use.
type Backend struct {
	db     *bolt.DB
	bucket []byte
}

// Ensure Backend implements kv.Backend and kv.Inserter interfaces.
var (
	_ kv.Backend  = (*Backend)(nil)
	_ kv.Inserter = (*Backend)(nil)
)

// Open opens or creates database file at the given path.
func Open(path string, opts Options) (*Backend, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = time.Second
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: opts.Timeout})
	if err != nil {
		return nil, fmt.Errorf("open bolt database: %w", err)
	}

	bucket := []byte(DefaultBucket)
	if opts.Bucket != "" {
		bucket = []byte(opts.Bucket)
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucket)
		return err
	}); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create bucket: %w", err)
	}

	return &Backend{db: db, bucket: bucket}, nil
}

// Close closes the underlying database.
func (b *Backend) Close() error {
	return b.db.Close()
}

// Put implements kv.Backend. Bolt doesn't accept empty keys, so every key is
// stored with a leading zero byte.
func (b *Backend) Put(_ context.Context, key, value []byte) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(b.bucket).Put(boltKey(key), value)
	})
}

// PutIfAbsent implements kv.Inserter. The check and the write are done in
// one read-write transaction.
func (b *Backend) PutIfAbsent(_ context.Context, key, value []byte) (bool, error) {
	var created bool

	err := b.db.Update(func(tx *bolt.Tx) error {
		bkt := tx.Bucket(b.bucket)
		k := boltKey(key)

		if bkt.Get(k) != nil {
			return nil
		}

		created = true
		return bkt.Put(k, value)
	})

	return created && err == nil, err
}

// Get implements kv.Backend.
func (b *Backend) Get(_ context.Context, key []byte) ([]byte, error) {
	var out []byte

	err := b.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(b.bucket).Get(boltKey(key))
		if v == nil {
			return kv.ErrNotFound
		}

		// v is valid only for the transaction lifetime
		out = append([]byte{}, v...)
		return nil
	})

	return out, err
}

// Delete implements kv.Backend.
func (b *Backend) Delete(_ context.Context, key []byte) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(b.bucket).Delete(boltKey(key))
	})
}

func boltKey(key []byte) []byte {
	return append([]byte{0}, key...)
}
