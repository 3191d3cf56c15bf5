// Package redis provides kv.Backend keeping values in Redis.
package redis

import (
	"context"
	"errors"

	"github.com/nspcc-dev/ownedkv-contract/kv"
	"github.com/redis/go-redis/v9"
)

// DefaultPrefix is prepended to every key stored in Redis.
const DefaultPrefix = "ownedkv:"

// Config groups parameters of the Redis connection.
type Config struct {
	Addr     string // Redis address (e.g., "localhost:6379")
	Password string // Redis password (empty for no auth)
	DB       int    // Redis database number
	Prefix   string // key prefix (default: DefaultPrefix)
}

// Backend keeps values in Redis under prefixed keys.
type Backend struct {
	client *redis.Client
	prefix string
}

// Ensure Backend implements kv.Backend and kv.Inserter interfaces.
var (
	_ kv.Backend  = (*Backend)(nil)
	_ kv.Inserter = (*Backend)(nil)
)

// New creates Redis-backed Backend. Connection is established lazily.
func New(cfg Config) *Backend {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	prefix := cfg.Prefix
	if prefix == "" {
		prefix = DefaultPrefix
	}

	return &Backend{
		client: client,
		prefix: prefix,
	}
}

func (b *Backend) key(key []byte) string {
	return b.prefix + string(key)
}

// Put implements kv.Backend.
func (b *Backend) Put(ctx context.Context, key, value []byte) error {
	return b.client.Set(ctx, b.key(key), value, 0).Err()
}

// PutIfAbsent implements kv.Inserter with SETNX, so first-writer-wins holds
// for all clients of the Redis instance.
func (b *Backend) PutIfAbsent(ctx context.Context, key, value []byte) (bool, error) {
	return b.client.SetNX(ctx, b.key(key), value, 0).Result()
}

// Get implements kv.Backend.
func (b *Backend) Get(ctx context.Context, key []byte) ([]byte, error) {
	v, err := b.client.Get(ctx, b.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, kv.ErrNotFound
		}
		return nil, err
	}

	return v, nil
}

// Delete implements kv.Backend.
func (b *Backend) Delete(ctx context.Context, key []byte) error {
	return b.client.Del(ctx, b.key(key)).Err()
}

// Ping checks the connection to Redis.
func (b *Backend) Ping(ctx context.Context) error {
	return b.client.Ping(ctx).Err()
}

// Clear removes all keys with the backend prefix.
func (b *Backend) Clear(ctx context.Context) error {
	iter := b.client.Scan(ctx, 0, b.prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := b.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}

	return iter.Err()
}

// Close closes the connection.
func (b *Backend) Close() error {
	return b.client.Close()
}
