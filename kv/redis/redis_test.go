package redis

import (
	"context"
	"os"
	"testing"

	"github.com/nspcc-dev/ownedkv-contract/kv"
	"github.com/stretchr/testify/require"
)

// TestBackend requires a Redis instance, its address is taken from
// OWNEDKV_TEST_REDIS (localhost:6379 by default). Skip with: go test -short
func TestBackend(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping Redis integration test")
	}

	addr := os.Getenv("OWNEDKV_TEST_REDIS")
	if addr == "" {
		addr = "localhost:6379"
	}

	ctx := context.Background()
	b := New(Config{
		Addr:   addr,
		DB:     15, // Use separate DB for tests
		Prefix: "ownedkv-test:",
	})
	t.Cleanup(func() { _ = b.Close() })

	if err := b.Ping(ctx); err != nil {
		t.Skip("Redis not available:", err)
	}

	require.NoError(t, b.Clear(ctx))
	t.Cleanup(func() { _ = b.Clear(ctx) })

	_, err := b.Get(ctx, []byte("key"))
	require.ErrorIs(t, err, kv.ErrNotFound)

	require.NoError(t, b.Put(ctx, []byte("key"), []byte("value")))

	v, err := b.Get(ctx, []byte("key"))
	require.NoError(t, err)
	require.Equal(t, []byte("value"), v)

	require.NoError(t, b.Delete(ctx, []byte("key")))
	_, err = b.Get(ctx, []byte("key"))
	require.ErrorIs(t, err, kv.ErrNotFound)

	t.Run("put if absent", func(t *testing.T) {
		ok, err := b.PutIfAbsent(ctx, []byte("nx"), []byte("first"))
		require.NoError(t, err)
		require.True(t, ok)

		// another client of the same instance loses
		other := New(Config{Addr: addr, DB: 15, Prefix: "ownedkv-test:"})
		t.Cleanup(func() { _ = other.Close() })

		ok, err = other.PutIfAbsent(ctx, []byte("nx"), []byte("second"))
		require.NoError(t, err)
		require.False(t, ok)

		v, err := b.Get(ctx, []byte("nx"))
		require.NoError(t, err)
		require.Equal(t, []byte("first"), v)
	})
}

func TestKeyPrefix(t *testing.T) {
	b := New(Config{Addr: "localhost:0"})
	t.Cleanup(func() { _ = b.Close() })
	require.Equal(t, DefaultPrefix+"key", b.key([]byte("key")))

	b = New(Config{Addr: "localhost:0", Prefix: "p:"})
	t.Cleanup(func() { _ = b.Close() })
	require.Equal(t, "p:key", b.key([]byte("key")))
}
