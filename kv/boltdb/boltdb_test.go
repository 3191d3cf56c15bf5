package boltdb

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/ownedkv-contract/kv"
	"github.com/stretchr/testify/require"
)

func TestBackend(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "kv.bolt")

	b, err := Open(path, Options{})
	require.NoError(t, err)

	_, err = b.Get(ctx, []byte("key"))
	require.ErrorIs(t, err, kv.ErrNotFound)

	require.NoError(t, b.Put(ctx, []byte("key"), []byte("value")))
	require.NoError(t, b.Put(ctx, []byte{}, []byte{}))

	v, err := b.Get(ctx, []byte("key"))
	require.NoError(t, err)
	require.Equal(t, []byte("value"), v)

	v, err = b.Get(ctx, []byte{})
	require.NoError(t, err)
	require.Empty(t, v)

	ok, err := b.PutIfAbsent(ctx, []byte("key"), []byte("other"))
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = b.PutIfAbsent(ctx, []byte("new"), []byte("other"))
	require.NoError(t, err)
	require.True(t, ok)

	v, err = b.Get(ctx, []byte("new"))
	require.NoError(t, err)
	require.Equal(t, []byte("other"), v)

	require.NoError(t, b.Close())

	t.Run("persistence", func(t *testing.T) {
		b, err := Open(path, Options{})
		require.NoError(t, err)
		t.Cleanup(func() { require.NoError(t, b.Close()) })

		v, err := b.Get(ctx, []byte("key"))
		require.NoError(t, err)
		require.Equal(t, []byte("value"), v)

		require.NoError(t, b.Delete(ctx, []byte("key")))
		require.NoError(t, b.Delete(ctx, []byte("key")))
		_, err = b.Get(ctx, []byte("key"))
		require.ErrorIs(t, err, kv.ErrNotFound)
	})
}

func TestStore(t *testing.T) {
	b, err := Open(filepath.Join(t.TempDir(), "kv.bolt"), Options{Bucket: "records"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })

	owner := util.Uint160{1}
	s := kv.New(b, kv.AuthorizerFunc(func(context.Context, util.Uint160) bool { return true }))

	require.NoError(t, s.Put(context.Background(), []byte("key"), []byte("value"), owner))
	require.ErrorIs(t, s.Put(context.Background(), []byte("key"), []byte("value"), owner), kv.ErrAlreadyExists)
	require.NoError(t, s.Delete(context.Background(), []byte("key"), owner))

	t.Run("large value", func(t *testing.T) {
		value := bytes.Repeat([]byte{0x5a}, 3<<20)

		require.NoError(t, s.Put(context.Background(), []byte("large"), value, owner))

		v, ok, err := s.Get(context.Background(), []byte("large"))
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, value, v)
	})

	t.Run("shared database", func(t *testing.T) {
		other := kv.New(b, kv.AuthorizerFunc(func(context.Context, util.Uint160) bool { return true }))

		require.NoError(t, other.Put(context.Background(), []byte("shared"), []byte("first"), util.Uint160{2}))
		require.ErrorIs(t, s.Put(context.Background(), []byte("shared"), []byte("second"), owner), kv.ErrAlreadyExists)

		o, ok, err := s.Owner(context.Background(), []byte("shared"))
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, util.Uint160{2}, o)
	})
}
