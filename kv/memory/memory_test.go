package memory

import (
	"context"
	"testing"

	"github.com/nspcc-dev/ownedkv-contract/kv"
	"github.com/stretchr/testify/require"
)

func TestBackend(t *testing.T) {
	ctx := context.Background()
	b := New()

	_, err := b.Get(ctx, []byte("key"))
	require.ErrorIs(t, err, kv.ErrNotFound)

	value := []byte("value")
	require.NoError(t, b.Put(ctx, []byte("key"), value))
	require.Equal(t, 1, b.Len())

	// stored value must not alias the caller's slice
	value[0] = 'V'

	v, err := b.Get(ctx, []byte("key"))
	require.NoError(t, err)
	require.Equal(t, []byte("value"), v)

	v[0] = 'V'
	v, err = b.Get(ctx, []byte("key"))
	require.NoError(t, err)
	require.Equal(t, []byte("value"), v)

	require.NoError(t, b.Put(ctx, []byte{}, []byte{}))
	v, err = b.Get(ctx, []byte{})
	require.NoError(t, err)
	require.Empty(t, v)

	ok, err := b.PutIfAbsent(ctx, []byte("key"), []byte("other"))
	require.NoError(t, err)
	require.False(t, ok)

	v, err = b.Get(ctx, []byte("key"))
	require.NoError(t, err)
	require.Equal(t, []byte("value"), v)

	require.NoError(t, b.Delete(ctx, []byte("key")))
	require.NoError(t, b.Delete(ctx, []byte("key")))

	ok, err = b.PutIfAbsent(ctx, []byte("key"), []byte("other"))
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, b.Delete(ctx, []byte("key")))
	_, err = b.Get(ctx, []byte("key"))
	require.ErrorIs(t, err, kv.ErrNotFound)
	require.Equal(t, 1, b.Len())
}
