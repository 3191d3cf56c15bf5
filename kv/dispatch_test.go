package kv_test

import (
	"context"
	"testing"

	"github.com/nspcc-dev/ownedkv-contract/kv"
	"github.com/stretchr/testify/require"
)

func TestInvoke_Scenario(t *testing.T) {
	s := newStore(t)
	key := []byte("alice_id")

	require.Equal(t, true, s.Invoke(as(alice), kv.OpPut, []any{key, []byte("balance:10")}))
	require.Equal(t, []byte("balance:10"), s.Invoke(as(bob), kv.OpGet, []any{key}))
	require.Equal(t, false, s.Invoke(as(alice), kv.OpPut, []any{key, []byte("balance:20")}))
	require.Equal(t, false, s.Invoke(as(bob), kv.OpDelete, []any{key}))
	require.Equal(t, true, s.Invoke(as(alice), kv.OpDelete, []any{key}))
	require.Nil(t, s.Invoke(as(alice), kv.OpGet, []any{key}))
}

func TestInvoke_UnknownOperation(t *testing.T) {
	s := newStore(t)
	key := []byte("key")

	require.Equal(t, true, s.Invoke(as(alice), kv.OpPut, []any{key, "value"}))

	for _, op := range []string{"Update", "put", "", "GET"} {
		require.Equal(t, false, s.Invoke(as(alice), op, []any{key, []byte("other")}), op)
	}

	requireValue(t, s, key, []byte("value"))
}

func TestInvoke_InvalidArguments(t *testing.T) {
	s := newStore(t)

	require.Equal(t, false, s.Invoke(as(alice), kv.OpPut, []any{"key"}))
	require.Equal(t, false, s.Invoke(as(alice), kv.OpPut, []any{"key", 42}))
	require.Equal(t, false, s.Invoke(as(alice), kv.OpGet, nil))
	require.Equal(t, false, s.Invoke(as(alice), kv.OpGet, []any{"key", "key"}))
	require.Equal(t, false, s.Invoke(as(alice), kv.OpDelete, []any{3.14}))
	requireAbsent(t, s, []byte("key"))

	t.Run("no caller", func(t *testing.T) {
		ctx := context.Background()
		require.Equal(t, false, s.Invoke(ctx, kv.OpPut, []any{"key", "value"}))
		requireAbsent(t, s, []byte("key"))

		require.Equal(t, true, s.Invoke(as(alice), kv.OpPut, []any{"key", "value"}))
		require.Equal(t, false, s.Invoke(ctx, kv.OpDelete, []any{"key"}))
		requireValue(t, s, []byte("key"), []byte("value"))
	})
}
