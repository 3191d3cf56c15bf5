package ownedkv_test

import (
	"path"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/neotest/chain"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/nspcc-dev/ownedkv-contract/common"
	"github.com/stretchr/testify/require"
)

const ownedKVPath = "../ownedkv"

func newExecutor(t *testing.T) *neotest.Executor {
	bc, acc := chain.NewSingle(t)
	return neotest.NewExecutor(t, bc, acc, acc)
}

func newOwnedKVInvoker(t *testing.T) *neotest.ContractInvoker {
	e := newExecutor(t)

	c := neotest.CompileFile(t, e.CommitteeHash, ownedKVPath, path.Join(ownedKVPath, "config.yml"))
	e.DeployContract(t, c, nil)

	return e.CommitteeInvoker(c.Hash)
}

func TestOwnedKV_Scenario(t *testing.T) {
	e := newOwnedKVInvoker(t)

	alice := e.WithSigners(e.NewAccount(t))
	bob := e.WithSigners(e.NewAccount(t))

	key := []byte("alice_id")

	alice.Invoke(t, true, "put", key, []byte("balance:10"))
	e.Invoke(t, stackitem.NewByteArray([]byte("balance:10")), "get", key)

	alice.Invoke(t, false, "put", key, []byte("balance:20"))
	e.Invoke(t, stackitem.NewByteArray([]byte("balance:10")), "get", key)

	bob.Invoke(t, false, "delete", key)
	e.Invoke(t, stackitem.NewByteArray([]byte("balance:10")), "get", key)

	alice.Invoke(t, true, "delete", key)
	e.Invoke(t, stackitem.Null{}, "get", key)
}

func TestOwnedKV_Put(t *testing.T) {
	e := newOwnedKVInvoker(t)

	aliceAcc := e.NewAccount(t)
	alice := e.WithSigners(aliceAcc)
	bob := e.WithSigners(e.NewAccount(t))

	key := []byte("key")

	h := alice.Invoke(t, true, "put", key, []byte("value"))
	e.CheckTxNotificationEvent(t, h, 0, state.NotificationEvent{
		ScriptHash: e.Hash,
		Name:       "Put",
		Item: stackitem.NewArray([]stackitem.Item{
			stackitem.NewByteArray(key),
			stackitem.NewByteArray(aliceAcc.ScriptHash().BytesBE()),
		}),
	})
	e.Invoke(t, stackitem.NewByteArray(aliceAcc.ScriptHash().BytesBE()), "owner", key)

	t.Run("no overwrite by other account", func(t *testing.T) {
		bob.Invoke(t, false, "put", key, []byte("other"))
		e.Invoke(t, stackitem.NewByteArray([]byte("value")), "get", key)
		e.Invoke(t, stackitem.NewByteArray(aliceAcc.ScriptHash().BytesBE()), "owner", key)
	})

	t.Run("too long key", func(t *testing.T) {
		long := make([]byte, common.MaxKeyLength+1)
		alice.Invoke(t, false, "put", long, []byte("value"))
	})

	t.Run("max key length", func(t *testing.T) {
		long := make([]byte, common.MaxKeyLength)
		alice.Invoke(t, true, "put", long, []byte("value"))
		e.Invoke(t, stackitem.NewByteArray([]byte("value")), "get", long)
	})

	t.Run("empty value", func(t *testing.T) {
		alice.Invoke(t, true, "put", []byte("empty"), []byte{})

		s, err := e.TestInvoke(t, "get", []byte("empty"))
		require.NoError(t, err)
		require.Equal(t, 1, s.Len())

		item := s.Pop().Item()
		require.NotEqual(t, stackitem.AnyT, item.Type(), "record must exist")

		v, err := item.TryBytes()
		require.NoError(t, err)
		require.Empty(t, v)
	})
}

func TestOwnedKV_Get(t *testing.T) {
	e := newOwnedKVInvoker(t)

	e.Invoke(t, stackitem.Null{}, "get", []byte("missing"))
	e.Invoke(t, stackitem.Null{}, "owner", []byte("missing"))
}

func TestOwnedKV_Delete(t *testing.T) {
	e := newOwnedKVInvoker(t)

	aliceAcc := e.NewAccount(t)
	alice := e.WithSigners(aliceAcc)
	bobAcc := e.NewAccount(t)
	bob := e.WithSigners(bobAcc)

	key := []byte("key")

	alice.Invoke(t, false, "delete", key)

	alice.Invoke(t, true, "put", key, []byte("value"))

	bob.Invoke(t, false, "delete", key)
	e.Invoke(t, stackitem.NewByteArray([]byte("value")), "get", key)

	h := alice.Invoke(t, true, "delete", key)
	e.CheckTxNotificationEvent(t, h, 0, state.NotificationEvent{
		ScriptHash: e.Hash,
		Name:       "Delete",
		Item: stackitem.NewArray([]stackitem.Item{
			stackitem.NewByteArray(key),
			stackitem.NewByteArray(aliceAcc.ScriptHash().BytesBE()),
		}),
	})
	e.Invoke(t, stackitem.Null{}, "get", key)
	e.Invoke(t, stackitem.Null{}, "owner", key)

	alice.Invoke(t, false, "delete", key)

	t.Run("key is reusable by any account", func(t *testing.T) {
		bob.Invoke(t, true, "put", key, []byte("bob's"))
		e.Invoke(t, stackitem.NewByteArray([]byte("bob's")), "get", key)
		e.Invoke(t, stackitem.NewByteArray(bobAcc.ScriptHash().BytesBE()), "owner", key)

		alice.Invoke(t, false, "delete", key)
		bob.Invoke(t, true, "delete", key)
	})
}

func TestOwnedKV_Invoke(t *testing.T) {
	e := newOwnedKVInvoker(t)

	alice := e.WithSigners(e.NewAccount(t))
	bob := e.WithSigners(e.NewAccount(t))

	key := []byte("alice_id")

	alice.Invoke(t, true, "invoke", "Put", []any{key, []byte("balance:10")})
	e.Invoke(t, stackitem.NewByteArray([]byte("balance:10")), "invoke", "Get", []any{key})
	alice.Invoke(t, false, "invoke", "Put", []any{key, []byte("balance:20")})
	bob.Invoke(t, false, "invoke", "Delete", []any{key})

	t.Run("unknown operation", func(t *testing.T) {
		alice.Invoke(t, false, "invoke", "Update", []any{key, []byte("balance:30")})
		alice.Invoke(t, false, "invoke", "put", []any{[]byte("other"), []byte("value")})
		e.Invoke(t, stackitem.NewByteArray([]byte("balance:10")), "get", key)
		e.Invoke(t, stackitem.Null{}, "get", []byte("other"))
	})

	t.Run("wrong number of arguments", func(t *testing.T) {
		alice.Invoke(t, false, "invoke", "Put", []any{[]byte("other")})
		alice.Invoke(t, false, "invoke", "Get", []any{})
		alice.Invoke(t, false, "invoke", "Delete", []any{key, key})
		e.Invoke(t, stackitem.Null{}, "get", []byte("other"))
	})

	t.Run("non-bytes arguments", func(t *testing.T) {
		alice.Invoke(t, false, "invoke", "Put", []any{[]byte("other"), []any{1}})
		alice.Invoke(t, false, "invoke", "Put", []any{int64(1), []byte("value")})
		alice.Invoke(t, false, "invoke", "Get", []any{[]any{1}})
		alice.Invoke(t, false, "invoke", "Get", []any{true})
		alice.Invoke(t, false, "invoke", "Delete", []any{nil})
		e.Invoke(t, stackitem.Null{}, "get", []byte("other"))
		e.Invoke(t, stackitem.NewByteArray([]byte("balance:10")), "get", key)
	})

	t.Run("string arguments", func(t *testing.T) {
		alice.Invoke(t, true, "invoke", "Put", []any{"str", "value"})
		e.Invoke(t, stackitem.NewByteArray([]byte("value")), "invoke", "Get", []any{"str"})
		alice.Invoke(t, true, "invoke", "Delete", []any{"str"})
	})

	alice.Invoke(t, true, "invoke", "Delete", []any{key})
	e.Invoke(t, stackitem.Null{}, "invoke", "Get", []any{key})
}

func TestOwnedKV_Update(t *testing.T) {
	e := newOwnedKVInvoker(t)

	notCommittee := e.WithSigners(e.NewAccount(t))
	notCommittee.InvokeFail(t, "only committee can update contract", "update",
		[]byte{}, []byte{}, nil)
}

func TestOwnedKV_Version(t *testing.T) {
	e := newOwnedKVInvoker(t)

	e.Invoke(t, common.Version, "version")
}

func TestOwnedKV_Hash(t *testing.T) {
	e := newExecutor(t)

	c := neotest.CompileFile(t, e.CommitteeHash, ownedKVPath, path.Join(ownedKVPath, "config.yml"))
	require.NotEqual(t, util.Uint160{}, c.Hash)
	require.Equal(t, "Owned KV", c.Manifest.Name)
}
