package ownedkv

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
	"github.com/nspcc-dev/ownedkv-contract/common"
)

const (
	valuePrefix = 'v'
	ownerPrefix = 'o'

	// Operation tags accepted by Invoke.
	opPut    = "Put"
	opGet    = "Get"
	opDelete = "Delete"
)

// nolint:deadcode,unused
func _deploy(data any, isUpdate bool) {
	if isUpdate {
		args := data.([]any)
		common.CheckVersion(args[len(args)-1].(int))
		return
	}

	runtime.Log("ownedkv contract initialized")
}

// Update method updates contract source code and manifest. It can be invoked
// only by committee.
func Update(script []byte, manifest []byte, data any) {
	if !common.HasUpdateAccess() {
		panic("only committee can update contract")
	}

	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, script, manifest, common.AppendVersion(data))
	runtime.Log("ownedkv contract updated")
}

// Put creates a new record binding value to the key. The record is owned by
// the transaction sender which must witness the invocation. Put never
// overwrites: it returns false if the key already has a record, if the key is
// too long or if the sender witness is missing.
//
// Produces Put notification on success.
func Put(key []byte, value []byte) bool {
	if len(key) > common.MaxKeyLength {
		runtime.Log("put: key is too long")
		return false
	}

	ctx := storage.GetContext()

	if storage.Get(ctx, common.PrefixedKey(ownerPrefix, key)) != nil {
		runtime.Log("put: key already exists")
		return false
	}

	owner := common.Sender()
	if !common.CheckWitness("put", owner) {
		return false
	}

	storage.Put(ctx, common.PrefixedKey(valuePrefix, key), value)
	storage.Put(ctx, common.PrefixedKey(ownerPrefix, key), owner)

	runtime.Notify("Put", key, owner)

	return true
}

// Get returns the value bound to the key or null if there is no record.
func Get(key []byte) []byte {
	ctx := storage.GetReadOnlyContext()

	if storage.Get(ctx, common.PrefixedKey(ownerPrefix, key)) == nil {
		return nil
	}

	value := storage.Get(ctx, common.PrefixedKey(valuePrefix, key))
	if value == nil {
		return []byte{}
	}

	return value.([]byte)
}

// Owner returns the account the record is bound to or null if there is no
// record.
func Owner(key []byte) interop.Hash160 {
	ctx := storage.GetReadOnlyContext()

	owner := storage.Get(ctx, common.PrefixedKey(ownerPrefix, key))
	if owner == nil {
		return nil
	}

	return owner.(interop.Hash160)
}

// Delete removes the record of the key. The record owner must witness the
// invocation. Delete returns false if there is no record or the owner witness
// is missing. After successful removal any account can Put the key again.
//
// Produces Delete notification on success.
func Delete(key []byte) bool {
	ctx := storage.GetContext()

	ownerKey := common.PrefixedKey(ownerPrefix, key)

	data := storage.Get(ctx, ownerKey)
	if data == nil {
		runtime.Log("delete: key not found")
		return false
	}

	owner := data.(interop.Hash160)
	if !common.CheckOwnerWitness("delete", owner) {
		return false
	}

	storage.Delete(ctx, common.PrefixedKey(valuePrefix, key))
	storage.Delete(ctx, ownerKey)

	runtime.Notify("Delete", key, owner)

	return true
}

// Invoke is a single entry point dispatching the operation to Put, Get or
// Delete. Arguments are [key, value] for Put and [key] for Get and Delete.
// Unknown operations, wrong number of arguments and arguments other than
// byte strings result in false.
func Invoke(operation string, args []any) any {
	switch operation {
	case opPut:
		kv, ok := common.BytesArgs(args, 2)
		if !ok {
			runtime.Log("invoke: invalid Put arguments")
			return false
		}
		return Put(kv[0], kv[1])
	case opGet:
		k, ok := common.BytesArgs(args, 1)
		if !ok {
			runtime.Log("invoke: invalid Get arguments")
			return false
		}
		return Get(k[0])
	case opDelete:
		k, ok := common.BytesArgs(args, 1)
		if !ok {
			runtime.Log("invoke: invalid Delete arguments")
			return false
		}
		return Delete(k[0])
	default:
		runtime.Log("invoke: unknown operation " + operation)
		return false
	}
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}
