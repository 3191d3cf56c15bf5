package forwarder

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
	"github.com/nspcc-dev/ownedkv-contract/common"
)

const (
	backendKey = "backend"

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

	args := data.(struct {
		backend interop.Hash160
	})

	if len(args.backend) != interop.Hash160Len {
		panic("invalid backend contract hash")
	}

	ctx := storage.GetContext()
	storage.Put(ctx, backendKey, args.backend)

	runtime.Log("forwarder contract initialized")
}

// Update method updates contract source code and manifest. It can be invoked
// only by committee.
func Update(script []byte, manifest []byte, data any) {
	if !common.HasUpdateAccess() {
		panic("only committee can update contract")
	}

	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, script, manifest, common.AppendVersion(data))
	runtime.Log("forwarder contract updated")
}

// SetBackend switches the contract all operations are forwarded to. It can be
// invoked only by committee.
func SetBackend(hash interop.Hash160) {
	if !common.HasUpdateAccess() {
		panic("only committee can change backend")
	}

	if len(hash) != interop.Hash160Len {
		panic("invalid backend contract hash")
	}

	ctx := storage.GetContext()
	storage.Put(ctx, backendKey, hash)

	runtime.Log("forwarder backend changed")
}

// Backend returns the hash of the contract all operations are forwarded to.
func Backend() interop.Hash160 {
	ctx := storage.GetReadOnlyContext()
	return storage.Get(ctx, backendKey).(interop.Hash160)
}

// Put forwards the record creation to the backend contract. The transaction
// sender must witness the invocation. Put refuses to overwrite: if the backend
// already has a value for the key, false is returned without calling
// backend's put.
//
// Backend checks the sender witness once again, so the sender's signer scope
// must cover the backend contract (e.g. CustomContracts with both forwarder
// and backend hashes).
func Put(key []byte, value []byte) bool {
	if !common.CheckWitness("put", common.Sender()) {
		return false
	}

	backend := Backend()

	if contract.Call(backend, "get", contract.ReadOnly, key) != nil {
		runtime.Log("put: key already exists")
		return false
	}

	return contract.Call(backend, "put", contract.All, key, value).(bool)
}

// Get forwards the read to the backend contract.
func Get(key []byte) []byte {
	result := contract.Call(Backend(), "get", contract.ReadOnly, key)
	if result == nil {
		return nil
	}

	return result.([]byte)
}

// Owner forwards the owner lookup to the backend contract.
func Owner(key []byte) interop.Hash160 {
	result := contract.Call(Backend(), "owner", contract.ReadOnly, key)
	if result == nil {
		return nil
	}

	return result.(interop.Hash160)
}

// Delete forwards the record removal to the backend contract. The record
// owner must witness the invocation, the same signer scope requirements as for
// Put apply.
func Delete(key []byte) bool {
	backend := Backend()

	owner := contract.Call(backend, "owner", contract.ReadOnly, key)
	if owner == nil {
		runtime.Log("delete: key not found")
		return false
	}

	if !common.CheckOwnerWitness("delete", owner.(interop.Hash160)) {
		return false
	}

	return contract.Call(backend, "delete", contract.All, key).(bool)
}

// Invoke is a single entry point dispatching the operation to Put, Get or
// Delete with the same rules as the backend: unknown operations, wrong
// number of arguments and arguments other than byte strings result in false.
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

// Verify checks whether carrier transaction is signed by the committee, so
// the forwarder's own account can only be spent by the committee.
func Verify() bool {
	return common.HasUpdateAccess()
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}
