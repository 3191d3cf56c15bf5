// Package ownedkv contains RPC wrappers for Owned KV contract.
package ownedkv

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/nspcc-dev/neo-go/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/unwrap"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
)

// PutEvent represents "Put" event emitted by the contract.
type PutEvent struct {
	Key   []byte
	Owner util.Uint160
}

// DeleteEvent represents "Delete" event emitted by the contract.
type DeleteEvent struct {
	Key   []byte
	Owner util.Uint160
}

// Invoker is used by ContractReader to call various safe methods.
type Invoker interface {
	Call(contract util.Uint160, operation string, params ...any) (*result.Invoke, error)
}

// Actor is used by Contract to call state-changing methods.
type Actor interface {
	Invoker

	MakeCall(contract util.Uint160, method string, params ...any) (*transaction.Transaction, error)
	MakeRun(script []byte) (*transaction.Transaction, error)
	MakeUnsignedCall(contract util.Uint160, method string, attrs []transaction.Attribute, params ...any) (*transaction.Transaction, error)
	MakeUnsignedRun(script []byte, attrs []transaction.Attribute) (*transaction.Transaction, error)
	SendCall(contract util.Uint160, method string, params ...any) (util.Uint256, uint32, error)
	SendRun(script []byte) (util.Uint256, uint32, error)
}

// ContractReader implements safe contract methods.
type ContractReader struct {
	invoker Invoker
	hash    util.Uint160
}

// Contract implements all contract methods.
type Contract struct {
	ContractReader
	actor Actor
	hash  util.Uint160
}

// NewReader creates an instance of ContractReader using provided contract hash and the given Invoker.
func NewReader(invoker Invoker, hash util.Uint160) *ContractReader {
	return &ContractReader{invoker, hash}
}

// New creates an instance of Contract using provided contract hash and the given Actor.
func New(actor Actor, hash util.Uint160) *Contract {
	return &Contract{ContractReader{actor, hash}, actor, hash}
}

// Hash returns the hash of the contract.
func (c *ContractReader) Hash() util.Uint160 {
	return c.hash
}

// Get invokes `get` method of contract. Nil slice without error is returned
// if there is no record for the key.
func (c *ContractReader) Get(key []byte) ([]byte, error) {
	item, err := unwrap.Item(c.invoker.Call(c.hash, "get", key))
	if err != nil {
		return nil, err
	}
	if _, ok := item.(stackitem.Null); ok {
		return nil, nil
	}
	b, err := item.TryBytes()
	if err != nil {
		return nil, err
	}
	if b == nil {
		b = []byte{}
	}
	return b, nil
}

// Owner invokes `owner` method of contract. Nil is returned without error if
// there is no record for the key.
func (c *ContractReader) Owner(key []byte) (*util.Uint160, error) {
	item, err := unwrap.Item(c.invoker.Call(c.hash, "owner", key))
	if err != nil {
		return nil, err
	}
	if _, ok := item.(stackitem.Null); ok {
		return nil, nil
	}
	u, err := itemToUint160(item)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Version invokes `version` method of contract.
func (c *ContractReader) Version() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "version"))
}

// Put creates a transaction invoking `put` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Put(key []byte, value []byte) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "put", key, value)
}

// PutTransaction creates a transaction invoking `put` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) PutTransaction(key []byte, value []byte) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "put", key, value)
}

// PutUnsigned creates a transaction invoking `put` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) PutUnsigned(key []byte, value []byte) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "put", nil, key, value)
}

// Delete creates a transaction invoking `delete` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Delete(key []byte) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "delete", key)
}

// DeleteTransaction creates a transaction invoking `delete` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) DeleteTransaction(key []byte) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "delete", key)
}

// DeleteUnsigned creates a transaction invoking `delete` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) DeleteUnsigned(key []byte) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "delete", nil, key)
}

// Invoke creates a transaction invoking `invoke` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Invoke(operation string, args []any) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "invoke", operation, args)
}

// InvokeTransaction creates a transaction invoking `invoke` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) InvokeTransaction(operation string, args []any) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "invoke", operation, args)
}

// InvokeUnsigned creates a transaction invoking `invoke` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) InvokeUnsigned(operation string, args []any) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "invoke", nil, operation, args)
}

// Update creates a transaction invoking `update` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Update(script []byte, manifest []byte, data any) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "update", script, manifest, data)
}

// UpdateTransaction creates a transaction invoking `update` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) UpdateTransaction(script []byte, manifest []byte, data any) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "update", script, manifest, data)
}

// UpdateUnsigned creates a transaction invoking `update` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) UpdateUnsigned(script []byte, manifest []byte, data any) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "update", nil, script, manifest, data)
}

// PutEventsFromApplicationLog retrieves a set of all emitted events
// with "Put" name from the provided [result.ApplicationLog].
func PutEventsFromApplicationLog(log *result.ApplicationLog) ([]*PutEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*PutEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "Put" {
				continue
			}
			event := new(PutEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize PutEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to PutEvent or
// returns an error if it's not possible to do to so.
func (e *PutEvent) FromStackItem(item *stackitem.Array) error {
	key, owner, err := recordEventFields(item)
	if err != nil {
		return err
	}
	e.Key, e.Owner = key, owner
	return nil
}

// DeleteEventsFromApplicationLog retrieves a set of all emitted events
// with "Delete" name from the provided [result.ApplicationLog].
func DeleteEventsFromApplicationLog(log *result.ApplicationLog) ([]*DeleteEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*DeleteEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "Delete" {
				continue
			}
			event := new(DeleteEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize DeleteEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to DeleteEvent or
// returns an error if it's not possible to do to so.
func (e *DeleteEvent) FromStackItem(item *stackitem.Array) error {
	key, owner, err := recordEventFields(item)
	if err != nil {
		return err
	}
	e.Key, e.Owner = key, owner
	return nil
}

// recordEventFields decodes [key, owner] notification payload shared by Put
// and Delete events.
func recordEventFields(item *stackitem.Array) ([]byte, util.Uint160, error) {
	if item == nil {
		return nil, util.Uint160{}, errors.New("nil item")
	}
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return nil, util.Uint160{}, errors.New("not an array")
	}
	if len(arr) != 2 {
		return nil, util.Uint160{}, errors.New("wrong number of structure elements")
	}

	key, err := arr[0].TryBytes()
	if err != nil {
		return nil, util.Uint160{}, fmt.Errorf("field Key: %w", err)
	}

	owner, err := itemToUint160(arr[1])
	if err != nil {
		return nil, util.Uint160{}, fmt.Errorf("field Owner: %w", err)
	}

	return key, owner, nil
}

func itemToUint160(item stackitem.Item) (util.Uint160, error) {
	b, err := item.TryBytes()
	if err != nil {
		return util.Uint160{}, err
	}
	u, err := util.Uint160DecodeBytesBE(b)
	if err != nil {
		return util.Uint160{}, err
	}
	return u, nil
}
