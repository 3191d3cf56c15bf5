// Package chain provides Owned KV client working with the contract deployed
// in the Neo network. Records, their owners and witness checks are kept by
// the contract, the client only sends requests on behalf of its signer.
package chain

import (
	"context"
	"errors"
	"fmt"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/actor"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
	"github.com/nspcc-dev/neo-go/pkg/wallet"
	"github.com/nspcc-dev/ownedkv-contract/kv"
	"github.com/nspcc-dev/ownedkv-contract/rpc/ownedkv"
	"go.uber.org/zap"
)

// ErrRejected is returned when the contract returned false for the request
// without a client-side reason to expect it.
var ErrRejected = errors.New("rejected by contract")

// Actor is a neo-go actor.Actor subset used by Client.
type Actor interface {
	ownedkv.Actor

	Sender() util.Uint160
	Wait(h util.Uint256, vub uint32, err error) (*state.AppExecResult, error)
}

// Client works with Owned KV contract (or a forwarder to it) on behalf of the
// actor's sender. Actor signers must use a witness scope covering the backend
// of the forwarder, see Signers.
type Client struct {
	actor    Actor
	contract *ownedkv.Contract
	log      *zap.Logger
}

// New creates Client for the contract with the given hash.
func New(actor Actor, hash util.Uint160, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}

	return &Client{
		actor:    actor,
		contract: ownedkv.New(actor, hash),
		log:      log,
	}
}

// Signers returns signer of the account with CalledByEntry and CustomContracts
// witness scope allowing the contract and, if the contract is a forwarder, its
// backend contract. Forwarded calls check the witness inside the backend where
// CalledByEntry alone doesn't work.
func Signers(inv ownedkv.Invoker, acc *wallet.Account, contract util.Uint160) ([]actor.SignerAccount, error) {
	allowed := []util.Uint160{contract}

	res, err := inv.Call(contract, "backend")
	if err != nil {
		return nil, fmt.Errorf("backend: %w", err)
	}

	// Owned KV contract has no backend method and faults.
	if res.State == vmstate.Halt.String() && len(res.Stack) == 1 {
		b, err := res.Stack[0].TryBytes()
		if err != nil {
			return nil, fmt.Errorf("backend: %w", err)
		}

		backend, err := util.Uint160DecodeBytesBE(b)
		if err != nil {
			return nil, fmt.Errorf("backend: %w", err)
		}

		allowed = append(allowed, backend)
	}

	return []actor.SignerAccount{{
		Signer: transaction.Signer{
			Account:          acc.Contract.ScriptHash(),
			Scopes:           transaction.CalledByEntry | transaction.CustomContracts,
			AllowedContracts: allowed,
		},
		Account: acc,
	}}, nil
}

// Sender returns identity requests are sent from.
func (c *Client) Sender() util.Uint160 {
	return c.actor.Sender()
}

// Put creates record for the key owned by the sender and waits for the
// transaction to be accepted.
func (c *Client) Put(ctx context.Context, key, value []byte) error {
	_, ok, err := c.Owner(ctx, key)
	if err != nil {
		return err
	}

	if ok {
		return kv.ErrAlreadyExists
	}

	err = c.await(ctx, "put", func() (util.Uint256, uint32, error) {
		return c.contract.Put(key, value)
	})
	if err != nil {
		return err
	}

	c.log.Debug("record created", zap.Binary("key", key), zap.Stringer("owner", c.Sender()))

	return nil
}

// Get returns value of the record. The second result is false if there is no
// record for the key.
func (c *Client) Get(ctx context.Context, key []byte) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	v, err := c.contract.Get(key)
	if err != nil {
		return nil, false, fmt.Errorf("get: %w", err)
	}

	return v, v != nil, nil
}

// Owner returns owner of the record. The second result is false if there is
// no record for the key.
func (c *Client) Owner(ctx context.Context, key []byte) (util.Uint160, bool, error) {
	if err := ctx.Err(); err != nil {
		return util.Uint160{}, false, err
	}

	owner, err := c.contract.Owner(key)
	if err != nil {
		return util.Uint160{}, false, fmt.Errorf("owner: %w", err)
	}

	if owner == nil {
		return util.Uint160{}, false, nil
	}

	return *owner, true, nil
}

// Delete removes the record owned by the sender and waits for the transaction
// to be accepted.
func (c *Client) Delete(ctx context.Context, key []byte) error {
	owner, ok, err := c.Owner(ctx, key)
	if err != nil {
		return err
	}

	if !ok {
		return kv.ErrNotFound
	}

	if !owner.Equals(c.Sender()) {
		return kv.ErrNotAuthorized
	}

	err = c.await(ctx, "delete", func() (util.Uint256, uint32, error) {
		return c.contract.Delete(key)
	})
	if err != nil {
		return err
	}

	c.log.Debug("record deleted", zap.Binary("key", key), zap.Stringer("owner", owner))

	return nil
}

// Invoke calls contract's dispatcher. Get is executed as a test invocation,
// Put, Delete and any other operation are sent in a transaction. Results
// follow kv.Store.Invoke: boolean for writes, value or nil for Get, false on
// any failure.
func (c *Client) Invoke(ctx context.Context, operation string, args []any) any {
	res, err := c.invoke(ctx, operation, args)
	if err != nil {
		c.log.Debug("invocation failed",
			zap.String("operation", operation), zap.Int("args", len(args)), zap.Error(err))
		return false
	}

	return res
}

func (c *Client) invoke(ctx context.Context, operation string, args []any) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if operation == kv.OpGet {
		inv, err := c.actor.Call(c.contract.Hash(), "invoke", operation, args)
		if err != nil {
			return nil, err
		}

		if inv.State != vmstate.Halt.String() {
			return nil, fmt.Errorf("invocation failed: %s", inv.FaultException)
		}

		return stackResult(inv.Stack)
	}

	res, err := c.actor.Wait(c.contract.Invoke(operation, args))
	if err != nil {
		return nil, err
	}

	if res.VMState != vmstate.Halt {
		return nil, fmt.Errorf("transaction %s faulted: %s", res.Container.StringLE(), res.FaultException)
	}

	return stackResult(res.Stack)
}

// await sends transaction and checks it returns true.
func (c *Client) await(ctx context.Context, method string, send func() (util.Uint256, uint32, error)) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	res, err := c.actor.Wait(send())
	if err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}

	if res.VMState != vmstate.Halt {
		return fmt.Errorf("%s: transaction %s faulted: %s", method, res.Container.StringLE(), res.FaultException)
	}

	ok, err := boolResult(res.Stack)
	if err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}

	if !ok {
		return fmt.Errorf("%s: %w", method, ErrRejected)
	}

	return nil
}

func boolResult(stack []stackitem.Item) (bool, error) {
	if len(stack) != 1 {
		return false, fmt.Errorf("unexpected stack length %d", len(stack))
	}

	return stack[0].TryBool()
}

func stackResult(stack []stackitem.Item) (any, error) {
	if len(stack) != 1 {
		return nil, fmt.Errorf("unexpected stack length %d", len(stack))
	}

	switch it := stack[0].(type) {
	case stackitem.Null:
		return nil, nil
	case stackitem.Bool:
		return it.Value().(bool), nil
	default:
		b, err := it.TryBytes()
		if err != nil {
			return nil, err
		}
		if b == nil {
			b = []byte{}
		}
		return b, nil
	}
}
