// Package deploy provides deployment procedure of Owned KV contracts.
package deploy

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/management"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/nef"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
	"github.com/nspcc-dev/ownedkv-contract/rpc/ownedkv"
	"go.uber.org/zap"
)

// Blockchain groups services provided by particular Neo blockchain network
// that are required for the deployment.
type Blockchain interface {
	// GetContractStateByHash returns network state of the smart contract by its
	// address. GetContractStateByHash returns error with 'Unknown contract'
	// substring if requested contract is missing.
	GetContractStateByHash(util.Uint160) (*state.Contract, error)
}

// Actor composes, signs and sends deployment transactions.
type Actor interface {
	ownedkv.Actor

	// Sender returns account paying for the deployment. It also determines
	// addresses of the deployed contracts.
	Sender() util.Uint160
	// Wait waits for the transaction to be accepted.
	Wait(h util.Uint256, vub uint32, err error) (*state.AppExecResult, error)
}

// CommonDeployPrm groups common deployment parameters of the smart contract.
type CommonDeployPrm struct {
	NEF      nef.File
	Manifest manifest.Manifest
}

// ForwarderPrm groups deployment parameters of the forwarder contract.
type ForwarderPrm struct {
	Common CommonDeployPrm

	// Backend is the Owned KV contract calls are forwarded to. If zero, Owned
	// KV contract deployed by the same procedure is used.
	Backend util.Uint160
}

// Prm groups all parameters of the deployment procedure.
type Prm struct {
	// Writes progress into the log.
	Logger *zap.Logger

	Blockchain Blockchain
	Actor      Actor

	// Owned KV contract, skipped if NEF script is empty.
	OwnedKV CommonDeployPrm
	// Forwarder contract, skipped if NEF script is empty.
	Forwarder ForwarderPrm
}

// Result contains addresses of the contracts deployed (or found deployed).
// Zero value means the contract was not requested.
type Result struct {
	OwnedKV   util.Uint160
	Forwarder util.Uint160
}

var errMissingBackend = errors.New("forwarder backend is not specified")

// Deploy deploys requested contracts if they are missing in the network.
// Contracts already deployed with the same NEF are left untouched, the
// ones deployed with different NEF are reported as error since only committee
// can update them.
func Deploy(ctx context.Context, prm Prm) (Result, error) {
	var (
		res Result
		err error
		log = prm.Logger
	)

	if log == nil {
		log = zap.NewNop()
	}

	if len(prm.OwnedKV.NEF.Script) != 0 {
		res.OwnedKV, err = deployContract(ctx, log, prm, prm.OwnedKV, nil)
		if err != nil {
			return res, err
		}
	}

	if len(prm.Forwarder.Common.NEF.Script) != 0 {
		backend := prm.Forwarder.Backend
		if backend.Equals(util.Uint160{}) {
			backend = res.OwnedKV
		}

		if backend.Equals(util.Uint160{}) {
			return res, errMissingBackend
		}

		res.Forwarder, err = deployContract(ctx, log, prm, prm.Forwarder.Common, []any{backend})
		if err != nil {
			return res, err
		}
	}

	return res, nil
}

func deployContract(ctx context.Context, log *zap.Logger, prm Prm, c CommonDeployPrm, data any) (util.Uint160, error) {
	name := c.Manifest.Name
	h := state.CreateContractHash(prm.Actor.Sender(), c.NEF.Checksum, name)

	l := log.With(zap.String("contract", name), zap.Stringer("address", h))

	err := ctx.Err()
	if err != nil {
		return h, err
	}

	st, err := prm.Blockchain.GetContractStateByHash(h)
	if err == nil {
		if st.NEF.Checksum != c.NEF.Checksum {
			return h, fmt.Errorf("contract '%s' is already deployed with different NEF (checksum %d)", name, st.NEF.Checksum)
		}

		l.Info("contract is already deployed, skip")
		return h, nil
	}

	if !isUnknownContract(err) {
		return h, fmt.Errorf("get state of the contract '%s': %w", name, err)
	}

	l.Info("contract is missing in the network, deploying...")

	r, err := prm.Actor.Wait(management.New(prm.Actor).Deploy(&c.NEF, &c.Manifest, data))
	if err != nil {
		return h, fmt.Errorf("deploy contract '%s': %w", name, err)
	}

	if r.VMState != vmstate.Halt {
		return h, fmt.Errorf("deploy contract '%s': transaction %s faulted: %s", name, r.Container.StringLE(), r.FaultException)
	}

	l.Info("contract successfully deployed", zap.Stringer("tx", r.Container))

	return h, nil
}

func isUnknownContract(err error) bool {
	return err != nil && strings.Contains(err.Error(), "Unknown contract")
}
