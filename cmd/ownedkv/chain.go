package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/nspcc-dev/neo-go/pkg/crypto/keys"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/actor"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/wallet"
	"github.com/nspcc-dev/ownedkv-contract/config"
	"github.com/nspcc-dev/ownedkv-contract/kv/chain"
)

// wrapper over rpcNeo providing actor signing with the configured wallet
// account.
type remoteBlockchain struct {
	rpc     *rpcclient.Client
	actor   *actor.Actor
	account *wallet.Account
}

// newRemoteBlockchain dials Neo RPC server and returns remoteBlockchain based
// on the opened connection. Connection and all requests are done within the
// configured timeout.
func newRemoteBlockchain(cfg *config.Config) (*remoteBlockchain, error) {
	if cfg.RPC.Endpoint == "" {
		return nil, errors.New("missing Neo RPC endpoint")
	}

	acc, err := openAccount(cfg.Wallet)
	if err != nil {
		return nil, err
	}

	c, err := rpcclient.New(context.Background(), cfg.RPC.Endpoint, rpcclient.Options{
		DialTimeout:    cfg.RPC.Timeout,
		RequestTimeout: cfg.RPC.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("RPC client dial: %w", err)
	}

	err = c.Init()
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("RPC client init: %w", err)
	}

	act, err := actor.NewSimple(c, acc)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("init actor: %w", err)
	}

	return &remoteBlockchain{
		rpc:     c,
		actor:   act,
		account: acc,
	}, nil
}

// contractActor returns actor signing transactions with the witness scoped to
// the contract and its backend contract if any.
func (x *remoteBlockchain) contractActor(contract util.Uint160) (*actor.Actor, error) {
	signers, err := chain.Signers(x.actor, x.account, contract)
	if err != nil {
		return nil, err
	}

	act, err := actor.New(x.rpc, signers)
	if err != nil {
		return nil, fmt.Errorf("init actor: %w", err)
	}

	return act, nil
}

func (x *remoteBlockchain) close() {
	x.rpc.Close()
}

// openAccount reads wallet and decrypts the account with the configured
// address. The first wallet account is used if the address is not set.
func openAccount(cfg config.Wallet) (*wallet.Account, error) {
	if cfg.Path == "" {
		return nil, errors.New("missing wallet path")
	}

	w, err := wallet.NewWalletFromFile(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("open wallet: %w", err)
	}
	defer w.Close()

	var acc *wallet.Account
	if cfg.Address != "" {
		h, err := address.StringToUint160(cfg.Address)
		if err != nil {
			return nil, fmt.Errorf("decode account address: %w", err)
		}

		acc = w.GetAccount(h)
		if acc == nil {
			return nil, fmt.Errorf("account %s is missing in the wallet", cfg.Address)
		}
	} else {
		if len(w.Accounts) == 0 {
			return nil, errors.New("wallet has no accounts")
		}
		acc = w.Accounts[0]
	}

	err = acc.Decrypt(cfg.Password, w.Scrypt)
	if err != nil {
		return nil, fmt.Errorf("decrypt account %s: %w", acc.Address, err)
	}

	return acc, nil
}

// openKey returns private key of the configured wallet account.
func openKey(cfg config.Wallet) (*keys.PrivateKey, error) {
	acc, err := openAccount(cfg)
	if err != nil {
		return nil, err
	}

	return acc.PrivateKey(), nil
}
