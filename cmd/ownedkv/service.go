package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/nspcc-dev/neo-go/pkg/crypto/keys"
	"github.com/nspcc-dev/ownedkv-contract/config"
	"github.com/nspcc-dev/ownedkv-contract/kv"
	"github.com/nspcc-dev/ownedkv-contract/kv/boltdb"
	"github.com/nspcc-dev/ownedkv-contract/kv/chain"
	"github.com/nspcc-dev/ownedkv-contract/kv/leveldb"
	"github.com/nspcc-dev/ownedkv-contract/kv/memory"
	"github.com/nspcc-dev/ownedkv-contract/kv/redis"
	"github.com/nspcc-dev/ownedkv-contract/kv/witness"
	"go.uber.org/zap"
)

// service is a set of operations available to the commands regardless of
// where the records are kept.
type service interface {
	Put(ctx context.Context, key, value []byte) error
	Get(ctx context.Context, key []byte) ([]byte, bool, error)
	Delete(ctx context.Context, key []byte) error
	Invoke(ctx context.Context, operation string, args []any) any
	Close() error
}

func openService(cfg *config.Config, log *zap.Logger) (service, error) {
	if cfg.Backend == config.BackendChain {
		return openChainService(cfg, log)
	}

	key, err := openKey(cfg.Wallet)
	if err != nil {
		return nil, err
	}

	checker, err := witness.NewChecker(witness.DefaultNonceCacheSize)
	if err != nil {
		return nil, err
	}

	var (
		backend kv.Backend
		closer  func() error
	)

	switch cfg.Backend {
	case config.BackendMemory:
		backend = memory.New()
	case config.BackendBoltDB:
		b, err := boltdb.Open(cfg.Path, boltdb.Options{})
		if err != nil {
			return nil, err
		}
		backend, closer = b, b.Close
	case config.BackendLevelDB:
		b, err := leveldb.Open(cfg.Path)
		if err != nil {
			return nil, err
		}
		backend, closer = b, b.Close
	case config.BackendRedis:
		b := redis.New(redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
		})
		if err := b.Ping(context.Background()); err != nil {
			_ = b.Close()
			return nil, fmt.Errorf("redis ping: %w", err)
		}
		backend, closer = b, b.Close
	default:
		return nil, fmt.Errorf("unsupported backend %q", cfg.Backend)
	}

	return &localService{
		store:  kv.New(backend, checker, kv.WithLogger(log)),
		key:    key,
		closer: closer,
	}, nil
}

// localService signs requests to kv.Store with the wallet key.
type localService struct {
	store  *kv.Store
	key    *keys.PrivateKey
	closer func() error
}

// authorize returns ctx carrying the caller and its witness for the
// operation over the key.
func (s *localService) authorize(ctx context.Context, operation string, key []byte) context.Context {
	payload := witness.Payload(operation, key, uuid.New())
	ctx = witness.With(ctx, payload, witness.Sign(s.key, payload))
	return kv.WithCaller(ctx, s.key.GetScriptHash())
}

func (s *localService) Put(ctx context.Context, key, value []byte) error {
	return s.store.Put(s.authorize(ctx, kv.OpPut, key), key, value, s.key.GetScriptHash())
}

func (s *localService) Get(ctx context.Context, key []byte) ([]byte, bool, error) {
	return s.store.Get(ctx, key)
}

func (s *localService) Delete(ctx context.Context, key []byte) error {
	return s.store.Delete(s.authorize(ctx, kv.OpDelete, key), key, s.key.GetScriptHash())
}

func (s *localService) Invoke(ctx context.Context, operation string, args []any) any {
	var key []byte
	if len(args) > 0 {
		key, _ = args[0].([]byte)
	}

	return s.store.Invoke(s.authorize(ctx, operation, key), operation, args)
}

func (s *localService) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer()
}

// chainService sends requests to the contract in the network.
type chainService struct {
	*chain.Client
	b *remoteBlockchain
}

func openChainService(cfg *config.Config, log *zap.Logger) (service, error) {
	h, err := cfg.Contract.ScriptHash()
	if err != nil {
		return nil, err
	}

	b, err := newRemoteBlockchain(cfg)
	if err != nil {
		return nil, err
	}

	act, err := b.contractActor(h)
	if err != nil {
		b.close()
		return nil, err
	}

	return &chainService{
		Client: chain.New(act, h, log),
		b:      b,
	}, nil
}

func (s *chainService) Close() error {
	s.b.close()
	return nil
}
