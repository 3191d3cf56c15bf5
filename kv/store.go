package kv

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"go.uber.org/zap"
)

// DefaultLockStripes is the default number of mutexes keys are spread over.
const DefaultLockStripes = 256

// Store is Owned KV store over a Backend. It's safe for concurrent use: Put
// and Delete of the same key are mutually exclusive.
type Store struct {
	backend Backend
	auth    Authorizer
	log     *zap.Logger

	locks []sync.RWMutex
}

// Option configures Store.
type Option func(*Store)

// WithLogger sets the logger Store reports operations to. Store is silent
// by default.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		s.log = l
	}
}

// WithLockStripes sets the number of mutexes keys are spread over. Values
// less than 1 are ignored.
func WithLockStripes(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.locks = make([]sync.RWMutex, n)
		}
	}
}

// New creates Store keeping records in backend and checking caller witnesses
// with auth.
func New(backend Backend, auth Authorizer, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		auth:    auth,
		log:     zap.NewNop(),
		locks:   make([]sync.RWMutex, DefaultLockStripes),
	}

	for _, o := range opts {
		o(s)
	}

	return s
}

func (s *Store) lock(key []byte) *sync.RWMutex {
	return &s.locks[xxhash.Sum64(key)%uint64(len(s.locks))]
}

// Put creates a record binding value to key and owned by caller. It returns
// ErrAlreadyExists if the key already has a record and ErrNotAuthorized if the
// request is not authorized by caller.
func (s *Store) Put(ctx context.Context, key, value []byte, caller util.Uint160) error {
	mtx := s.lock(key)
	mtx.Lock()
	defer mtx.Unlock()

	_, ok, err := s.get(ctx, key)
	if err != nil {
		return err
	}

	if ok {
		s.log.Debug("put rejected, key already exists", zap.Binary("key", key))
		return ErrAlreadyExists
	}

	if !s.auth.IsAuthorized(WithRequest(ctx, OpPut, key), caller) {
		s.log.Debug("put rejected, caller is not witnessed",
			zap.Binary("key", key), zap.Stringer("caller", caller))
		return ErrNotAuthorized
	}

	data, err := Record{Value: value, Owner: caller}.Bytes()
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}

	if ins, ok := s.backend.(Inserter); ok {
		created, err := ins.PutIfAbsent(ctx, key, data)
		if err != nil {
			return fmt.Errorf("backend put: %w", err)
		}

		if !created {
			s.log.Debug("put rejected, key was created concurrently", zap.Binary("key", key))
			return ErrAlreadyExists
		}
	} else if err = s.backend.Put(ctx, key, data); err != nil {
		return fmt.Errorf("backend put: %w", err)
	}

	s.log.Debug("record created", zap.Binary("key", key), zap.Stringer("owner", caller))

	return nil
}

// Get returns value of the record. The second result is false if there is no
// record for the key.
func (s *Store) Get(ctx context.Context, key []byte) ([]byte, bool, error) {
	r, ok, err := s.read(ctx, key)
	if err != nil || !ok {
		return nil, false, err
	}

	return r.Value, true, nil
}

// Owner returns owner of the record. The second result is false if there is
// no record for the key.
func (s *Store) Owner(ctx context.Context, key []byte) (util.Uint160, bool, error) {
	r, ok, err := s.read(ctx, key)
	if err != nil || !ok {
		return util.Uint160{}, false, err
	}

	return r.Owner, true, nil
}

func (s *Store) read(ctx context.Context, key []byte) (Record, bool, error) {
	mtx := s.lock(key)
	mtx.RLock()
	defer mtx.RUnlock()

	return s.get(ctx, key)
}

// Delete removes the record. It returns ErrNotFound if there is no record for
// the key and ErrNotAuthorized if caller is not the owner or the request is
// not authorized by the owner.
func (s *Store) Delete(ctx context.Context, key []byte, caller util.Uint160) error {
	mtx := s.lock(key)
	mtx.Lock()
	defer mtx.Unlock()

	r, ok, err := s.get(ctx, key)
	if err != nil {
		return err
	}

	if !ok {
		s.log.Debug("delete rejected, key not found", zap.Binary("key", key))
		return ErrNotFound
	}

	if !caller.Equals(r.Owner) || !s.auth.IsAuthorized(WithRequest(ctx, OpDelete, key), r.Owner) {
		s.log.Debug("delete rejected, owner is not witnessed",
			zap.Binary("key", key), zap.Stringer("caller", caller), zap.Stringer("owner", r.Owner))
		return ErrNotAuthorized
	}

	err = s.backend.Delete(ctx, key)
	if err != nil {
		return fmt.Errorf("backend delete: %w", err)
	}

	s.log.Debug("record deleted", zap.Binary("key", key), zap.Stringer("owner", r.Owner))

	return nil
}

// get reads the record from the backend. The caller must hold the key lock.
func (s *Store) get(ctx context.Context, key []byte) (Record, bool, error) {
	data, err := s.backend.Get(ctx, key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Record{}, false, nil
		}
		return Record{}, false, fmt.Errorf("backend get: %w", err)
	}

	r, err := DecodeRecord(data)
	if err != nil {
		return Record{}, false, err
	}

	return r, true, nil
}
