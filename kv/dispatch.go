package kv

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Operation tags accepted by Store.Invoke.
const (
	OpPut    = "Put"
	OpGet    = "Get"
	OpDelete = "Delete"
)

// Invoke is a single entry point dispatching the operation to Put, Get or
// Delete. Arguments are [key, value] for Put and [key] for Get and Delete,
// each one is either []byte or string. Put and Delete act on behalf of the
// caller set by WithCaller.
//
// Invoke never returns an error: Put and Delete result in true or false, Get
// results in the value or nil. Unknown operations and invalid arguments result
// in false without touching the records.
func (s *Store) Invoke(ctx context.Context, operation string, args []any) any {
	res, err := s.invoke(ctx, operation, args)
	if err != nil {
		s.log.Debug("invocation failed",
			zap.String("operation", operation), zap.Int("args", len(args)), zap.Error(err))
		return false
	}

	return res
}

func (s *Store) invoke(ctx context.Context, operation string, args []any) (any, error) {
	switch operation {
	case OpPut:
		key, value, err := twoBytesArgs(args)
		if err != nil {
			return nil, err
		}

		caller, ok := CallerFromContext(ctx)
		if !ok {
			return nil, errNoCaller
		}

		err = s.Put(ctx, key, value, caller)
		if err != nil {
			return nil, err
		}

		return true, nil
	case OpGet:
		key, err := oneBytesArg(args)
		if err != nil {
			return nil, err
		}

		value, ok, err := s.Get(ctx, key)
		if err != nil {
			return nil, err
		}

		if !ok {
			return nil, nil
		}

		return value, nil
	case OpDelete:
		key, err := oneBytesArg(args)
		if err != nil {
			return nil, err
		}

		caller, ok := CallerFromContext(ctx)
		if !ok {
			return nil, errNoCaller
		}

		err = s.Delete(ctx, key, caller)
		if err != nil {
			return nil, err
		}

		return true, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownOperation, operation)
	}
}

func oneBytesArg(args []any) ([]byte, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("%w: expected 1 argument, got %d", errInvalidArguments, len(args))
	}

	return bytesArg(args[0])
}

func twoBytesArgs(args []any) ([]byte, []byte, error) {
	if len(args) != 2 {
		return nil, nil, fmt.Errorf("%w: expected 2 arguments, got %d", errInvalidArguments, len(args))
	}

	a, err := bytesArg(args[0])
	if err != nil {
		return nil, nil, err
	}

	b, err := bytesArg(args[1])
	if err != nil {
		return nil, nil, err
	}

	return a, b, nil
}

func bytesArg(arg any) ([]byte, error) {
	switch v := arg.(type) {
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, fmt.Errorf("%w: unsupported argument type %T", errInvalidArguments, arg)
	}
}
