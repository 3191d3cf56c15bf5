package kv

import (
	"context"

	"github.com/nspcc-dev/neo-go/pkg/util"
)

// Authorizer decides whether the request carried by ctx is authorized by the
// given identity.
type Authorizer interface {
	IsAuthorized(ctx context.Context, identity util.Uint160) bool
}

// AuthorizerFunc is an adapter to use ordinary functions as Authorizer.
type AuthorizerFunc func(ctx context.Context, identity util.Uint160) bool

// IsAuthorized calls f(ctx, identity).
func (f AuthorizerFunc) IsAuthorized(ctx context.Context, identity util.Uint160) bool {
	return f(ctx, identity)
}

type callerKey struct{}

// WithCaller returns a copy of ctx carrying the caller identity used by
// Store.Invoke for Put and Delete.
func WithCaller(ctx context.Context, caller util.Uint160) context.Context {
	return context.WithValue(ctx, callerKey{}, caller)
}

// CallerFromContext returns the caller identity set by WithCaller.
func CallerFromContext(ctx context.Context) (util.Uint160, bool) {
	caller, ok := ctx.Value(callerKey{}).(util.Uint160)
	return caller, ok
}

// Request is the store operation being authorized.
type Request struct {
	Operation string // OpPut or OpDelete
	Key       []byte
}

type requestKey struct{}

// WithRequest returns a copy of ctx carrying the request Store asks the
// Authorizer about. Store sets it itself before every check.
func WithRequest(ctx context.Context, operation string, key []byte) context.Context {
	return context.WithValue(ctx, requestKey{}, Request{Operation: operation, Key: key})
}

// RequestFromContext returns the operation Store is authorizing. Authorizers
// use it to bind witnesses to the particular request.
func RequestFromContext(ctx context.Context) (Request, bool) {
	r, ok := ctx.Value(requestKey{}).(Request)
	return r, ok
}
