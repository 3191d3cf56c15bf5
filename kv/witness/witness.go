/*
Package witness implements kv.Authorizer checking signatures of the request.

A request is authorized by an identity if it carries a witness made by the key
the identity is derived from: the script hash of the key's verification script
must be equal to the identity and the witness signature must be valid for the
request payload. The payload must be the one Payload builds for the operation
and the key the store is authorizing, so a witness for one request is useless
for another. Nonce of the payload can be used once per identity: Checker
remembers the recent nonces and rejects repeated ones.
*/
package witness

import (
	"bytes"
	"context"
	"fmt"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru"
	"github.com/nspcc-dev/neo-go/pkg/crypto/hash"
	"github.com/nspcc-dev/neo-go/pkg/crypto/keys"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/ownedkv-contract/kv"
)

// Witness is a signature of the request payload made by the key.
type Witness struct {
	PublicKey *keys.PublicKey
	Signature []byte
}

// Sign signs payload with the given key.
func Sign(key *keys.PrivateKey, payload []byte) Witness {
	return Witness{
		PublicKey: key.PublicKey(),
		Signature: key.Sign(payload),
	}
}

// Identity returns the identity the witness is made for.
func (w Witness) Identity() util.Uint160 {
	return w.PublicKey.GetScriptHash()
}

type request struct {
	payload   []byte
	witnesses []Witness
}

type requestKey struct{}

// With returns a copy of ctx carrying the request payload and its witnesses.
func With(ctx context.Context, payload []byte, ws ...Witness) context.Context {
	return context.WithValue(ctx, requestKey{}, request{
		payload:   payload,
		witnesses: ws,
	})
}

// Payload returns request payload for the operation over the key. Nonce
// makes every request unique so that the witness can't be replayed for
// another request.
func Payload(operation string, key []byte, nonce uuid.UUID) []byte {
	payload := make([]byte, 0, len(operation)+1+len(key)+len(nonce))
	payload = append(payload, operation...)
	payload = append(payload, 0)
	payload = append(payload, key...)
	payload = append(payload, nonce[:]...)
	return payload
}

// DefaultNonceCacheSize is the default number of recent nonces Checker
// remembers.
const DefaultNonceCacheSize = 1 << 16

// Checker is kv.Authorizer verifying witnesses set by With. Checker must be
// created with NewChecker.
type Checker struct {
	nonces *lru.Cache
}

// Ensure Checker implements kv.Authorizer interface.
var _ kv.Authorizer = (*Checker)(nil)

// NewChecker returns Checker remembering up to size recent nonces.
func NewChecker(size int) (*Checker, error) {
	nonces, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("nonce cache: %w", err)
	}

	return &Checker{nonces: nonces}, nil
}

// IsAuthorized implements kv.Authorizer.
func (c *Checker) IsAuthorized(ctx context.Context, identity util.Uint160) bool {
	req, ok := ctx.Value(requestKey{}).(request)
	if !ok {
		return false
	}

	op, ok := kv.RequestFromContext(ctx)
	if !ok {
		return false
	}

	nonce, ok := payloadNonce(req.payload, op)
	if !ok {
		return false
	}

	h := hash.Sha256(req.payload).BytesBE()

	for i := range req.witnesses {
		w := req.witnesses[i]
		if w.PublicKey == nil || !w.Identity().Equals(identity) {
			continue
		}

		if !w.PublicKey.Verify(w.Signature, h) {
			continue
		}

		seen, _ := c.nonces.ContainsOrAdd(nonceKey{nonce: nonce, identity: identity}, struct{}{})
		return !seen
	}

	return false
}

type nonceKey struct {
	nonce    uuid.UUID
	identity util.Uint160
}

// payloadNonce checks that payload is built for the request and returns its
// nonce.
func payloadNonce(payload []byte, req kv.Request) (uuid.UUID, bool) {
	var nonce uuid.UUID

	n := len(payload) - len(nonce)
	if n < 0 {
		return nonce, false
	}

	copy(nonce[:], payload[n:])

	return nonce, bytes.Equal(payload, Payload(req.Operation, req.Key, nonce))
}
