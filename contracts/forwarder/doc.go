/*
Package forwarder implements Forwarder contract which exposes Put, Get and
Delete of the Owned KV contract through its own address.

Forwarder keeps no records itself: every operation is passed to the backend
contract whose hash is set on deployment and can later be changed by the
committee with SetBackend. Forwarder checks the sender witness on Put and the
owner witness on Delete, and refuses Put for keys that already have a value in
the backend.

Backend checks the same witnesses once again while being called by Forwarder,
so signers must use a scope covering the backend contract: CalledByEntry alone
is not enough, CustomContracts listing both Forwarder and backend is.

Forwarder's own account is controlled by the committee: Verify succeeds only
for transactions witnessed by the committee multisignature.

# Contract notifications

Forwarder contract does not produce notifications to process. Notifications of
the backend contract are produced as usual.
*/
package forwarder

/*
Contract storage model.

# Summary
Key-value storage format:
 - 'backend' -> interop.Hash160
   hash of the contract all operations are forwarded to
*/
