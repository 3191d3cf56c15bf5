/*
Package kv implements Owned KV store outside of the blockchain.

Store keeps records binding a value to the identity that created it. Records
are never overwritten: Put fails with ErrAlreadyExists for existing keys and
only the owner can Delete the record, after which the key can be created again
by anyone. Caller identities are Neo script hashes; whether the current
request is authorized by the identity is decided by the Authorizer (see
package witness for the signature-based one).

Records are kept in a Backend. Implementations for memory, bbolt, LevelDB,
Redis and the Owned KV contract are provided by the subpackages.
*/
package kv
