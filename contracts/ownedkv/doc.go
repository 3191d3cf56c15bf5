/*
Package ownedkv implements Owned KV contract which stores arbitrary values
bound to the accounts that created them.

Every record is a key bound to a value and to its owner: the sender of the
transaction that created the record. Records are never overwritten: Put fails
if the key already has a record, so the only way to change the value is to
Delete the record and Put it again. Only the owner can Delete the record;
after that the key is free and any account can create it again.

Failures do not abort the transaction: methods return false (or null for
reads) and log the reason.

# Contract notifications

Put notification. This notification is produced when a new record is created.

	Put
	  - name: key
	    type: ByteArray
	  - name: owner
	    type: Hash160

Delete notification. This notification is produced when the record is removed
by its owner.

	Delete
	  - name: key
	    type: ByteArray
	  - name: owner
	    type: Hash160
*/
package ownedkv

/*
Contract storage model.

Current conventions:
 <key>: binary user key, up to 63 bytes

# Summary
Key-value storage format:
 - 'v<key>' -> []byte
   value of the record
 - 'o<key>' -> interop.Hash160
   owner of the record, presence of this item marks the record as existing

# Records
Contract stores records created by Put until their owners Delete them.
*/
