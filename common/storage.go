package common

// MaxKeyLength is the maximum length of a user key. Storage keys are limited
// to 64 bytes and every user key is stored with a single-byte prefix.
const MaxKeyLength = 63

// PrefixedKey returns storage key built from the given prefix byte and
// user key.
func PrefixedKey(prefix byte, key []byte) []byte {
	return append([]byte{prefix}, key...)
}
