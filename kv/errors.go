package kv

import "errors"

var (
	// ErrNotAuthorized is returned when the caller is not witnessed for the
	// operation: either its witness is missing on Put or it's not the owner
	// of the record on Delete.
	ErrNotAuthorized = errors.New("not authorized")
	// ErrAlreadyExists is returned by Put for keys having a record.
	ErrAlreadyExists = errors.New("record already exists")
	// ErrNotFound is returned by Delete for keys without a record. Backends
	// return it from Get for missing keys.
	ErrNotFound = errors.New("record not found")
	// ErrUnknownOperation is returned for dispatch tags other than Put, Get
	// and Delete.
	ErrUnknownOperation = errors.New("unknown operation")

	errInvalidArguments = errors.New("invalid arguments")
	errNoCaller         = errors.New("no caller in context")
)
