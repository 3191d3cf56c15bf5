package common

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
)

const (
	// ErrOwnerWitnessFailed appears when the method must be called
	// by the owner of the record but was not.
	ErrOwnerWitnessFailed = "owner witness check failed"
	// ErrWitnessFailed appears when the method must be called
	// by the transaction sender but its witness is missing.
	ErrWitnessFailed = "witness check failed"
)

// Sender returns the account that sent the transaction being executed. It's
// the identity new records are bound to.
func Sender() interop.Hash160 {
	return runtime.GetScriptContainer().Sender
}

// CheckOwnerWitness checks witness of the passed record owner.
// It logs ErrOwnerWitnessFailed message prefixed with op and returns
// false on fail.
func CheckOwnerWitness(op string, owner interop.Hash160) bool {
	return checkWitnessWithLog(owner, op+": "+ErrOwnerWitnessFailed)
}

// CheckWitness checks witness of the passed caller.
// It logs ErrWitnessFailed message prefixed with op and returns
// false on fail.
func CheckWitness(op string, caller interop.Hash160) bool {
	return checkWitnessWithLog(caller, op+": "+ErrWitnessFailed)
}

func checkWitnessWithLog(caller interop.Hash160, msg string) bool {
	if !runtime.CheckWitness(caller) {
		runtime.Log(msg)
		return false
	}

	return true
}
