package common

import "github.com/nspcc-dev/neo-go/pkg/interop/native/std"

// Owned KV contracts share one version, it matches the VERSION file of the
// repository. The number is major*1_000_000 + minor*1_000 + patch.
const (
	major = 0
	minor = 2
	patch = 0

	Version = major*1_000_000 + minor*1_000 + patch
)

// Records and owners are stored in the same layout since 0.1.0, so contracts
// of any release starting from it are updated in place without data
// migration. Raise the oldest version once a release changes storage layout
// and its _deploy gets a migration routine.
const (
	oldestMajor = 0
	oldestMinor = 1
	oldestPatch = 0

	PrevVersion = oldestMajor*1_000_000 + oldestMinor*1_000 + oldestPatch
)

// Update failures.
const (
	ErrVersionMismatch = "update from unsupported version"
	ErrAlreadyUpdated  = "contract is already of this version"
)

// CheckVersion panics unless the contract of version from can be updated to
// Version. It is called by _deploy on update with the version Update appended.
func CheckVersion(from int) {
	if from < PrevVersion {
		panic(ErrVersionMismatch + ": " + std.Itoa(from, 10) + " < " + std.Itoa(PrevVersion, 10))
	}
	if from == Version {
		panic(ErrAlreadyUpdated + ": " + std.Itoa(Version, 10))
	}
}

// AppendVersion adds Version of the running contract to the update data, so
// the new contract's _deploy knows which version it replaces.
func AppendVersion(data any) []any {
	if data == nil {
		return []any{Version}
	}
	return append(data.([]any), Version)
}
