package common

import "github.com/nspcc-dev/neo-go/pkg/interop/native/std"

// Type bytes std.Serialize puts in front of byte string items.
const (
	byteStringType = 0x28
	bufferType     = 0x30
)

// BytesArgs returns dispatcher arguments as byte slices. The second result is
// false if there are not exactly n arguments or any of them is not a byte
// string, in which case nothing must be converted.
func BytesArgs(args []any, n int) ([][]byte, bool) {
	if len(args) != n {
		return nil, false
	}

	var res [][]byte
	for i := 0; i < n; i++ {
		if !isBytes(args[i]) {
			return nil, false
		}
		res = append(res, args[i].([]byte))
	}

	return res, true
}

func isBytes(arg any) bool {
	data := std.Serialize(arg)
	return data[0] == byteStringType || data[0] == bufferType
}
