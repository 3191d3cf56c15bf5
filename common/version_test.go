package common_test

import (
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/nspcc-dev/ownedkv-contract/common"
	"github.com/stretchr/testify/require"
)

func TestVersionFile(t *testing.T) {
	data, err := os.ReadFile("../VERSION")
	require.NoError(t, err)

	var major, minor, patch int
	_, err = fmt.Sscanf(strings.TrimSpace(string(data)), "v%d.%d.%d", &major, &minor, &patch)
	require.NoError(t, err)

	require.Equal(t, common.Version, major*1_000_000+minor*1_000+patch,
		"VERSION file doesn't match contract version")
	require.Less(t, common.PrevVersion, common.Version)
}

func TestUpdateVersion(t *testing.T) {
	require.NotPanics(t, func() { common.CheckVersion(common.PrevVersion) })

	require.Equal(t, []any{common.Version}, common.AppendVersion(nil))
	require.Equal(t, []any{"data", common.Version}, common.AppendVersion([]any{"data"}))
}
