package contracts

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/nef"
	"github.com/stretchr/testify/require"
)

func TestReadMissingFiles(t *testing.T) {
	_fs := fstest.MapFS{}

	// Missing NEF
	_, err := Read(_fs, OwnedKVDir)
	require.Error(t, err)

	// Missing manifest.
	_fs[OwnedKVDir+"/"+nefName] = &fstest.MapFile{}
	_, err = Read(_fs, OwnedKVDir)
	require.Error(t, err)
}

func TestReadInvalidFormat(t *testing.T) {
	var (
		_fs          = fstest.MapFS{}
		nefPath      = OwnedKVDir + "/" + nefName
		manifestPath = OwnedKVDir + "/" + manifestName
	)

	validNEF, bNEF := anyValidNEF(t)
	validManifest, bManifest := anyValidManifest(t, "Owned KV")

	_fs[nefPath] = &fstest.MapFile{Data: bNEF}
	_fs[manifestPath] = &fstest.MapFile{Data: bManifest}

	c, err := Read(_fs, OwnedKVDir)
	require.NoError(t, err)
	require.Equal(t, validNEF.Checksum, c.NEF.Checksum)
	require.Equal(t, validManifest.Name, c.Manifest.Name)

	_fs[nefPath] = &fstest.MapFile{Data: []byte("not a NEF")}
	_fs[manifestPath] = &fstest.MapFile{Data: bManifest}

	_, err = Read(_fs, OwnedKVDir)
	require.ErrorIs(t, err, errInvalidNEF)

	_fs[nefPath] = &fstest.MapFile{Data: bNEF}
	_fs[manifestPath] = &fstest.MapFile{Data: []byte("not a manifest")}

	_, err = Read(_fs, OwnedKVDir)
	require.ErrorIs(t, err, errInvalidManifest)
}

func TestReadFromDisk(t *testing.T) {
	dir := t.TempDir()

	_, bNEF := anyValidNEF(t)
	_, bManifest := anyValidManifest(t, "Owned KV Forwarder")

	require.NoError(t, os.WriteFile(filepath.Join(dir, nefName), bNEF, 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, manifestName), bManifest, 0o600))

	c, err := ReadDir(dir)
	require.NoError(t, err)
	require.Equal(t, "Owned KV Forwarder", c.Manifest.Name)

	c, err = ReadFiles(filepath.Join(dir, nefName), filepath.Join(dir, manifestName))
	require.NoError(t, err)
	require.Equal(t, "Owned KV Forwarder", c.Manifest.Name)

	_, err = ReadFiles(filepath.Join(dir, "missing.nef"), filepath.Join(dir, manifestName))
	require.Error(t, err)
}

func anyValidNEF(tb testing.TB) (nef.File, []byte) {
	script := make([]byte, 32)

	_nef, err := nef.NewFile(script)
	require.NoError(tb, err)

	bNEF, err := _nef.Bytes()
	require.NoError(tb, err)

	return *_nef, bNEF
}

func anyValidManifest(tb testing.TB, name string) (manifest.Manifest, []byte) {
	_manifest := manifest.NewManifest(name)

	jManifest, err := json.Marshal(_manifest)
	require.NoError(tb, err)

	return *_manifest, jManifest
}
