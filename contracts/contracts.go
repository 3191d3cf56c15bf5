/*
Package contracts provides access to compiled Owned KV contracts.
*/
package contracts

import (
	"encoding/json"
	"errors"
	"fmt"
	stdio "io"
	"io/fs"
	"os"

	"github.com/nspcc-dev/neo-go/pkg/io"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/nef"
)

const (
	// OwnedKVDir is a directory of the Owned KV contract.
	OwnedKVDir = "ownedkv"
	// ForwarderDir is a directory of the Forwarder contract.
	ForwarderDir = "forwarder"

	nefName      = "contract.nef"
	manifestName = "manifest.json"
)

// Contract groups information about Neo contract compiled from the current
// repository.
type Contract struct {
	NEF      nef.File
	Manifest manifest.Manifest
}

var (
	errInvalidNEF      = errors.New("invalid NEF")
	errInvalidManifest = errors.New("invalid manifest")
)

// ReadDir reads NEF and manifest of the contract compiled into the given
// directory of the local file system. The directory must contain contract.nef
// and manifest.json files.
func ReadDir(dir string) (Contract, error) {
	return Read(os.DirFS(dir), ".")
}

// Read reads the contract compiled into dir of the given file system.
func Read(fsys fs.FS, dir string) (Contract, error) {
	c, err := readContractFromDir(fsys, dir)
	if err != nil {
		return c, fmt.Errorf("read contract %s: %w", dir, err)
	}

	return c, nil
}

// ReadFiles reads the contract from explicitly named NEF and manifest files.
func ReadFiles(nefPath, manifestPath string) (Contract, error) {
	var c Contract

	fNEF, err := os.Open(nefPath)
	if err != nil {
		return c, fmt.Errorf("open NEF: %w", err)
	}
	defer fNEF.Close()

	fManifest, err := os.Open(manifestPath)
	if err != nil {
		return c, fmt.Errorf("open manifest: %w", err)
	}
	defer fManifest.Close()

	return decode(fNEF, fManifest)
}

func readContractFromDir(fsys fs.FS, dir string) (Contract, error) {
	var c Contract

	// fs.FS always uses "/" even on Windows, so filepath.Join() is not
	// applicable.
	fNEF, err := fsys.Open(dir + "/" + nefName)
	if err != nil {
		return c, fmt.Errorf("open NEF: %w", err)
	}
	defer fNEF.Close()

	fManifest, err := fsys.Open(dir + "/" + manifestName)
	if err != nil {
		return c, fmt.Errorf("open manifest: %w", err)
	}
	defer fManifest.Close()

	return decode(fNEF, fManifest)
}

func decode(rNEF, rManifest stdio.Reader) (Contract, error) {
	var c Contract

	bReader := io.NewBinReaderFromIO(rNEF)
	c.NEF.DecodeBinary(bReader)
	if bReader.Err != nil {
		return c, fmt.Errorf("%w: %v", errInvalidNEF, bReader.Err)
	}

	err := json.NewDecoder(rManifest).Decode(&c.Manifest)
	if err != nil {
		return c, fmt.Errorf("%w: %v", errInvalidManifest, err)
	}

	return c, nil
}
