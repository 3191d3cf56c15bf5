package kv

import (
	"errors"
	"fmt"

	"github.com/nspcc-dev/neo-go/pkg/io"
	"github.com/nspcc-dev/neo-go/pkg/util"
)

// Record is a value bound to its owner.
type Record struct {
	Value []byte
	Owner util.Uint160
}

// Bytes returns binary representation of the record: value as variable-length
// bytes followed by the owner script hash. Value size is not limited.
func (r Record) Bytes() ([]byte, error) {
	w := io.NewBufBinWriter()
	w.WriteVarBytes(r.Value)
	r.Owner.EncodeBinary(w.BinWriter)
	if w.Err != nil {
		return nil, fmt.Errorf("encode record: %w", w.Err)
	}

	return w.Bytes(), nil
}

// DecodeRecord decodes Record from its binary representation.
func DecodeRecord(data []byte) (Record, error) {
	var r Record

	br := io.NewBinReaderFromBuf(data)
	r.Value = br.ReadVarBytes(len(data))
	r.Owner.DecodeBinary(br)
	if br.Err != nil {
		return r, fmt.Errorf("decode record: %w", br.Err)
	}

	if io.GetVarSize(r.Value)+util.Uint160Size != len(data) {
		return r, errors.New("decode record: trailing data")
	}

	if r.Value == nil {
		r.Value = []byte{}
	}

	return r, nil
}
