package main

import (
	"encoding/hex"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mr-tron/base58"
)

const (
	hexPrefix    = "0x"
	base58Prefix = "b58:"
)

// parseBytes decodes command line byte string: 0x-prefixed hex, b58:-prefixed
// base58 or plain text otherwise.
func parseBytes(s string) ([]byte, error) {
	switch {
	case strings.HasPrefix(s, hexPrefix):
		b, err := hex.DecodeString(s[len(hexPrefix):])
		if err != nil {
			return nil, fmt.Errorf("decode hex: %w", err)
		}
		return b, nil
	case strings.HasPrefix(s, base58Prefix):
		b, err := base58.Decode(s[len(base58Prefix):])
		if err != nil {
			return nil, fmt.Errorf("decode base58: %w", err)
		}
		return b, nil
	default:
		return []byte(s), nil
	}
}

// formatBytes returns printable text as is and hex with 0x prefix otherwise.
func formatBytes(b []byte) string {
	if utf8.Valid(b) && strings.IndexFunc(string(b), notPrintable) < 0 &&
		!strings.HasPrefix(string(b), hexPrefix) && !strings.HasPrefix(string(b), base58Prefix) {
		return string(b)
	}

	return hexPrefix + hex.EncodeToString(b)
}

func notPrintable(r rune) bool {
	return !unicode.IsPrint(r)
}

func formatResult(res any) string {
	switch v := res.(type) {
	case nil:
		return "null"
	case []byte:
		return formatBytes(v)
	default:
		return fmt.Sprint(v)
	}
}
