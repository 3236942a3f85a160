package hash

import (
	"fmt"
	"hash/fnv"
)

// Bytes returns the FNV-1a 64-bit hash of data as a hex string.
func Bytes(data []byte) string {
	h := fnv.New64a()
	h.Write(data) // nolint:errcheck // hash.Hash never returns an error
	return fmt.Sprintf("%x", h.Sum64())
}

// ETag returns a strong entity tag for body.
func ETag(body string) string {
	return `"` + Bytes([]byte(body)) + `"`
}
