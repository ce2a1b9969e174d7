// Package random seeds math/rand sources from operating system entropy,
// so injectable generators stay deterministic in tests yet unpredictable
// in production.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"time"
)

// NewSeed returns a high-entropy seed for a math/rand source. When the
// entropy source is unavailable it falls back to the wall clock rather
// than failing, since callers only need non-repeating seeds.
func NewSeed() int64 {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return time.Now().UnixNano()
	}
	return int64(binary.LittleEndian.Uint64(b[:]))
}
