package hash

import (
	"crypto/sha256"
	"encoding/binary"
)

// SHA256 returns the 32 bytes SHA256 hash of the concatenated parts
func SHA256(parts ...[]byte) []byte {
	h := sha256.New()
	for _, p := range parts {
		// hash.Hash never returns an error on Write
		_, _ = h.Write(p)
	}
	return h.Sum(nil)
}

// Seed derives a pair of 64 bit PCG seeds from a base seed and a name.
//
// The same (base, name) pair always produces the same seeds, while different names
// produce unrelated ones. This is how every input file gets its own random source.
func Seed(base uint64, name string) (uint64, uint64) {
	sum := SHA256(binary.BigEndian.AppendUint64(nil, base), []byte(name))
	return binary.BigEndian.Uint64(sum[:8]), binary.BigEndian.Uint64(sum[8:16])
}
