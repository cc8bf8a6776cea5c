package tripletmap

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/cespare/xxhash/v2"
	"github.com/segmentio/fasthash/fnv1a"
	"github.com/zeebo/xxh3"
)

const fnvPrime = 16777619

// DefaultHashName is the name of Hash in ParseHashFunc.
const DefaultHashName = "fnv4"

var ErrUnknownHash = errors.New("unknown hash function")

// HashFunc hashes a span. It must never return 0, the empty-slot marker.
type HashFunc func(b []byte) uint32

var hashFuncs = map[string]HashFunc{
	DefaultHashName: Hash,
	"fnv1a":         HashFNV1a,
	"xxhash":        HashXXHash,
	"xxh3":          HashXXH3,
}

// Hash is an FNV-1a variant split over 4 independent lanes.
//
// The lanes are seeded with the last four bytes and each one folds in every
// 4th preceding byte, walking towards the start of the span. Lanes are XORed
// together at the end.
//
// Spans shorter than 4 bytes are hashed with plain FNV-1a. The result is
// never 0.
func Hash(b []byte) uint32 {
	n := len(b)
	if n < 4 {
		return HashFNV1a(b)
	}

	h1 := uint32(b[n-1]) * fnvPrime
	h2 := uint32(b[n-2]) * fnvPrime
	h3 := uint32(b[n-3]) * fnvPrime
	h4 := uint32(b[n-4]) * fnvPrime
	n -= 4

	for n > 3 {
		h1 = (h1 ^ uint32(b[n-1])) * fnvPrime
		h2 = (h2 ^ uint32(b[n-2])) * fnvPrime
		h3 = (h3 ^ uint32(b[n-3])) * fnvPrime
		h4 = (h4 ^ uint32(b[n-4])) * fnvPrime
		n -= 4
	}

	// Up to 3 leading bytes left.
	if n > 2 {
		h1 = (h1 ^ uint32(b[n-3])) * fnvPrime
	}
	if n > 1 {
		h2 = (h2 ^ uint32(b[n-2])) * fnvPrime
	}
	if n > 0 {
		h3 = (h3 ^ uint32(b[n-1])) * fnvPrime
	}

	return nonZero(h1 ^ h2 ^ h3 ^ h4)
}

// HashFNV1a is the scalar 32-bit FNV-1a hash, never 0.
func HashFNV1a(b []byte) uint32 {
	return nonZero(fnv1a.HashBytes32(b))
}

// HashXXHash folds the 64-bit xxHash of b into 32 bits, never 0.
func HashXXHash(b []byte) uint32 {
	return fold(xxhash.Sum64(b))
}

// HashXXH3 folds the 64-bit XXH3 hash of b into 32 bits, never 0.
func HashXXH3(b []byte) uint32 {
	return fold(xxh3.Hash(b))
}

// ParseHashFunc returns the hash function registered under name.
func ParseHashFunc(name string) (HashFunc, error) {
	f, ok := hashFuncs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (known: %v)", ErrUnknownHash, name, HashFuncNames())
	}

	return f, nil
}

// HashFuncNames lists the names accepted by ParseHashFunc.
func HashFuncNames() []string {
	return slices.Sorted(maps.Keys(hashFuncs))
}

func fold(h uint64) uint32 {
	return nonZero(uint32(h) ^ uint32(h>>32))
}

//go:inline
func nonZero(h uint32) uint32 {
	if h == 0 {
		return 1
	}

	return h
}
