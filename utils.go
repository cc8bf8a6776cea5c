package tripletmap

import (
	"math/bits"
	"unsafe"
)

// Returns the next power of 2 for the given value `v`.
func NextPowerOf2(v uint32) uint32 {
	return uint32(1) << min(bits.Len32(v-1), 31)
}

// Estimates capacity (number of slots) from the given memory size in bytes.
// Table capacities are powers of 2, so the result is rounded down to one.
func CapacityFromSize(size uintptr) int {
	slots := size / unsafe.Sizeof(Entry{})
	if slots == 0 {
		return 0
	}

	return 1 << (bits.Len(uint(slots)) - 1)
}
