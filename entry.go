package tripletmap

// Entry is a single table slot: a view into the shared buffer together with
// its precomputed hash and the number of times it was merged.
//
// The layout is 12 bytes with no pointers, so a table of entries is a flat
// array the arena can hand out and the garbage collector never scans.
// Five entries fit into a 64-byte cache line.
type Entry struct {
	// Offset of the first byte of the span within the shared buffer.
	Offset uint32

	// Hash of the span. Zero marks an empty slot, real spans never hash to
	// zero (see Hash).
	Hash uint32

	// Length of the span in bytes.
	Length uint16

	// Count of merged occurrences. It wraps around after 65535 occurrences,
	// which is far beyond the per-triplet frequency of natural text.
	Count uint16
}

// Empty reports whether the entry denotes an empty slot.
func (e Entry) Empty() bool {
	return e.Hash == 0
}

// sameKey is the cheap pre-check done before comparing span bytes.
func (e *Entry) sameKey(length uint16, hash uint32) bool {
	return e.Hash == hash && e.Length == length
}
