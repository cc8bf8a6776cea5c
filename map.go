package tripletmap

import (
	"iter"
	"math"

	"github.com/samber/mo"
)

// Map counts occurrences of spans of a single shared buffer.
//
// The map never copies span bytes: entries only keep offsets into the buffer
// passed to New, which must stay unchanged for the lifetime of the map.
// There is no deletion. Map is not safe for concurrent use.
//
// Slot arrays come from the map's arena, which never frees them one by one:
// every array outgrown by the table stays reserved until the arena is
// released, so the slots of a map take up to twice the final array size.
type Map struct {
	table
}

// Returns a new map over buf.
func New(buf []byte, opts ...Option) *Map {
	var m Map
	m.init(buf, opts...)

	return &m
}

// Merge counts one occurrence of buf[offset:offset+length], whose hash was
// computed with the map's hash function (see Hash).
func (m *Map) Merge(offset uint32, length uint16, hash uint32) {
	m.mergeInsert(offset, length, nonZero(hash))
}

// MergeSpan hashes buf[offset:offset+length] and merges it. It reports
// false, counting nothing, when the span can't be addressed by an Entry
// (see Addressable). offset+length must lie within the buffer.
func (m *Map) MergeSpan(offset, length int) bool {
	if !Addressable(offset, length) {
		return false
	}

	m.mergeInsert(uint32(offset), uint16(length), m.hashFunc(m.buf[offset:offset+length]))
	return true
}

// Addressable reports whether an Entry can hold a span starting at offset
// that is length bytes long.
func Addressable(offset, length int) bool {
	return offset >= 0 && uint64(offset) <= math.MaxUint32 &&
		length >= 0 && length <= math.MaxUint16
}

// Find returns the entry of buf[offset:offset+length] or nil. The pointer is
// valid until the next Merge. offset+length must lie within the buffer.
func (m *Map) Find(offset uint32, length uint16, hash uint32) *Entry {
	return m.find(m.buf[int(offset):int(offset)+int(length)], nonZero(hash))
}

// Lookup returns the entry of a span equal to key, which doesn't need to
// live in the shared buffer.
func (m *Map) Lookup(key []byte) mo.Option[Entry] {
	if e := m.find(key, m.hashFunc(key)); e != nil {
		return mo.Some(*e)
	}

	return mo.None[Entry]()
}

// Hash hashes b with the map's hash function.
func (m *Map) Hash(b []byte) uint32 {
	return m.hashFunc(b)
}

// Text returns the bytes an entry refers to. The entry's span must lie
// within the buffer, which holds for every entry the map returned.
func (m *Map) Text(e Entry) []byte {
	return m.span(&e)
}

// Buffer returns the shared buffer.
func (m *Map) Buffer() []byte {
	return m.buf
}

// Len returns the number of distinct spans.
func (m *Map) Len() int {
	return m.size
}

// Cap returns the number of slots.
func (m *Map) Cap() int {
	return len(m.slots)
}

// All iterates over occupied slots in slot order.
func (m *Map) All() iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		for i := range m.slots {
			if m.slots[i].Hash == 0 {
				continue
			}
			if !yield(m.slots[i]) {
				return
			}
		}
	}
}

// Counts iterates over the text and count of every entry in slot order.
func (m *Map) Counts() iter.Seq2[[]byte, int] {
	return func(yield func([]byte, int) bool) {
		for e := range m.All() {
			if !yield(m.Text(e), int(e.Count)) {
				return
			}
		}
	}
}
