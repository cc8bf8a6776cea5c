package tripletmap

import (
	"bytes"
	"math"

	"github.com/homier/tripletmap/arena"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	// DefaultCapacity is the initial number of slots.
	DefaultCapacity = 1 << 18

	// DefaultLoadFactor is the occupancy, in percent, at which the table
	// doubles.
	DefaultLoadFactor = 90

	minCapacity   = 16
	minLoadFactor = 25
	maxLoadFactor = 100
	maxCapacity   = 1 << 31
)

var growsCounter = promauto.NewCounter(prometheus.CounterOpts{
	Name: "tripletmap_grows_total",
	Help: "Number of times a triplet table doubled its capacity",
})

// table is a Robin-Hood open-addressing hash table over span views.
//
// Every occupied slot is at most as far from its home slot as the search for
// any key that probes past it: along a probe run, occupants are never
// "richer" (closer to home) than a key that is still looking. Lookups stop as
// soon as they meet a richer occupant or an empty slot.
type table struct {
	buf   []byte
	slots []Entry

	mask      uint32
	size      int
	threshold int
	grows     int

	capacity   int
	loadFactor int

	arena    *arena.Arena
	hashFunc HashFunc
}

type Option func(t *table)

// WithCapacity sets the initial number of slots, rounded up to a power of 2.
func WithCapacity(capacity int) Option {
	return func(t *table) {
		t.capacity = capacity
	}
}

// WithMemory sets the initial capacity to the number of slots that fit
// into size bytes.
func WithMemory(size uintptr) Option {
	return func(t *table) {
		t.capacity = CapacityFromSize(size)
	}
}

// WithLoadFactor sets the occupancy percentage at which the table grows.
// Values are clamped to [25, 100].
func WithLoadFactor(percent int) Option {
	return func(t *table) {
		t.loadFactor = min(max(percent, minLoadFactor), maxLoadFactor)
	}
}

// WithArena makes the table allocate its slots from a. Outgrown slot arrays
// stay in a until a.Release.
func WithArena(a *arena.Arena) Option {
	return func(t *table) {
		t.arena = a
	}
}

// Override default hash function.
func WithHashFunc(f HashFunc) Option {
	return func(t *table) {
		t.hashFunc = func(b []byte) uint32 {
			return nonZero(f(b))
		}
	}
}

func (t *table) init(buf []byte, opts ...Option) {
	t.buf = buf
	t.capacity = DefaultCapacity
	t.loadFactor = DefaultLoadFactor

	for _, opt := range opts {
		opt(t)
	}

	if t.hashFunc == nil {
		t.hashFunc = Hash
	}
	if t.arena == nil {
		t.arena = arena.New(arena.DefaultBlockSize)
	}

	capacity := min(max(t.capacity, minCapacity), maxCapacity)
	t.allocate(int(NextPowerOf2(uint32(capacity))))
}

func (t *table) allocate(capacity int) {
	t.slots = arena.AllocSlice[Entry](t.arena, capacity)
	t.mask = uint32(capacity - 1)
	t.threshold = capacity * t.loadFactor / 100
}

//go:inline
func (t *table) position(hash uint32) uint32 {
	return hash & t.mask
}

// distance returns how far the occupant of pos is from its home slot.
//
//go:inline
func (t *table) distance(hash, pos uint32) uint32 {
	return (t.mask + 1 + pos - t.position(hash)) & t.mask
}

func (t *table) span(e *Entry) []byte {
	start := int(e.Offset)

	return t.buf[start : start+int(e.Length)]
}

func (t *table) find(key []byte, hash uint32) *Entry {
	if len(key) > math.MaxUint16 {
		return nil
	}

	length := uint16(len(key))
	pos := t.position(hash)

	for dist := uint32(0); ; dist++ {
		e := &t.slots[pos]

		// 1. Empty slot terminates the probe run.
		if e.Hash == 0 {
			return nil
		}

		// 2. A richer occupant means the key would have been stored here.
		if dist > t.distance(e.Hash, pos) {
			return nil
		}

		// 3. Cheap check first, bytes decide.
		if e.sameKey(length, hash) && bytes.Equal(t.span(e), key) {
			return e
		}

		pos = (pos + 1) & t.mask
	}
}

// mergeInsert increments the count of the span buf[offset:offset+length] or
// inserts it with a count of 1.
func (t *table) mergeInsert(offset uint32, length uint16, hash uint32) {
	key := t.buf[int(offset) : int(offset)+int(length)]
	pos := t.position(hash)
	dist := uint32(0)

	for {
		e := &t.slots[pos]
		if e.Hash == 0 {
			break
		}

		if dist > t.distance(e.Hash, pos) {
			break
		}

		if e.sameKey(length, hash) && bytes.Equal(t.span(e), key) {
			e.Count++
			return
		}

		pos = (pos + 1) & t.mask
		dist++
	}

	// The key is absent and belongs at pos.
	candidate := Entry{Offset: offset, Hash: hash, Length: length, Count: 1}

	t.size++
	if t.size >= t.threshold {
		t.grow()
		t.insert(candidate)

		return
	}

	t.insertAt(candidate, pos, dist)
}

func (t *table) insert(e Entry) {
	t.insertAt(e, t.position(e.Hash), 0)
}

// insertAt places e, which is dist slots away from home at pos, stealing
// slots from richer occupants and re-homing them further down the run.
func (t *table) insertAt(e Entry, pos, dist uint32) {
	for {
		slot := &t.slots[pos]
		if slot.Hash == 0 {
			*slot = e
			return
		}

		if d := t.distance(slot.Hash, pos); dist > d {
			e, *slot = *slot, e
			dist = d
		}

		pos = (pos + 1) & t.mask
		dist++
	}
}

// grow doubles the capacity and re-inserts every entry. Home slots depend
// on the mask, so entries can't be copied over as is.
func (t *table) grow() {
	old := t.slots
	capacity := len(old) * 2
	if capacity > maxCapacity {
		panic("tripletmap: table capacity exhausted")
	}

	t.allocate(capacity)

	for i := range old {
		if old[i].Hash != 0 {
			t.insert(old[i])
		}
	}

	arena.FreeSlice(t.arena, old)

	t.grows++
	growsCounter.Inc()
}
