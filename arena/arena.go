// Package arena provides a monotonic bump allocator.
//
// An Arena hands out memory from large blocks it owns and never takes any of
// it back individually: Free is a no-op and memory is only given up in bulk by
// Release. Blocks are obtained from the Go runtime once and are never
// recycled, so every allocation is zeroed.
//
// Memory handed out by an Arena is not scanned by the garbage collector as
// pointer-carrying memory. Only allocate pointer-free types from it.
package arena

import (
	"math"
	"unsafe"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// DefaultBlockSize is the size of a regular arena block.
const DefaultBlockSize = 4 << 20

var arenaStats = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "arena_stats_total",
	Help: "Aggregate allocation stats of bump arenas",
}, []string{"metric"})

var (
	blocksCounter   = arenaStats.WithLabelValues("blocks")
	allocsCounter   = arenaStats.WithLabelValues("allocs")
	allocBytes      = arenaStats.WithLabelValues("alloc_bytes")
	reservedCounter = arenaStats.WithLabelValues("reserved_bytes")
)

// Arena is a bump allocator over a growable list of blocks.
// It is not safe for concurrent use.
type Arena struct {
	blocks    [][]byte
	cur       []byte
	off       int
	blockSize int

	allocs   int
	used     int
	reserved int
}

// Stats describes how much memory an arena holds.
type Stats struct {
	Blocks        int
	Allocs        int
	UsedBytes     int
	ReservedBytes int
}

// New returns an arena whose regular blocks are blockSize bytes long.
// A non-positive blockSize selects DefaultBlockSize. No memory is reserved
// until the first allocation.
func New(blockSize int) *Arena {
	if blockSize <= 0 {
		blockSize = DefaultBlockSize
	}

	return &Arena{blockSize: blockSize}
}

// BlockSize returns the size of a regular block.
func (a *Arena) BlockSize() int {
	return a.blockSize
}

// Alloc returns size zeroed bytes whose first byte is aligned to align.
// When the current block cannot satisfy the request a new block of
// max(size, BlockSize()) bytes is reserved and the cursor restarts there.
//
// align must be a power of two. Alloc panics on invalid arguments; a failing
// backing allocation is fatal.
func (a *Arena) Alloc(size, align int) []byte {
	if size < 0 {
		panic("arena: negative allocation size")
	}
	if align <= 0 || align&(align-1) != 0 {
		panic("arena: alignment must be a power of two")
	}
	if size == 0 {
		return nil
	}

	start, ok := a.fit(size, align)
	if !ok {
		a.newBlock(size + align - 1)

		start, _ = a.fit(size, align)
	}

	a.off = start + size
	a.allocs++
	a.used += size

	allocsCounter.Inc()
	allocBytes.Add(float64(size))

	return a.cur[start : start+size : start+size]
}

// Free is a no-op: an arena reclaims memory only in Release.
func (a *Arena) Free(b []byte) {}

// Release drops every block the arena owns. Slices handed out earlier stay
// valid for as long as they are referenced; the arena just forgets them.
func (a *Arena) Release() {
	clear(a.blocks)

	a.blocks = a.blocks[:0]
	a.cur = nil
	a.off = 0
	a.allocs = 0
	a.used = 0
	a.reserved = 0
}

func (a *Arena) Stats() Stats {
	return Stats{
		Blocks:        len(a.blocks),
		Allocs:        a.allocs,
		UsedBytes:     a.used,
		ReservedBytes: a.reserved,
	}
}

// fit returns the offset within the current block at which an aligned
// allocation of size bytes starts, if it fits.
func (a *Arena) fit(size, align int) (int, bool) {
	if a.cur == nil {
		return 0, false
	}

	base := uintptr(unsafe.Pointer(unsafe.SliceData(a.cur)))
	mask := uintptr(align - 1)
	pad := int((uintptr(align) - (base+uintptr(a.off))&mask) & mask)
	start := a.off + pad

	if start > len(a.cur)-size {
		return 0, false
	}

	return start, true
}

func (a *Arena) newBlock(need int) {
	n := max(need, a.blockSize)
	block := make([]byte, n)

	a.blocks = append(a.blocks, block)
	a.cur = block
	a.off = 0
	a.reserved += n

	blocksCounter.Inc()
	reservedCounter.Add(float64(n))
}

// AllocSlice allocates a zeroed slice of n values of type T from the arena.
// T must not contain pointers.
func AllocSlice[T any](a *Arena, n int) []T {
	var zero T

	size := int(unsafe.Sizeof(zero))
	if n < 0 || (size > 0 && n > math.MaxInt/size) {
		panic("arena: slice length out of range")
	}
	if n == 0 {
		return nil
	}
	if size == 0 {
		return make([]T, n)
	}

	buf := a.Alloc(size*n, int(unsafe.Alignof(zero)))

	return unsafe.Slice((*T)(unsafe.Pointer(unsafe.SliceData(buf))), n)
}

// FreeSlice is the typed counterpart of Free and is a no-op as well.
func FreeSlice[T any](a *Arena, s []T) {}
