package tripletmap

import (
	"bytes"
	"math"
	"testing"
	"unsafe"

	"github.com/homier/tripletmap/arena"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMap_Basic(t *testing.T) {
	buf := []byte("the cat sat on the mat the cat sat")
	m := New(buf, WithCapacity(16))

	// Merge with precomputed hash
	m.Merge(0, 11, Hash(buf[0:11]))
	m.Merge(23, 11, Hash(buf[23:34]))

	// Merge with hashing done by the map
	m.MergeSpan(4, 10)

	require.Equal(t, 2, m.Len())
	require.Equal(t, 16, m.Cap())

	e := m.Find(23, 11, Hash(buf[23:34]))
	require.NotNil(t, e)
	assert.Equal(t, uint16(2), e.Count)
	assert.Equal(t, uint32(0), e.Offset)
	assert.Equal(t, "the cat sat", string(m.Text(*e)))

	e = m.Find(4, 10, m.Hash(buf[4:14]))
	require.NotNil(t, e)
	assert.Equal(t, uint16(1), e.Count)
	assert.Equal(t, "cat sat on", string(m.Text(*e)))

	// Never merged
	assert.Nil(t, m.Find(8, 10, Hash(buf[8:18])))
}

func TestMap_Merge_ZeroHash(t *testing.T) {
	// Callers may pass a raw zero hash, it must not turn into an empty slot.
	buf := []byte("abc abc")
	m := New(buf, WithCapacity(16))

	m.Merge(0, 3, 0)
	m.Merge(4, 3, 0)

	require.Equal(t, 1, m.Len())

	e := m.Find(0, 3, 0)
	require.NotNil(t, e)
	assert.False(t, e.Empty())
	assert.Equal(t, uint16(2), e.Count)
}

func TestMap_Lookup(t *testing.T) {
	buf := []byte("to be or not to be")
	m := New(buf, WithCapacity(16))

	m.MergeSpan(0, 5)
	m.MergeSpan(13, 5)

	e, ok := m.Lookup([]byte("to be")).Get()
	require.True(t, ok)
	assert.Equal(t, uint16(2), e.Count)
	assert.Equal(t, uint16(5), e.Length)

	assert.True(t, m.Lookup([]byte("or not")).IsAbsent())
	assert.True(t, m.Lookup(nil).IsAbsent())
	assert.Equal(t, uint16(0), m.Lookup([]byte("not to")).OrEmpty().Count)
}

func TestMap_Lookup_CustomHash(t *testing.T) {
	buf := []byte("one two three four")

	for _, name := range HashFuncNames() {
		t.Run(name, func(t *testing.T) {
			f, err := ParseHashFunc(name)
			require.NoError(t, err)

			m := New(buf, WithCapacity(16), WithHashFunc(f))
			m.MergeSpan(0, 13)
			m.MergeSpan(4, 14)

			e, ok := m.Lookup([]byte("one two three")).Get()
			require.True(t, ok)
			assert.Equal(t, uint16(1), e.Count)
			assert.Equal(t, f(buf[0:13]), m.Hash(buf[0:13]))
		})
	}
}

func TestMap_All(t *testing.T) {
	buf, spans := wordBuffer(500)
	m := New(buf, WithCapacity(16))

	for _, s := range spans {
		m.MergeSpan(int(s.offset), int(s.length))
	}

	var entries []Entry
	for e := range m.All() {
		entries = append(entries, e)
	}

	require.Len(t, entries, 500)

	// Slot order, which is what ties in rankings resolve to.
	var slotOrder []Entry
	for i := range m.slots {
		if !m.slots[i].Empty() {
			slotOrder = append(slotOrder, m.slots[i])
		}
	}
	require.Equal(t, slotOrder, entries)

	texts := lo.Map(entries, func(e Entry, _ int) string {
		return string(m.Text(e))
	})
	require.ElementsMatch(t, lo.Map(spans, func(s span, _ int) string {
		return string(s.bytes(buf))
	}), texts)
}

func TestMap_All_Break(t *testing.T) {
	buf, spans := wordBuffer(50)
	m := New(buf, WithCapacity(16))

	for _, s := range spans {
		m.MergeSpan(int(s.offset), int(s.length))
	}

	n := 0
	for range m.All() {
		n++
		if n == 10 {
			break
		}
	}
	require.Equal(t, 10, n)
}

func TestMap_Empty(t *testing.T) {
	m := New(nil)

	require.Zero(t, m.Len())
	require.Equal(t, DefaultCapacity, m.Cap())
	require.Empty(t, m.Buffer())
	require.True(t, m.Lookup([]byte("a b c")).IsAbsent())

	for range m.All() {
		t.Fatal("empty map yielded an entry")
	}
}

func TestMap_Stats(t *testing.T) {
	m := New(nil, WithCapacity(64))

	stats := m.Stats()
	assert.Equal(t, 0, stats.Size)
	assert.Equal(t, 64, stats.Capacity)
	assert.Equal(t, 57, stats.Threshold) // 64 * 90%
	assert.Equal(t, DefaultLoadFactor, stats.LoadFactor)
	assert.Zero(t, stats.MaxProbeDistance)
	assert.Zero(t, stats.MeanProbeDistance)
	assert.Equal(t, 1, stats.Arena.Allocs)

	buf, spans := wordBuffer(200)
	m = New(buf, WithCapacity(64), WithHashFunc(func(b []byte) uint32 {
		return 1
	}))

	for _, s := range spans[:10] {
		m.MergeSpan(int(s.offset), int(s.length))
	}

	stats = m.Stats()
	assert.Equal(t, 10, stats.Size)
	assert.Equal(t, 9, stats.MaxProbeDistance)
	assert.InDelta(t, 4.5, stats.MeanProbeDistance, 1e-9)

	for _, s := range spans {
		m.MergeSpan(int(s.offset), int(s.length))
	}

	stats = m.Stats()
	assert.Equal(t, 200, stats.Size)
	assert.Equal(t, 256, stats.Capacity)
	assert.Equal(t, 2, stats.Grows)
	assert.Equal(t, 3, stats.Arena.Allocs)
}

func TestMap_WithMemory(t *testing.T) {
	sizeOfEntry := unsafe.Sizeof(Entry{})

	m := New(nil, WithMemory(sizeOfEntry*1000))
	require.Equal(t, 512, m.Cap())

	m = New(nil, WithMemory(0))
	require.Equal(t, minCapacity, m.Cap())
}

func TestMap_SharedArena(t *testing.T) {
	a := arena.New(1 << 20)

	m1 := New([]byte("a b c"), WithCapacity(1024), WithArena(a))
	m2 := New([]byte("d e f"), WithCapacity(1024), WithArena(a))

	m1.MergeSpan(0, 5)
	m2.MergeSpan(0, 5)

	require.True(t, m1.Lookup([]byte("a b c")).IsPresent())
	require.True(t, m1.Lookup([]byte("d e f")).IsAbsent())
	require.True(t, m2.Lookup([]byte("d e f")).IsPresent())

	stats := a.Stats()
	require.Equal(t, 1, stats.Blocks)
	require.Equal(t, 2, stats.Allocs)
	require.Equal(t, 2*1024*int(unsafe.Sizeof(Entry{})), stats.UsedBytes)
}

func TestMap_Counts(t *testing.T) {
	buf := []byte("x y z x y z x y")
	m := New(buf, WithCapacity(16))

	m.MergeSpan(0, 5)
	m.MergeSpan(6, 5)
	m.MergeSpan(2, 5)

	got := map[string]int{}
	for text, count := range m.Counts() {
		got[string(text)] = count
	}

	require.Equal(t, map[string]int{"x y z": 2, "y z x": 1}, got)

	for range m.Counts() {
		break
	}
}

func TestMap_MergeSpan_Addressable(t *testing.T) {
	long := bytes.Repeat([]byte("x"), math.MaxUint16+1)

	tests := []struct {
		name   string
		offset int
		length int
		want   bool
	}{
		{"empty", 0, 0, true},
		{"longest", 0, math.MaxUint16, true},
		{"too long", 0, math.MaxUint16 + 1, false},
		{"negative length", 0, -1, false},
		{"negative offset", -1, 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Addressable(tt.offset, tt.length))

			m := New(long, WithCapacity(16))
			require.Equal(t, tt.want, m.MergeSpan(tt.offset, tt.length))

			if !tt.want {
				require.Zero(t, m.Len())
			}
		})
	}

	require.False(t, Addressable(math.MaxUint32+1, 1))
	require.True(t, Addressable(math.MaxUint32, 0))
}

func TestMap_MergeSpan_TooLongKeepsPrefixClean(t *testing.T) {
	buf := bytes.Repeat([]byte("x"), 70000)
	m := New(buf, WithCapacity(16))

	require.False(t, m.MergeSpan(0, len(buf)))

	// A truncated length would have landed on this prefix.
	prefix := buf[:70000-math.MaxUint16-1]
	require.True(t, m.Lookup(prefix).IsAbsent())
	require.True(t, m.Lookup(buf).IsAbsent())
	require.Zero(t, m.Len())

	require.True(t, m.MergeSpan(0, len(prefix)))
	require.Equal(t, uint16(1), m.Lookup(prefix).OrEmpty().Count)
}

func TestMap_Find_OutsideBuffer(t *testing.T) {
	m := New([]byte("a b c"), WithCapacity(16))
	m.MergeSpan(0, 5)

	require.NotNil(t, m.Find(0, 5, Hash([]byte("a b c"))))
	require.Panics(t, func() { m.Find(3, 5, 1) })
	require.Panics(t, func() { m.Text(Entry{Offset: 4, Length: 2, Hash: 1}) })
}
