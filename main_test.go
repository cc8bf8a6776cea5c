package tripletmap

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

type span struct {
	offset uint32
	length uint16
}

// wordBuffer returns a buffer of n distinct space separated words and the
// spans of those words.
func wordBuffer(n int) ([]byte, []span) {
	buf := make([]byte, 0, n*8)
	spans := make([]span, 0, n)

	for i := range n {
		word := fmt.Sprintf("w%06d", i)
		spans = append(spans, span{offset: uint32(len(buf)), length: uint16(len(word))})
		buf = append(buf, word...)
		buf = append(buf, ' ')
	}

	return buf, spans
}

func (s span) bytes(buf []byte) []byte {
	return buf[s.offset : s.offset+uint32(s.length)]
}

// requireRobinHood scans the whole table and checks the Robin-Hood
// ordering, the live counter and the load threshold.
func requireRobinHood(t *testing.T, tt *table) {
	t.Helper()

	live := 0
	for i := range tt.slots {
		e := &tt.slots[i]
		if e.Hash == 0 {
			continue
		}
		live++

		pos := uint32(i)
		d := tt.distance(e.Hash, pos)
		home := tt.position(e.Hash)

		// Nobody on the way from home was richer than e when e passed by.
		for j := range d {
			p := (home + j) & tt.mask
			o := &tt.slots[p]

			if o.Hash == 0 {
				t.Fatalf("hole at %d inside the probe run of slot %d", p, pos)
			}
			if tt.distance(o.Hash, p) < j {
				t.Fatalf("slot %d is richer than slot %d", p, pos)
			}
		}

		next := (pos + 1) & tt.mask
		if o := &tt.slots[next]; o.Hash != 0 && tt.distance(o.Hash, next) > d+1 {
			t.Fatalf("distance jumps between slots %d and %d", pos, next)
		}
	}

	require.Equal(t, tt.size, live)
	require.Less(t, tt.size, tt.threshold)
}

func countsOf(t *testing.T, m *Map) map[string]uint16 {
	t.Helper()

	counts := make(map[string]uint16, m.Len())
	for e := range m.All() {
		text := string(m.Text(e))

		_, dup := counts[text]
		require.Falsef(t, dup, "span %q stored twice", text)

		counts[text] = e.Count
	}

	return counts
}
