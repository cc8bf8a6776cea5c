// Package reference counts triplets with the builtin map. It is slow and
// simple on purpose and serves as the oracle the triplet table is checked
// against.
package reference

import (
	"bytes"
	"iter"
	"unsafe"

	"github.com/homier/tripletmap/arena"
	"github.com/homier/tripletmap/internal/tokenize"
)

// Counts holds triplet counts in the order triplets were first seen.
type Counts struct {
	index  map[string]int
	keys   []string
	counts []int

	words    int
	triplets int
}

// Count counts the triplets of text. text is left untouched: it is copied
// into a, whose memory backs every key of the result.
func Count(text []byte, a *arena.Arena) *Counts {
	slab := a.Alloc(len(text), 1)
	copy(slab, text)

	normalized := tokenize.Normalize(slab)

	c := &Counts{index: make(map[string]int)}

	var starts [tokenize.WindowSize]int
	var ends [tokenize.WindowSize]int

	pos := 0
	for _, word := range bytes.Fields(normalized) {
		start := pos + bytes.Index(normalized[pos:], word)
		pos = start + len(word)

		copy(starts[:], starts[1:])
		copy(ends[:], ends[1:])
		starts[tokenize.WindowSize-1] = start
		ends[tokenize.WindowSize-1] = pos

		c.words++
		if c.words < tokenize.WindowSize {
			continue
		}

		key := normalized[starts[0]:ends[tokenize.WindowSize-1]]
		c.add(unsafe.String(unsafe.SliceData(key), len(key)))
	}

	return c
}

func (c *Counts) add(key string) {
	c.triplets++

	if i, ok := c.index[key]; ok {
		c.counts[i]++
		return
	}

	c.index[key] = len(c.keys)
	c.keys = append(c.keys, key)
	c.counts = append(c.counts, 1)
}

// Get returns the count of a normalized triplet.
func (c *Counts) Get(triplet string) int {
	if i, ok := c.index[triplet]; ok {
		return c.counts[i]
	}

	return 0
}

// Len returns the number of distinct triplets.
func (c *Counts) Len() int {
	return len(c.keys)
}

func (c *Counts) Words() int {
	return c.words
}

func (c *Counts) Triplets() int {
	return c.triplets
}

// All iterates over distinct triplets in first-seen order.
func (c *Counts) All() iter.Seq2[[]byte, int] {
	return func(yield func([]byte, int) bool) {
		for i, key := range c.keys {
			if !yield(unsafe.Slice(unsafe.StringData(key), len(key)), c.counts[i]) {
				return
			}
		}
	}
}
