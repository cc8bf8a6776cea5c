// Package rank selects the most frequent triplets.
package rank

import (
	"iter"
	"slices"
)

type Item struct {
	Text  string
	Count int
}

// Top returns up to n items with the highest counts, in descending order.
//
// An item only displaces a kept one when its count is strictly greater, so
// among equal counts the one yielded first wins.
func Top(seq iter.Seq2[[]byte, int], n int) []Item {
	if n <= 0 {
		return nil
	}

	top := make([]Item, 0, n)

	for text, count := range seq {
		if len(top) == n && count <= top[n-1].Count {
			continue
		}

		// First position holding a strictly smaller count.
		i, _ := slices.BinarySearchFunc(top, count, func(it Item, c int) int {
			if it.Count >= c {
				return -1
			}
			return 1
		})

		if len(top) == n {
			top = top[:n-1]
		}
		top = slices.Insert(top, i, Item{Text: string(text), Count: count})
	}

	return top
}
