// SPDX-License-Identifier: MIT

package assign

import (
	"cmp"
	"slices"

	"github.com/emirpasic/gods/trees/binaryheap"
)

// topN writes the n best column ids of row into dst (len n) according to policy.
// idx is scratch of len(row).
func topN(dst []int, row []float64, n int, policy Selection, order, idx []int) {
	switch policy {
	case SelectHeap:
		heapTopN(dst, row, n, order)
		return
	case SelectStable:
		resetIdx(idx)
		slices.SortStableFunc(idx, func(a, b int) int {
			return cmp.Compare(row[b], row[a])
		})
	default:
		resetIdx(idx)
		quickselect(idx, row, n)
	}
	copy(dst, idx[:n])
}

func resetIdx(idx []int) {
	for j := range idx {
		idx[j] = j
	}
}

// quickselect reorders idx so that idx[:n] holds the n columns with the highest scores.
// Order inside either side is unspecified.
// Complexity: O(len(idx)) expected, ties included.
func quickselect(idx []int, row []float64, n int) {
	lo, hi := 0, len(idx)-1
	for lo < hi && n > lo && n <= hi {
		lt, gt := partition(idx, row, lo, hi)
		switch {
		case n < lt:
			hi = lt - 1
		case n > gt+1:
			lo = gt + 1
		default:
			return
		}
	}
}

// partition is a three-way partition in descending score order around the median of
// three. On return idx[lo:lt] scores above the pivot, idx[lt:gt+1] equals it and
// idx[gt+1:hi+1] is below it.
func partition(idx []int, row []float64, lo, hi int) (lt, gt int) {
	mid := lo + (hi-lo)/2
	if row[idx[mid]] > row[idx[lo]] {
		idx[mid], idx[lo] = idx[lo], idx[mid]
	}
	if row[idx[hi]] > row[idx[lo]] {
		idx[hi], idx[lo] = idx[lo], idx[hi]
	}
	if row[idx[mid]] > row[idx[hi]] {
		idx[mid], idx[hi] = idx[hi], idx[mid]
	}
	// idx[hi] now holds the median
	pivot := row[idx[hi]]

	lt, gt = lo, hi
	for i := lo; i <= gt; {
		switch v := row[idx[i]]; {
		case v > pivot:
			idx[lt], idx[i] = idx[i], idx[lt]
			lt++
			i++
		case v < pivot:
			idx[gt], idx[i] = idx[i], idx[gt]
			gt--
		default:
			i++
		}
	}

	return lt, gt
}

// scored is one heap entry: a score and the scan position it was read at.
type scored struct {
	score float64
	pos   int
}

// heapTopN keeps the n highest scores seen while scanning columns in order.
// The heap top is the entry to evict next: lowest score, latest scan position among ties.
// A later column only enters when it beats the top strictly.
func heapTopN(dst []int, row []float64, n int, order []int) {
	h := binaryheap.NewWith(func(a, b interface{}) int {
		x, y := a.(scored), b.(scored)
		if c := cmp.Compare(x.score, y.score); c != 0 {
			return c
		}

		return cmp.Compare(y.pos, x.pos)
	})

	var i int
	for i = 0; i < n; i++ {
		h.Push(scored{score: row[order[i]], pos: i})
	}
	for i = n; i < len(order); i++ {
		top, _ := h.Peek()
		if s := row[order[i]]; s > top.(scored).score {
			h.Pop()
			h.Push(scored{score: s, pos: i})
		}
	}
	for i = 0; i < n; i++ {
		v, _ := h.Pop()
		dst[i] = order[v.(scored).pos]
	}
}

// Candidates returns the sorted, de-duplicated union of every row's top-n columns
// of the n×m row-major matrix cost. order is the SelectHeap scan order (identity if nil).
func Candidates(cost []float64, n, m int, policy Selection, order []int) []int {
	if order == nil {
		order = identity(m)
	}
	sel := make([]int, n*n)
	idx := make([]int, m)

	var i int
	for i = 0; i < n; i++ {
		topN(sel[i*n:(i+1)*n], cost[i*m:(i+1)*m], n, policy, order, idx)
	}
	slices.Sort(sel)

	return slices.Compact(sel)
}

func identity(m int) []int {
	out := make([]int, m)
	resetIdx(out)

	return out
}
