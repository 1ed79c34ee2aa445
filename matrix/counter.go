// SPDX-License-Identifier: MIT

// Package matrix - Counter: the caller-owned solution counter.
//
// A Counter has one cell per (template node, world node) pair and is incremented once per
// completed matching run at every cell chosen by the final permutation. It outlives a single
// run. Counter itself is NOT synchronised: concurrent runs must either share it strictly
// sequentially or each own a shard that is merged afterwards (see package restart).

package matrix

import "fmt"

// Counter is a dense row-major integer matrix.
type Counter struct {
	r, c int
	data []int
}

// NewCounter returns an r×c zero counter.
func NewCounter(rows, cols int) (*Counter, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("NewCounter(%d,%d): %w", rows, cols, ErrBadShape)
	}

	return &Counter{r: rows, c: cols, data: make([]int, rows*cols)}, nil
}

// Rows returns the number of rows.
func (k *Counter) Rows() int { return k.r }

// Cols returns the number of columns.
func (k *Counter) Cols() int { return k.c }

// Data returns the flat row-major backing slice (shared).
func (k *Counter) Data() []int { return k.data }

// At returns the count at (i, j). No bounds checking.
func (k *Counter) At(i, j int) int { return k.data[i*k.c+j] }

// Inc increments the count at (i, j) by one. No bounds checking.
func (k *Counter) Inc(i, j int) { k.data[i*k.c+j]++ }

// Merge adds every cell of o into k.
// Returns ErrDimensionMismatch when shapes differ.
// Complexity: O(r*c).
func (k *Counter) Merge(o *Counter) error {
	if o == nil {
		return ErrNilMatrix
	}
	if o.r != k.r || o.c != k.c {
		return fmt.Errorf("Counter.Merge: %dx%d vs %dx%d: %w", k.r, k.c, o.r, o.c, ErrDimensionMismatch)
	}
	for i, v := range o.data {
		k.data[i] += v
	}

	return nil
}

// Clone returns an independent copy.
func (k *Counter) Clone() *Counter {
	cp := make([]int, len(k.data))
	copy(cp, k.data)

	return &Counter{r: k.r, c: k.c, data: cp}
}

// Total returns the sum of all cells.
func (k *Counter) Total() int {
	var s int
	for _, v := range k.data {
		s += v
	}

	return s
}
