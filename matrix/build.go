// SPDX-License-Identifier: MIT

// Package matrix - structural builders: permutation matrices, dense/sparse
// conversion, transpose and channel stacking.
//
// Channel stacking mirrors how multi-channel graphs are fed to the contraction:
//   - HStack(T_0..T_{c-1})  → n × (n·c), column block m holds channel m.
//   - VStack(W_0..W_{c-1})  → (n·c) × n, row block m holds channel m.

package matrix

import "fmt"

// Permutation encodes ind (row i → column ind[i]) as a 0/1 CSR with ncol columns.
// Complexity: O(n).
func Permutation(ind []int, ncol int) *CSR {
	var n = len(ind)
	rs := make([]int, n+1)
	ci := make([]int, n)
	vs := make([]float64, n)

	var i int
	for i = 0; i < n; i++ {
		rs[i+1] = i + 1
		ci[i] = ind[i]
		vs[i] = 1
	}

	return &CSR{nrow: n, ncol: ncol, rowStart: rs, colIndex: ci, value: vs}
}

// FromDense builds a CSR holding every non-zero entry of d (exact zeros dropped).
// Complexity: O(r*c).
func FromDense(d *Dense) *CSR {
	var (
		nnz  int
		i, j int
	)
	for _, v := range d.data {
		if v != 0 {
			nnz++
		}
	}
	rs := make([]int, d.r+1)
	ci := make([]int, 0, nnz)
	vs := make([]float64, 0, nnz)
	for i = 0; i < d.r; i++ {
		row := d.data[i*d.c : (i+1)*d.c]
		for j = 0; j < d.c; j++ {
			if row[j] != 0 {
				ci = append(ci, j)
				vs = append(vs, row[j])
			}
		}
		rs[i+1] = len(ci)
	}

	return &CSR{nrow: d.r, ncol: d.c, rowStart: rs, colIndex: ci, value: vs}
}

// ToDense materialises m into a new Dense. Zero-dimension matrices are rejected.
// Complexity: O(r*c + nnz).
func (m *CSR) ToDense() (*Dense, error) {
	d, err := NewDense(m.nrow, m.ncol)
	if err != nil {
		return nil, err
	}
	m.ScatterInto(d)

	return d, nil
}

// ScatterInto zeroes d and writes m's entries into it. Shapes must agree.
func (m *CSR) ScatterInto(d *Dense) {
	d.Zero()

	var i, k int
	for i = 0; i < m.nrow; i++ {
		for k = m.rowStart[i]; k < m.rowStart[i+1]; k++ {
			d.data[i*d.c+m.colIndex[k]] = m.value[k]
		}
	}
}

// Transpose returns mᵀ as a new CSR (counting sort by column, so rows of the
// result come out ascending).
// Complexity: O(nrow + ncol + nnz).
func (m *CSR) Transpose() *CSR {
	var nnz = len(m.colIndex)
	rs := make([]int, m.ncol+1)
	ci := make([]int, nnz)
	vs := make([]float64, nnz)

	for _, j := range m.colIndex {
		rs[j+1]++
	}
	var j int
	for j = 0; j < m.ncol; j++ {
		rs[j+1] += rs[j]
	}

	next := make([]int, m.ncol)
	copy(next, rs[:m.ncol])

	var i, k, dst int
	for i = 0; i < m.nrow; i++ {
		for k = m.rowStart[i]; k < m.rowStart[i+1]; k++ {
			j = m.colIndex[k]
			dst = next[j]
			ci[dst] = i
			vs[dst] = m.value[k]
			next[j]++
		}
	}

	return &CSR{nrow: m.ncol, ncol: m.nrow, rowStart: rs, colIndex: ci, value: vs}
}

// HStack concatenates blocks left to right. All blocks need the same row count.
// Column ids of block m are shifted by the sum of preceding block widths, which keeps
// every row ascending.
// Complexity: O(total nnz + rows·blocks).
func HStack(blocks ...*CSR) (*CSR, error) {
	if len(blocks) == 0 {
		return nil, fmt.Errorf("HStack: no blocks: %w", ErrBadShape)
	}
	if blocks[0] == nil {
		return nil, fmt.Errorf("HStack: block 0: %w", ErrNilMatrix)
	}
	var nrow, ncol, nnz int
	nrow = blocks[0].nrow
	for b, m := range blocks {
		if m == nil {
			return nil, fmt.Errorf("HStack: block %d: %w", b, ErrNilMatrix)
		}
		if m.nrow != nrow {
			return nil, fmt.Errorf("HStack: block %d has %d rows, want %d: %w", b, m.nrow, nrow, ErrDimensionMismatch)
		}
		ncol += m.ncol
		nnz += len(m.colIndex)
	}

	rs := make([]int, nrow+1)
	ci := make([]int, 0, nnz)
	vs := make([]float64, 0, nnz)

	var i, k, off int
	for i = 0; i < nrow; i++ {
		off = 0
		for _, m := range blocks {
			for k = m.rowStart[i]; k < m.rowStart[i+1]; k++ {
				ci = append(ci, m.colIndex[k]+off)
				vs = append(vs, m.value[k])
			}
			off += m.ncol
		}
		rs[i+1] = len(ci)
	}

	return &CSR{nrow: nrow, ncol: ncol, rowStart: rs, colIndex: ci, value: vs}, nil
}

// VStack concatenates blocks top to bottom. All blocks need the same column count.
// Complexity: O(total nnz + total rows).
func VStack(blocks ...*CSR) (*CSR, error) {
	if len(blocks) == 0 {
		return nil, fmt.Errorf("VStack: no blocks: %w", ErrBadShape)
	}
	if blocks[0] == nil {
		return nil, fmt.Errorf("VStack: block 0: %w", ErrNilMatrix)
	}
	var nrow, ncol, nnz int
	ncol = blocks[0].ncol
	for b, m := range blocks {
		if m == nil {
			return nil, fmt.Errorf("VStack: block %d: %w", b, ErrNilMatrix)
		}
		if m.ncol != ncol {
			return nil, fmt.Errorf("VStack: block %d has %d cols, want %d: %w", b, m.ncol, ncol, ErrDimensionMismatch)
		}
		nrow += m.nrow
		nnz += len(m.colIndex)
	}

	rs := make([]int, 1, nrow+1)
	ci := make([]int, 0, nnz)
	vs := make([]float64, 0, nnz)

	var i int
	for _, m := range blocks {
		ci = append(ci, m.colIndex...)
		vs = append(vs, m.value...)
		base := rs[len(rs)-1]
		for i = 1; i <= m.nrow; i++ {
			rs = append(rs, base+m.rowStart[i])
		}
	}

	return &CSR{nrow: nrow, ncol: ncol, rowStart: rs, colIndex: ci, value: vs}, nil
}
