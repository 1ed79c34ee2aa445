// SPDX-License-Identifier: MIT

// Package matrix - CSR (compressed sparse row) storage.
//
// Contract:
//   - len(rowStart) == nrow+1, rowStart[0] == 0, rowStart[nrow] == nnz, non-decreasing.
//   - len(colIndex) == len(value) == nnz; 0 <= colIndex[k] < ncol.
//   - Inside each row colIndex is strictly ascending.
//
// NewCSR enforces the contract once; everything downstream assumes it.

package matrix

import (
	"fmt"
	"sort"
)

// CSR is a compressed-sparse-row matrix of float64 values.
type CSR struct {
	nrow, ncol int
	rowStart   []int     // len nrow+1, prefix offsets into colIndex/value
	colIndex   []int     // len nnz, ascending per row
	value      []float64 // len nnz, parallel to colIndex
}

// NewCSR validates the CSR contract and wraps the slices without copying.
// Stage 1: shape (nrow, ncol >= 0) and slice lengths.
// Stage 2: row offsets form a prefix sum ending at nnz.
// Stage 3: columns in range and strictly ascending per row.
// Complexity: O(nrow + nnz).
func NewCSR(nrow, ncol int, rowStart, colIndex []int, value []float64) (*CSR, error) {
	if nrow < 0 || ncol < 0 {
		return nil, fmt.Errorf("NewCSR(%d,%d): %w", nrow, ncol, ErrBadShape)
	}
	if len(rowStart) != nrow+1 {
		return nil, fmt.Errorf("NewCSR: len(rowStart)=%d want %d: %w", len(rowStart), nrow+1, ErrDimensionMismatch)
	}
	if len(colIndex) != len(value) {
		return nil, fmt.Errorf("NewCSR: len(colIndex)=%d len(value)=%d: %w", len(colIndex), len(value), ErrDimensionMismatch)
	}
	m := &CSR{nrow: nrow, ncol: ncol, rowStart: rowStart, colIndex: colIndex, value: value}
	if err := m.Validate(); err != nil {
		return nil, err
	}

	return m, nil
}

// NewEmptyCSR returns an nrow×ncol matrix with no stored entries.
func NewEmptyCSR(nrow, ncol int) (*CSR, error) {
	return NewCSR(nrow, ncol, make([]int, nrow+1), []int{}, []float64{})
}

// Validate re-checks the CSR contract (see package doc).
// Complexity: O(nrow + nnz).
func (m *CSR) Validate() error {
	var nnz = len(m.colIndex)
	if m.rowStart[0] != 0 || m.rowStart[m.nrow] != nnz {
		return fmt.Errorf("CSR.Validate: rowStart[0]=%d rowStart[n]=%d nnz=%d: %w",
			m.rowStart[0], m.rowStart[m.nrow], nnz, ErrBadRowStart)
	}

	var i, k int
	for i = 0; i < m.nrow; i++ {
		if m.rowStart[i+1] < m.rowStart[i] {
			return fmt.Errorf("CSR.Validate: row %d: %w", i, ErrBadRowStart)
		}
		for k = m.rowStart[i]; k < m.rowStart[i+1]; k++ {
			if m.colIndex[k] < 0 || m.colIndex[k] >= m.ncol {
				return fmt.Errorf("CSR.Validate: row %d col %d: %w", i, m.colIndex[k], ErrOutOfRange)
			}
			if k > m.rowStart[i] && m.colIndex[k] <= m.colIndex[k-1] {
				return fmt.Errorf("CSR.Validate: row %d: %w", i, ErrUnsortedIndices)
			}
		}
	}

	return nil
}

// Rows returns the number of rows.
func (m *CSR) Rows() int { return m.nrow }

// Cols returns the number of columns.
func (m *CSR) Cols() int { return m.ncol }

// NNZ returns the number of stored entries.
func (m *CSR) NNZ() int { return len(m.colIndex) }

// RowStart exposes the row offsets (shared; read-only by contract).
func (m *CSR) RowStart() []int { return m.rowStart }

// ColIndex exposes the column ids (shared; read-only by contract).
func (m *CSR) ColIndex() []int { return m.colIndex }

// Values exposes the stored values (shared). Values may be rewritten in place;
// the structure may not.
func (m *CSR) Values() []float64 { return m.value }

// Row returns the column ids and values of row i as subslices.
func (m *CSR) Row(i int) ([]int, []float64) {
	lo, hi := m.rowStart[i], m.rowStart[i+1]

	return m.colIndex[lo:hi], m.value[lo:hi]
}

// find returns the storage offset of (i, j) or -1. Binary search over the sorted row.
func (m *CSR) find(i, j int) int {
	lo, hi := m.rowStart[i], m.rowStart[i+1]
	k := lo + sort.SearchInts(m.colIndex[lo:hi], j)
	if k < hi && m.colIndex[k] == j {
		return k
	}

	return -1
}

// At returns the value at (i, j); absent entries read as 0.
// Complexity: O(log(row nnz)).
func (m *CSR) At(i, j int) (float64, error) {
	if i < 0 || i >= m.nrow || j < 0 || j >= m.ncol {
		return 0, fmt.Errorf("CSR.At(%d,%d): %w", i, j, ErrOutOfRange)
	}
	if k := m.find(i, j); k >= 0 {
		return m.value[k], nil
	}

	return 0, nil
}

// ScaleAt multiplies the stored value at (i, j) by f.
// It reports false (and changes nothing) when (i, j) is not stored.
func (m *CSR) ScaleAt(i, j int, f float64) bool {
	if k := m.find(i, j); k >= 0 {
		m.value[k] *= f
		return true
	}

	return false
}

// Clone returns a deep copy with an independent buffer set.
// Complexity: O(nrow + nnz).
func (m *CSR) Clone() *CSR {
	rs := make([]int, len(m.rowStart))
	ci := make([]int, len(m.colIndex))
	vs := make([]float64, len(m.value))
	copy(rs, m.rowStart)
	copy(ci, m.colIndex)
	copy(vs, m.value)

	return &CSR{nrow: m.nrow, ncol: m.ncol, rowStart: rs, colIndex: ci, value: vs}
}

// WithValues returns a CSR sharing m's structure (rowStart, colIndex are copied so the
// result is independently owned) and carrying the given values (len nnz, not copied).
func (m *CSR) WithValues(values []float64) (*CSR, error) {
	if len(values) != len(m.value) {
		return nil, fmt.Errorf("CSR.WithValues: len=%d nnz=%d: %w", len(values), len(m.value), ErrDimensionMismatch)
	}
	rs := make([]int, len(m.rowStart))
	ci := make([]int, len(m.colIndex))
	copy(rs, m.rowStart)
	copy(ci, m.colIndex)

	return &CSR{nrow: m.nrow, ncol: m.ncol, rowStart: rs, colIndex: ci, value: values}, nil
}
