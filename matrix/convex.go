// SPDX-License-Identifier: MIT

// Package matrix - convex-combination merges of a plan with a candidate.
//
// Both merges compute alpha*current + (1-alpha)*candidate. The dense one works in place;
// the sparse one merges each plan row against the single permutation column of that row
// and returns a new CSR. On a densified plan the two produce bit-identical values:
//   - both-present:  alpha*p + (1-alpha)
//   - plan-only:     alpha*p
//   - perm-only:     (1-alpha)
//
// alpha is not clamped.

package matrix

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// DenseConvexCombination sets result = alpha*result + (1-alpha)*other in place.
// Shapes must agree (ErrDimensionMismatch otherwise).
// Complexity: O(r*c).
func DenseConvexCombination(alpha float64, other, result *Dense) error {
	if other == nil || result == nil {
		return fmt.Errorf("DenseConvexCombination: %w", ErrNilMatrix)
	}
	if other.r != result.r || other.c != result.c {
		return fmt.Errorf("DenseConvexCombination: %dx%d vs %dx%d: %w",
			result.r, result.c, other.r, other.c, ErrDimensionMismatch)
	}
	floats.Scale(alpha, result.data)
	floats.AddScaled(result.data, 1-alpha, other.data)

	return nil
}

// SparseConvexCombination returns alpha*p + (1-alpha)*Perm(ind) as a new CSR.
// len(ind) must equal p.Rows() and every ind[i] must lie in [0, p.Cols()); this is not
// checked. Each output row is the sorted union of p's row and {ind[i]}, so nnz grows by
// at most one per row.
// Complexity: O(nrow + nnz).
func SparseConvexCombination(alpha float64, ind []int, p *CSR) *CSR {
	var (
		beta = 1 - alpha
		nnz  = len(p.colIndex)
	)
	rs := make([]int, p.nrow+1)
	ci := make([]int, 0, nnz+p.nrow)
	vs := make([]float64, 0, nnz+p.nrow)

	var i, k, hi, target int
	var placed bool
	for i = 0; i < p.nrow; i++ {
		target = ind[i]
		placed = false
		hi = p.rowStart[i+1]
		for k = p.rowStart[i]; k < hi; k++ {
			j := p.colIndex[k]
			if !placed && target < j {
				ci = append(ci, target)
				vs = append(vs, beta)
				placed = true
			}
			if j == target {
				ci = append(ci, j)
				vs = append(vs, float64(alpha*p.value[k])+beta)
				placed = true
				continue
			}
			ci = append(ci, j)
			vs = append(vs, float64(alpha*p.value[k]))
		}
		if !placed {
			ci = append(ci, target)
			vs = append(vs, beta)
		}
		rs[i+1] = len(ci)
	}

	return &CSR{nrow: p.nrow, ncol: p.ncol, rowStart: rs, colIndex: ci, value: vs}
}
