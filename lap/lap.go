// SPDX-License-Identifier: MIT

package lap

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrEmpty indicates k == 0.
	ErrEmpty = errors.New("lap: empty cost matrix")

	// ErrNotSquare indicates len(cost) != k*k or a negative k.
	ErrNotSquare = errors.New("lap: cost matrix is not k×k")

	// ErrNonFinite indicates a NaN or infinite cost.
	ErrNonFinite = errors.New("lap: cost matrix has non-finite entries")
)

// Solve returns a minimum-cost perfect matching of the k×k matrix cost.
// rowToCol[i] is the column of row i and colToRow[j] the row of column j.
func Solve(k int, cost []float64) (rowToCol, colToRow []int, err error) {
	if k < 0 || len(cost) != k*k {
		return nil, nil, fmt.Errorf("Solve: k=%d len=%d: %w", k, len(cost), ErrNotSquare)
	}
	if k == 0 {
		return nil, nil, ErrEmpty
	}
	for idx, c := range cost {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return nil, nil, fmt.Errorf("Solve: entry %d: %w", idx, ErrNonFinite)
		}
	}

	// 1-based dual arrays; index 0 of match/way is the virtual column that holds the row
	// being inserted.
	var (
		u     = make([]float64, k+1)
		v     = make([]float64, k+1)
		match = make([]int, k+1) // match[j] = row assigned to column j, 0 = free
		way   = make([]int, k+1) // predecessor column on the augmenting path
		minv  = make([]float64, k+1)
		used  = make([]bool, k+1)
		inf   = math.Inf(1)
	)

	var i, j, i0, j0, j1 int
	var delta, cur float64
	for i = 1; i <= k; i++ {
		match[0] = i
		j0 = 0
		for j = 0; j <= k; j++ {
			minv[j] = inf
			used[j] = false
		}

		// Stage 1: grow the shortest path until it reaches a free column.
		for {
			used[j0] = true
			i0 = match[j0]
			delta, j1 = inf, 0
			row := cost[(i0-1)*k : i0*k]
			for j = 1; j <= k; j++ {
				if used[j] {
					continue
				}
				cur = row[j-1] - u[i0] - v[j]
				if cur < minv[j] {
					minv[j] = cur
					way[j] = j0
				}
				if minv[j] < delta {
					delta = minv[j]
					j1 = j
				}
			}
			for j = 0; j <= k; j++ {
				if used[j] {
					u[match[j]] += delta
					v[j] -= delta
				} else {
					minv[j] -= delta
				}
			}
			j0 = j1
			if match[j0] == 0 {
				break
			}
		}

		// Stage 2: flip the matching along the path.
		for j0 != 0 {
			j1 = way[j0]
			match[j0] = match[j1]
			j0 = j1
		}
	}

	rowToCol = make([]int, k)
	colToRow = make([]int, k)
	for j = 1; j <= k; j++ {
		colToRow[j-1] = match[j] - 1
		rowToCol[match[j]-1] = j - 1
	}

	return rowToCol, colToRow, nil
}

// Cost returns Σ_i cost[i*k + rowToCol[i]].
func Cost(k int, cost []float64, rowToCol []int) float64 {
	var s float64
	for i, j := range rowToCol {
		s += cost[i*k+j]
	}

	return s
}
