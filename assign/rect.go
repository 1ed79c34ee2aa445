// SPDX-License-Identifier: MIT

package assign

import (
	"fmt"

	"github.com/katalvlaran/mgmatch/lap"
	"github.com/katalvlaran/mgmatch/matrix"
	"github.com/katalvlaran/mgmatch/rng"
)

func buildOptions(opts []Option) Options {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}
	if o.Rand == nil {
		o.Rand = rng.FromSeed(o.Seed)
	}

	return o
}

func checkCost(cost *matrix.Dense) error {
	if cost == nil {
		return ErrNilCost
	}
	if cost.Rows() > cost.Cols() {
		return fmt.Errorf("%dx%d: %w", cost.Rows(), cost.Cols(), ErrTooFewColumns)
	}

	return nil
}

// Rect assigns every row of cost to a distinct column, maximising the total score over
// the union of the per-row top-n candidate columns.
// Returns ind with ind[i] in [0, m).
func Rect(cost *matrix.Dense, opts ...Option) ([]int, error) {
	if err := checkCost(cost); err != nil {
		return nil, fmt.Errorf("Rect: %w", err)
	}
	o := buildOptions(opts)
	n, m := cost.Rows(), cost.Cols()

	switch o.Selection {
	case SelectPartial, SelectStable:
	case SelectHeap:
		if o.ScanOrder != nil && !isPerm(o.ScanOrder, m) {
			return nil, fmt.Errorf("Rect: len %d for %d columns: %w", len(o.ScanOrder), m, ErrBadScanOrder)
		}
	default:
		return nil, fmt.Errorf("Rect: selection %d: %w", int(o.Selection), ErrUnknownSelection)
	}

	cand := Candidates(cost.Data(), n, m, o.Selection, o.ScanOrder)

	return solveOn(cost, cand, o)
}

// Full assigns every row of cost to a distinct column, maximising the total score over
// all m columns.
func Full(cost *matrix.Dense, opts ...Option) ([]int, error) {
	if err := checkCost(cost); err != nil {
		return nil, fmt.Errorf("Full: %w", err)
	}

	return solveOn(cost, identity(cost.Cols()), buildOptions(opts))
}

// solveOn shuffles cand, embeds the restricted problem into a square minimisation and
// solves it.
func solveOn(cost *matrix.Dense, cand []int, o Options) ([]int, error) {
	rng.ShuffleInts(cand, o.Rand)

	var (
		n, m = cost.Rows(), cost.Cols()
		u    = len(cand)
		data = cost.Data()
		sub  = make([]float64, n*u)
		top  = -1.0
	)

	var i, j int
	for i = 0; i < n; i++ {
		for j = 0; j < u; j++ {
			v := data[i*m+cand[j]]
			sub[i*u+j] = v
			if v > top {
				top = v
			}
		}
	}
	top2 := -1.0
	for i = range sub {
		sub[i] = (1 + top) - sub[i]
		if sub[i] > top2 {
			top2 = sub[i]
		}
	}

	// Square embedding: rows are candidates then n dummies, columns are real rows then
	// u dummies.
	k := n + u
	pad := make([]float64, k*k)
	penalty := 1 + top2

	var r, c int
	for r = 0; r < k; r++ {
		for c = 0; c < k; c++ {
			switch {
			case r < u && c < n:
				pad[r*k+c] = sub[c*u+r]
			case r >= u && c >= n:
				pad[r*k+c] = 0
			default:
				pad[r*k+c] = penalty
			}
		}
	}

	_, colToRow, err := lap.Solve(k, pad)
	if err != nil {
		return nil, fmt.Errorf("assign: square solve k=%d: %w", k, err)
	}

	ind := make([]int, n)
	for i = 0; i < n; i++ {
		ind[i] = cand[colToRow[i]]
	}

	return ind, nil
}

func isPerm(order []int, m int) bool {
	if len(order) != m {
		return false
	}
	seen := make([]bool, m)
	for _, j := range order {
		if j < 0 || j >= m || seen[j] {
			return false
		}
		seen[j] = true
	}

	return true
}
