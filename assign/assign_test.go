// SPDX-License-Identifier: MIT

package assign_test

import (
	"math"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/mgmatch/assign"
	"github.com/katalvlaran/mgmatch/matrix"
)

func score(cost *matrix.Dense, ind []int) float64 {
	var s float64
	for i, j := range ind {
		s += cost.Row(i)[j]
	}

	return s
}

// bestOver returns the best total score over injective maps of rows into cols.
func bestOver(cost *matrix.Dense, cols []int) float64 {
	n := cost.Rows()
	used := make([]bool, len(cols))
	best := math.Inf(-1)
	var rec func(i int, acc float64)
	rec = func(i int, acc float64) {
		if i == n {
			best = math.Max(best, acc)
			return
		}
		for c, j := range cols {
			if used[c] {
				continue
			}
			used[c] = true
			rec(i+1, acc+cost.Row(i)[j])
			used[c] = false
		}
	}
	rec(0, 0)

	return best
}

func requireValid(t *testing.T, ind []int, n, m int) {
	t.Helper()
	require.Len(t, ind, n)
	seen := map[int]bool{}
	for _, j := range ind {
		require.GreaterOrEqual(t, j, 0)
		require.Less(t, j, m)
		require.False(t, seen[j], "column %d reused", j)
		seen[j] = true
	}
}

func randomCost(r *rand.Rand, n, m int, integer bool) *matrix.Dense {
	d, _ := matrix.NewDense(n, m)
	for k := range d.Data() {
		if integer {
			d.Data()[k] = float64(r.IntN(5))
		} else {
			d.Data()[k] = r.NormFloat64() * 3
		}
	}

	return d
}

func TestRect_ValidAndOptimalOnCandidates(t *testing.T) {
	r := rand.New(rand.NewPCG(8, 8))
	policies := []assign.Selection{assign.SelectPartial, assign.SelectStable, assign.SelectHeap}
	for trial := 0; trial < 60; trial++ {
		n := 1 + r.IntN(3)
		m := n + r.IntN(6)
		cost := randomCost(r, n, m, trial%2 == 0)
		for _, pol := range policies {
			order := r.Perm(m)
			ind, err := assign.Rect(cost,
				assign.WithSelection(pol),
				assign.WithScanOrder(order),
				assign.WithSeed(uint64(trial)))
			require.NoError(t, err)
			requireValid(t, ind, n, m)

			cand := assign.Candidates(cost.Data(), n, m, pol, order)
			require.GreaterOrEqual(t, len(cand), n)
			require.LessOrEqual(t, len(cand), min(m, n*n))
			for _, j := range ind {
				require.Contains(t, cand, j)
			}
			require.InDelta(t, bestOver(cost, cand), score(cost, ind), 1e-9)
		}
	}
}

func TestFull_IsGlobalOptimum(t *testing.T) {
	r := rand.New(rand.NewPCG(2, 3))
	for trial := 0; trial < 40; trial++ {
		n := 1 + r.IntN(3)
		m := n + r.IntN(5)
		cost := randomCost(r, n, m, false)
		ind, err := assign.Full(cost, assign.WithSeed(uint64(trial)))
		require.NoError(t, err)
		requireValid(t, ind, n, m)

		all := make([]int, m)
		for j := range all {
			all[j] = j
		}
		require.InDelta(t, bestOver(cost, all), score(cost, ind), 1e-9)
	}
}

func TestCandidates_TieRules(t *testing.T) {
	cost := []float64{
		5, 5, 5, 1,
		0, 0, 0, 9,
	}
	require.Equal(t, []int{0, 1, 3}, assign.Candidates(cost, 2, 4, assign.SelectHeap, nil))
	require.Equal(t, []int{1, 2, 3}, assign.Candidates(cost, 2, 4, assign.SelectHeap, []int{3, 2, 1, 0}))
	require.Equal(t, []int{0, 1, 3}, assign.Candidates(cost, 2, 4, assign.SelectStable, nil))

	part := assign.Candidates(cost, 2, 4, assign.SelectPartial, nil)
	require.Contains(t, part, 3)
	require.True(t, slices.IsSorted(part))
}

func TestCandidates_PartialTopN(t *testing.T) {
	r := rand.New(rand.NewPCG(5, 5))
	for trial := 0; trial < 100; trial++ {
		m := 1 + r.IntN(12)
		n := 1 + r.IntN(m)
		if n > 3 {
			n = 3
		}
		cost := randomCost(r, 1, m, false).Data()
		// a single row: its candidates are exactly its n largest entries
		got := assign.Candidates(append(slices.Clone(cost), make([]float64, (n-1)*m)...), n, m, assign.SelectPartial, nil)
		sorted := slices.Clone(cost)
		slices.Sort(sorted)
		threshold := sorted[m-n]
		for _, j := range topRowCols(cost, threshold) {
			require.Contains(t, got, j)
		}
	}
}

func TestCandidates_PartialTies(t *testing.T) {
	// a constant row: every column ties and any n distinct columns are a valid top-n
	n, m := 3, 5000
	flat := make([]float64, n*m)
	for k := range flat {
		flat[k] = 1
	}
	got := assign.Candidates(flat, n, m, assign.SelectPartial, nil)
	require.GreaterOrEqual(t, len(got), n)
	for _, j := range got {
		require.True(t, j >= 0 && j < m)
	}

	// heavily tied rows drawn from a three-value alphabet
	r := rand.New(rand.NewPCG(6, 6))
	for trial := 0; trial < 200; trial++ {
		m := 2 + r.IntN(30)
		n := 1 + r.IntN(min(m, 4))
		row := make([]float64, m)
		for j := range row {
			row[j] = float64(r.IntN(3))
		}
		cost := make([]float64, 0, n*m)
		for i := 0; i < n; i++ {
			cost = append(cost, row...)
		}
		got := assign.Candidates(cost, n, m, assign.SelectPartial, nil)
		require.GreaterOrEqual(t, len(got), n)
		sorted := slices.Clone(row)
		slices.Sort(sorted)
		threshold := sorted[m-n]
		for j, v := range row {
			if v > threshold {
				require.Contains(t, got, j)
			}
		}
	}
}

func BenchmarkCandidates_PartialConstantRow(b *testing.B) {
	n, m := 4, 1<<14
	cost := make([]float64, n*m)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		assign.Candidates(cost, n, m, assign.SelectPartial, nil)
	}
}

// topRowCols returns the columns whose score is strictly above threshold, plus threshold itself
// only if it is unique.
func topRowCols(row []float64, threshold float64) []int {
	var out []int
	count := 0
	for _, v := range row {
		if v == threshold {
			count++
		}
	}
	for j, v := range row {
		if v > threshold || (v == threshold && count == 1) {
			out = append(out, j)
		}
	}

	return out
}

func TestRect_Deterministic(t *testing.T) {
	cost := randomCost(rand.New(rand.NewPCG(1, 1)), 4, 20, true)
	a, err := assign.Rect(cost, assign.WithSeed(9))
	require.NoError(t, err)
	b, err := assign.Rect(cost, assign.WithSeed(9))
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestRect_Errors(t *testing.T) {
	_, err := assign.Rect(nil)
	require.ErrorIs(t, err, assign.ErrNilCost)

	tall, _ := matrix.NewDense(3, 2)
	_, err = assign.Rect(tall)
	require.ErrorIs(t, err, assign.ErrTooFewColumns)
	_, err = assign.Full(tall)
	require.ErrorIs(t, err, assign.ErrTooFewColumns)

	wide, _ := matrix.NewDense(2, 3)
	_, err = assign.Rect(wide, assign.WithSelection(assign.SelectHeap), assign.WithScanOrder([]int{0, 0, 1}))
	require.ErrorIs(t, err, assign.ErrBadScanOrder)
	_, err = assign.Rect(wide, assign.WithSelection(assign.Selection(7)))
	require.ErrorIs(t, err, assign.ErrUnknownSelection)
}

func TestSelection_ParseRoundTrip(t *testing.T) {
	for _, s := range []assign.Selection{assign.SelectPartial, assign.SelectStable, assign.SelectHeap} {
		got, err := assign.ParseSelection(s.String())
		require.NoError(t, err)
		require.Equal(t, s, got)
	}
}
