// SPDX-License-Identifier: MIT

package matrix_test

import (
	"math/rand/v2"
	"testing"

	"github.com/katalvlaran/mgmatch/matrix"
	"github.com/stretchr/testify/require"
)

// randomPlan builds an n×m CSR with roughly density*n*m positive entries.
func randomPlan(r *rand.Rand, n, m int, density float64) *matrix.CSR {
	d, _ := matrix.NewDense(n, m)
	for i := range d.Data() {
		if r.Float64() < density {
			d.Data()[i] = r.Float64()
		}
	}

	return matrix.FromDense(d)
}

func TestSparseConvexCombination_MatchesDense(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 11))
	alphas := []float64{0, 0.25, 1.0 / 3.0, 0.5, 0.9, 1}

	for trial := 0; trial < 20; trial++ {
		n := 1 + r.IntN(6)
		m := n + r.IntN(6)
		p := randomPlan(r, n, m, 0.4)
		ind := r.Perm(m)[:n]

		for _, alpha := range alphas {
			sparse := matrix.SparseConvexCombination(alpha, ind, p)
			require.NoError(t, sparse.Validate())
			require.LessOrEqual(t, sparse.NNZ(), p.NNZ()+n)

			dense, err := p.ToDense()
			require.NoError(t, err)
			permDense, err := matrix.Permutation(ind, m).ToDense()
			require.NoError(t, err)
			require.NoError(t, matrix.DenseConvexCombination(alpha, permDense, dense))

			got, err := sparse.ToDense()
			require.NoError(t, err)
			require.Equal(t, dense.Data(), got.Data(), "trial %d alpha %v", trial, alpha)
		}
	}
}

func TestSparseConvexCombination_Rows(t *testing.T) {
	// row 0 hits an existing column, row 1 inserts before, row 2 appends, row 3 is empty
	p, err := matrix.NewCSR(4, 4,
		[]int{0, 2, 3, 4, 4},
		[]int{0, 2, 3, 0},
		[]float64{0.5, 0.5, 1, 1})
	require.NoError(t, err)

	out := matrix.SparseConvexCombination(0.5, []int{2, 1, 3, 0}, p)
	require.Equal(t, []int{0, 2, 4, 6, 7}, out.RowStart())
	require.Equal(t, []int{0, 2, 1, 3, 0, 3, 0}, out.ColIndex())
	require.Equal(t, []float64{0.25, 0.75, 0.5, 0.5, 0.5, 0.5, 0.5}, out.Values())

	// source untouched
	require.Equal(t, 4, p.NNZ())
}

func TestDenseConvexCombination(t *testing.T) {
	a, _ := matrix.NewDenseFrom(1, 3, []float64{1, 2, 3})
	b, _ := matrix.NewDenseFrom(1, 3, []float64{3, 2, 1})
	require.NoError(t, matrix.DenseConvexCombination(0.25, b, a))
	require.Equal(t, []float64{2.5, 2, 1.5}, a.Data())

	c, _ := matrix.NewDense(2, 2)
	require.ErrorIs(t, matrix.DenseConvexCombination(0.5, c, a), matrix.ErrDimensionMismatch)
	require.ErrorIs(t, matrix.DenseConvexCombination(0.5, nil, a), matrix.ErrNilMatrix)
}
