// SPDX-License-Identifier: MIT

package tensor

import "github.com/katalvlaran/mgmatch/matrix"

// Traces returns the inner products of x, y and z with the sparse matrix w,
// each restricted to w's stored positions.
// All four operands share one shape; this is not checked.
// Complexity: O(nrow + nnz).
func Traces(x, y, z *matrix.Dense, w *matrix.CSR) (a, b, c float64) {
	var (
		xd, yd, zd = x.Data(), y.Data(), z.Data()
		nc         = x.Cols()
		rs, ci, vs = w.RowStart(), w.ColIndex(), w.Values()
	)
	var i, k, off int
	for i = 0; i < w.Rows(); i++ {
		for k = rs[i]; k < rs[i+1]; k++ {
			off = i*nc + ci[k]
			a += xd[off] * vs[k]
			b += yd[off] * vs[k]
			c += zd[off] * vs[k]
		}
	}

	return a, b, c
}

// TracesPerm returns Σ_i x[i,ind[i]], Σ_i y[i,ind[i]] and Σ_i z[i,ind[i]].
// Complexity: O(len(ind)).
func TracesPerm(x, y, z *matrix.Dense, ind []int) (a, b, c float64) {
	var (
		xd, yd, zd = x.Data(), y.Data(), z.Data()
		nc         = x.Cols()
	)
	var off int
	for i, j := range ind {
		off = i*nc + j
		a += xd[off]
		b += yd[off]
		c += zd[off]
	}

	return a, b, c
}
