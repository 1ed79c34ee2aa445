// SPDX-License-Identifier: MIT

package plan

import "github.com/katalvlaran/mgmatch/matrix"

// inv returns 1/x, or 1 when x == 0 so empty rows and columns are left unscaled.
func inv(x float64) float64 {
	if x == 0 {
		return 1
	}

	return 1 / x
}

// RowNormalize scales each row of p in place to sum 1. Zero-sum rows are unchanged.
// Complexity: O(nrow + nnz).
func RowNormalize(p *matrix.CSR) {
	rs, vals := p.RowStart(), p.Values()

	var i, k int
	var s float64
	for i = 0; i < p.Rows(); i++ {
		s = 0
		for k = rs[i]; k < rs[i+1]; k++ {
			s += vals[k]
		}
		s = inv(s)
		for k = rs[i]; k < rs[i+1]; k++ {
			vals[k] *= s
		}
	}
}

// ColNormalize scales each column of p in place to sum 1. Zero-sum columns are unchanged.
// Complexity: O(ncol + nnz).
func ColNormalize(p *matrix.CSR) {
	ci, vals := p.ColIndex(), p.Values()
	c := ColSums(p)
	for j := range c {
		c[j] = inv(c[j])
	}
	for k, j := range ci {
		vals[k] *= c[j]
	}
}

// SinkhornScale balances p in place with iters rounds of Sinkhorn-Knopp.
// Stage 1: u = 1/nrow, v = 1/ncol.
// Stage 2: per round v[j] = 1/Σ_i u[i]p[i,j], then u[i] = 1/Σ_j p[i,j]v[j].
// Stage 3: p[i,j] *= u[i]·v[j].
// A zero marginal yields factor 1 instead of +Inf. iters == 0 scales every entry
// by 1/(nrow·ncol).
// Complexity: O(iters·(nrow + ncol + nnz)).
func SinkhornScale(p *matrix.CSR, iters int) {
	var (
		nrow, ncol = p.Rows(), p.Cols()
		rs, ci     = p.RowStart(), p.ColIndex()
		vals       = p.Values()
	)
	if nrow == 0 || ncol == 0 {
		return
	}
	u := make([]float64, nrow)
	v := make([]float64, ncol)
	for i := range u {
		u[i] = 1 / float64(nrow)
	}
	for j := range v {
		v[j] = 1 / float64(ncol)
	}

	var it, i, k int
	for it = 0; it < iters; it++ {
		clear(v)
		for i = 0; i < nrow; i++ {
			for k = rs[i]; k < rs[i+1]; k++ {
				v[ci[k]] += vals[k] * u[i]
			}
		}
		for i = range v {
			v[i] = inv(v[i])
		}

		clear(u)
		for i = 0; i < nrow; i++ {
			for k = rs[i]; k < rs[i+1]; k++ {
				u[i] += vals[k] * v[ci[k]]
			}
		}
		for i = range u {
			u[i] = inv(u[i])
		}
	}

	for i = 0; i < nrow; i++ {
		for k = rs[i]; k < rs[i+1]; k++ {
			vals[k] *= u[i] * v[ci[k]]
		}
	}
}

// AlternatingScale runs iters sweeps of ColNormalize followed by RowNormalize.
// Complexity: O(iters·(nrow + ncol + nnz)).
func AlternatingScale(p *matrix.CSR, iters int) {
	for it := 0; it < iters; it++ {
		ColNormalize(p)
		RowNormalize(p)
	}
}
