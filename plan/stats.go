// SPDX-License-Identifier: MIT

package plan

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/mgmatch/matrix"
)

// RowSums returns Σ_j p[i,j] for every row.
func RowSums(p *matrix.CSR) []float64 {
	rs, vals := p.RowStart(), p.Values()
	out := make([]float64, p.Rows())
	for i := range out {
		out[i] = floats.Sum(vals[rs[i]:rs[i+1]])
	}

	return out
}

// ColSums returns Σ_i p[i,j] for every column.
func ColSums(p *matrix.CSR) []float64 {
	out := make([]float64, p.Cols())
	vals := p.Values()
	for k, j := range p.ColIndex() {
		out[j] += vals[k]
	}

	return out
}

// MaxMarginalDeviation returns max(|rowSum-1|, |colSum-1|) over every row and column
// that has at least one stored entry. Structurally empty lines are skipped.
func MaxMarginalDeviation(p *matrix.CSR) float64 {
	var dev float64
	rs := p.RowStart()
	for i, s := range RowSums(p) {
		if rs[i+1] > rs[i] {
			dev = math.Max(dev, math.Abs(s-1))
		}
	}

	seen := make([]bool, p.Cols())
	for _, j := range p.ColIndex() {
		seen[j] = true
	}
	for j, s := range ColSums(p) {
		if seen[j] {
			dev = math.Max(dev, math.Abs(s-1))
		}
	}

	return dev
}
