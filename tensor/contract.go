// SPDX-License-Identifier: MIT

package tensor

import (
	"fmt"

	"github.com/katalvlaran/mgmatch/matrix"
)

// CheckStack verifies that out = Σ_m X_m·P·Y_m is well formed for nc channels, where P is
// an nt×nw plan: X is nt×(nt·nc), Y is (nw·nc)×nw and out is nt×nw.
func CheckStack(nc int, x *matrix.CSR, nt, nw int, y *matrix.CSR, out *matrix.Dense) error {
	if nc <= 0 || x.Cols() != nt*nc || y.Rows() != nw*nc {
		return fmt.Errorf("CheckStack: nc=%d X %dx%d Y %dx%d: %w", nc, x.Rows(), x.Cols(), y.Rows(), y.Cols(), ErrChannels)
	}
	if x.Rows() != nt || y.Cols() != nw {
		return fmt.Errorf("CheckStack: X %dx%d Y %dx%d plan %dx%d: %w", x.Rows(), x.Cols(), y.Rows(), y.Cols(), nt, nw, ErrShape)
	}
	if out != nil && (out.Rows() != nt || out.Cols() != nw) {
		return fmt.Errorf("CheckStack: out %dx%d want %dx%d: %w", out.Rows(), out.Cols(), nt, nw, ErrShape)
	}

	return nil
}

// StackedMultiply overwrites out with Σ_m X_m·P·Y_m for a sparse plan P.
// Shapes are not checked (see CheckStack).
func StackedMultiply(out *matrix.Dense, nc int, x, p, y *matrix.CSR) {
	var (
		od         = out.Data()
		oc         = out.Cols()
		xs, xc, xv = x.RowStart(), x.ColIndex(), x.Values()
		ps, pc, pv = p.RowStart(), p.ColIndex(), p.Values()
		ys, yc, yv = y.RowStart(), y.ColIndex(), y.Values()
		width      = x.Cols() / nc
		ynw        = y.Cols()
	)
	var (
		i, a, b, c int
		j, m, yrow int
		xval, xp   float64
		row        []float64
	)
	for i = 0; i < x.Rows(); i++ {
		row = od[i*oc : (i+1)*oc]
		clear(row)
		for a = xs[i]; a < xs[i+1]; a++ {
			j, m = xc[a]%width, xc[a]/width
			xval = xv[a]
			for b = ps[j]; b < ps[j+1]; b++ {
				xp = xval * pv[b]
				yrow = m*ynw + pc[b]
				for c = ys[yrow]; c < ys[yrow+1]; c++ {
					row[yc[c]] += xp * yv[c]
				}
			}
		}
	}
}

// StackedMultiplyPerm overwrites out with Σ_m X_m·P·Y_m where P is the 0/1 matrix of ind
// (row j → column ind[j]). Shapes are not checked (see CheckStack).
func StackedMultiplyPerm(out *matrix.Dense, nc int, x *matrix.CSR, ind []int, y *matrix.CSR) {
	var (
		od         = out.Data()
		oc         = out.Cols()
		xs, xc, xv = x.RowStart(), x.ColIndex(), x.Values()
		ys, yc, yv = y.RowStart(), y.ColIndex(), y.Values()
		width      = x.Cols() / nc
		ynw        = y.Cols()
	)
	var (
		i, a, c, yrow int
		xval          float64
		row           []float64
	)
	for i = 0; i < x.Rows(); i++ {
		row = od[i*oc : (i+1)*oc]
		clear(row)
		for a = xs[i]; a < xs[i+1]; a++ {
			xval = xv[a]
			yrow = (xc[a]/width)*ynw + ind[xc[a]%width]
			for c = ys[yrow]; c < ys[yrow+1]; c++ {
				row[yc[c]] += xval * yv[c]
			}
		}
	}
}
