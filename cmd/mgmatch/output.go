// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/katalvlaran/mgmatch/restart"
)

// plotTraces draws f(P) per iteration for every run; x=0 is the initial plan.
// The format follows the file extension.
func plotTraces(path string, rep restart.Report) error {
	p := plot.New()
	p.Title.Text = "Frank-Wolfe objective"
	p.X.Label.Text = "iteration"
	p.Y.Label.Text = "f(P)"

	var lines []interface{}
	for _, r := range rep.Runs {
		xys := make(plotter.XYs, 0, len(r.Result.Trace)+1)
		xys = append(xys, plotter.XY{X: 0, Y: r.Result.InitialObjective})
		for i, st := range r.Result.Trace {
			xys = append(xys, plotter.XY{X: float64(i + 1), Y: st.Objective})
		}
		lines = append(lines, fmt.Sprintf("run %d", r.Index), xys)
	}
	if err := plotutil.AddLinePoints(p, lines...); err != nil {
		return errors.Wrap(err, "plot")
	}

	return errors.Wrapf(p.Save(6*vg.Inch, 4*vg.Inch, path), "plot %s", path)
}

// writeMetrics dumps every family gathered from reg in the text exposition format.
func writeMetrics(path string, reg *prometheus.Registry) (err error) {
	families, err := reg.Gather()
	if err != nil {
		return errors.Wrap(err, "metrics: gather")
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "metrics")
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = errors.Wrap(cerr, "metrics")
		}
	}()
	for _, mf := range families {
		if _, err = expfmt.MetricFamilyToText(f, mf); err != nil {
			return errors.Wrapf(err, "metrics: %s", mf.GetName())
		}
	}

	return nil
}
