// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"io"
	"math"

	"github.com/pkg/errors"
	"github.com/plan-systems/klog"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/katalvlaran/mgmatch/assign"
	"github.com/katalvlaran/mgmatch/gmatch"
	"github.com/katalvlaran/mgmatch/matrix"
	"github.com/katalvlaran/mgmatch/plan"
	"github.com/katalvlaran/mgmatch/restart"
	"github.com/katalvlaran/mgmatch/store"
	"github.com/katalvlaran/mgmatch/synth"
)

func newRunCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Match a template into a world graph",
		Long: "Match a template into a world graph.\n\n" +
			"The instance comes from --dir (a directory written by generate) or from\n" +
			"--template/--world channel files plus a --sim dense similarity file.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMatch(cmd, v)
		},
	}

	f := cmd.Flags()
	f.String("dir", "", "instance directory written by generate")
	f.StringSlice("template", nil, "template channel CSR files")
	f.StringSlice("world", nil, "world channel CSR files")
	f.String("sim", "", "dense similarity file")
	f.Int("int-width", int(matrix.DefaultIntWidth), "integer width of matrix files (4 or 8)")

	f.Int("runs", 1, "restarts")
	f.Int("workers", 1, "concurrent restarts")
	f.Uint64("seed", gmatch.DefaultSeed, "base seed")
	f.Int("max-iter", gmatch.DefaultMaxIterations, "Frank-Wolfe iteration bound")
	f.String("init", plan.DefaultPolicy.String(), "init policy: rownorm, sinkhorn or alternating")
	f.Int("init-iter", plan.DefaultIterations, "init balancing rounds")
	f.Float64("sigma", plan.DefaultNoiseSigma, "init noise sigma (0 disables)")
	f.String("selection", assign.SelectPartial.String(), "top-n selection: partial, stable or heap")
	f.Float64("decay", gmatch.DefaultDecay, "score decay factor eps")
	f.Bool("decay-sim", false, "decay the dense similarity at chosen cells")
	f.Bool("decay-init", false, "decay the sparse similarity at chosen cells")
	f.Bool("decay-grad", false, "scale the gradient by eps^count")
	f.Bool("permute-gradient", false, "scan the gradient in world order")
	f.Bool("restricted-rounding", false, "round the final plan with the narrowed assignment")

	f.String("store", "", "badger directory to persist runs and the solution counter")
	f.String("counter-name", "solutions", "counter key inside --store")
	f.String("plot", "", "write the objective traces to this PNG/SVG/PDF file")
	f.String("metrics-out", "", "write Prometheus metrics in text format to this file")

	return cmd
}

func runMatch(cmd *cobra.Command, v *viper.Viper) error {
	in, err := loadInstance(v)
	if err != nil {
		return err
	}
	p, err := in.Problem()
	if err != nil {
		return err
	}
	opts, err := matchOptions(v)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	cfg := restart.Config{
		Runs:    v.GetInt("runs"),
		Workers: v.GetInt("workers"),
		Seed:    v.GetUint64("seed"),
		Options: opts,
		Metrics: restart.NewMetrics(reg),
	}
	klog.V(1).Infof("run: nt=%d nw=%d nc=%d runs=%d workers=%d", p.NT, p.NW, p.NC, cfg.Runs, cfg.Workers)

	rep, err := restart.Run(cmd.Context(), p, cfg)
	if err != nil {
		return err
	}
	printReport(cmd.OutOrStdout(), rep, in)

	if dir := v.GetString("store"); dir != "" {
		if err = persist(dir, v.GetString("counter-name"), rep); err != nil {
			return err
		}
	}
	if path := v.GetString("plot"); path != "" {
		if err = plotTraces(path, rep); err != nil {
			return err
		}
	}
	if path := v.GetString("metrics-out"); path != "" {
		if err = writeMetrics(path, reg); err != nil {
			return err
		}
	}

	return nil
}

// loadInstance reads --dir or the explicit file flags. Truth is known only for --dir.
func loadInstance(v *viper.Viper) (*synth.Instance, error) {
	if dir := v.GetString("dir"); dir != "" {
		return synth.Load(dir)
	}
	width, err := intWidth(v.GetInt("int-width"))
	if err != nil {
		return nil, err
	}
	tf, wf, sf := v.GetStringSlice("template"), v.GetStringSlice("world"), v.GetString("sim")
	if len(tf) == 0 || len(wf) == 0 || sf == "" {
		return nil, errors.New("run: need --dir or --template, --world and --sim")
	}

	in := &synth.Instance{}
	for _, path := range tf {
		m, err := synth.ReadCSRFile(path, width)
		if err != nil {
			return nil, err
		}
		in.Template = append(in.Template, m)
	}
	for _, path := range wf {
		m, err := synth.ReadCSRFile(path, width)
		if err != nil {
			return nil, err
		}
		in.World = append(in.World, m)
	}
	if in.Sim, err = synth.ReadDenseFile(sf, width); err != nil {
		return nil, err
	}

	return in, nil
}

// matchOptions validates the numeric flags before handing them to the panicking WithX options.
func matchOptions(v *viper.Viper) ([]gmatch.Option, error) {
	policy, err := plan.ParsePolicy(v.GetString("init"))
	if err != nil {
		return nil, errors.Wrapf(err, "--init %q", v.GetString("init"))
	}
	sel, err := assign.ParseSelection(v.GetString("selection"))
	if err != nil {
		return nil, errors.Wrapf(err, "--selection %q", v.GetString("selection"))
	}
	maxIter, initIter := v.GetInt("max-iter"), v.GetInt("init-iter")
	sigma, eps := v.GetFloat64("sigma"), v.GetFloat64("decay")
	switch {
	case maxIter < 0:
		return nil, errors.Wrapf(gmatch.ErrBadMaxIterations, "--max-iter %d", maxIter)
	case initIter < 0:
		return nil, errors.Wrapf(plan.ErrBadIterations, "--init-iter %d", initIter)
	case !(sigma >= 0) || math.IsInf(sigma, 0):
		return nil, errors.Wrapf(plan.ErrBadSigma, "--sigma %g", sigma)
	case !(eps > 0) || math.IsInf(eps, 0):
		return nil, errors.Wrapf(gmatch.ErrBadDecay, "--decay %g", eps)
	}

	opts := []gmatch.Option{
		gmatch.WithMaxIterations(maxIter),
		gmatch.WithInit(policy, initIter),
		gmatch.WithNoiseSigma(sigma),
		gmatch.WithSelection(sel),
		gmatch.WithDecay(eps, v.GetBool("decay-sim"), v.GetBool("decay-init"), v.GetBool("decay-grad")),
	}
	if v.GetBool("permute-gradient") {
		opts = append(opts, gmatch.WithPermutedGradient())
	}
	if v.GetBool("restricted-rounding") {
		opts = append(opts, gmatch.WithRestrictedRounding())
	}

	return opts, nil
}

func printReport(w io.Writer, rep restart.Report, in *synth.Instance) {
	for _, r := range rep.Runs {
		fmt.Fprintf(w, "run %d seed %d iterations %d converged %v score %.6g\n",
			r.Index, r.Seed, r.Result.Iterations, r.Result.Converged, r.Objective)
		fmt.Fprintf(w, "  assignment %v\n", r.Result.Assignment)
		if len(in.Truth) > 0 {
			fmt.Fprintf(w, "  accuracy %.3f\n", in.Accuracy(r.Result.Assignment))
		}
	}
	if best, ok := rep.BestRun(); ok {
		fmt.Fprintf(w, "best run %d score %.6g\n", best.Index, best.Objective)
	}
}

func persist(dir, counterName string, rep restart.Report) (err error) {
	s, err := store.Open(store.Options{Dir: dir})
	if err != nil {
		return err
	}
	defer func() {
		if cerr := s.Close(); err == nil {
			err = cerr
		}
	}()
	if err = s.SaveReport(rep); err != nil {
		return err
	}
	total, err := s.MergeCounter(counterName, rep.Counter)
	if err != nil {
		return err
	}
	klog.V(1).Infof("run: stored %d runs, counter %q total %d", len(rep.Runs), counterName, total.Total())

	return nil
}
