// SPDX-License-Identifier: MIT

package gmatch

import (
	"fmt"
	"math"

	"github.com/plan-systems/klog"
	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/mgmatch/assign"
	"github.com/katalvlaran/mgmatch/matrix"
	"github.com/katalvlaran/mgmatch/plan"
	"github.com/katalvlaran/mgmatch/rng"
	"github.com/katalvlaran/mgmatch/tensor"
)

// Random stream ids derived from Options.Seed.
const (
	streamInit uint64 = iota + 1
	streamAssign
	streamOrder
	streamRound
)

// run holds the per-run buffers. Z0/Z1 belong to the current plan and Z0c/Z1c to the
// candidate; a full step swaps the pairs.
type run struct {
	p       *Problem
	o       Options
	counter *matrix.Counter

	P             *matrix.CSR
	grad          *matrix.Dense
	Z0, Z1        *matrix.Dense
	Z0c, Z1c      *matrix.Dense
	order         []int
	assignOptions []assign.Option
}

// Match runs one Frank-Wolfe matching of p and returns the hard assignment.
// counter may be nil unless DecayGrad is enabled; when non-nil it is incremented at every
// chosen cell. Decay flags mutate p (see package doc).
func Match(p *Problem, counter *matrix.Counter, opts ...Option) (Result, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	r, err := newRun(p, counter, o)
	if err != nil {
		return Result{}, err
	}

	return r.solve()
}

// newRun validates inputs and allocates every per-run buffer (state Init).
func newRun(p *Problem, counter *matrix.Counter, o Options) (*run, error) {
	if p == nil {
		return nil, fmt.Errorf("Match: %w", matrix.ErrNilMatrix)
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("Match: %w", err)
	}
	if counter != nil && (counter.Rows() != p.NT || counter.Cols() != p.NW) {
		return nil, fmt.Errorf("Match: counter %dx%d: %w", counter.Rows(), counter.Cols(), ErrCounterShape)
	}
	if o.DecayGrad && o.Decay != 1 && counter == nil {
		return nil, fmt.Errorf("Match: %w", ErrNilCounter)
	}

	r := &run{p: p, o: o, counter: counter}

	// world order has its own stream
	r.order = o.WorldOrder
	if r.order == nil {
		r.order = rng.Perm(p.NW, rng.FromSeed(rng.DeriveSeed(o.Seed, streamOrder)))
	} else if !isPermutation(r.order, p.NW) {
		return nil, fmt.Errorf("Match: len %d: %w", len(r.order), ErrBadWorldOrder)
	}

	if o.InitialPlan != nil {
		if o.InitialPlan.Rows() != p.NT || o.InitialPlan.Cols() != p.NW {
			return nil, fmt.Errorf("Match: plan %dx%d: %w", o.InitialPlan.Rows(), o.InitialPlan.Cols(), ErrBadPlan)
		}
		r.P = o.InitialPlan.Clone()
	} else {
		var err error
		r.P, err = plan.Init(p.SimSparse,
			plan.WithPolicy(o.Init),
			plan.WithIterations(o.InitIterations),
			plan.WithNoiseSigma(o.NoiseSigma),
			plan.WithSeed(rng.DeriveSeed(o.Seed, streamInit)))
		if err != nil {
			return nil, fmt.Errorf("Match: %w", err)
		}
	}

	bufs := make([]*matrix.Dense, 5)
	for k := range bufs {
		d, err := matrix.NewDense(p.NT, p.NW)
		if err != nil {
			return nil, fmt.Errorf("Match: %w", err)
		}
		bufs[k] = d
	}
	r.grad, r.Z0, r.Z1, r.Z0c, r.Z1c = bufs[0], bufs[1], bufs[2], bufs[3], bufs[4]

	// one shuffle stream shared by every iteration of the run
	r.assignOptions = []assign.Option{
		assign.WithSelection(o.Selection),
		assign.WithRand(rng.FromSeed(rng.DeriveSeed(o.Seed, streamAssign))),
	}
	if !o.PermuteGradient {
		// a permuted gradient is already in world order
		r.assignOptions = append(r.assignOptions, assign.WithScanOrder(r.order))
	}

	return r, nil
}

func (r *run) solve() (Result, error) {
	var (
		p   = r.p
		res Result
	)
	tensor.StackedMultiply(r.Z0, p.NC, p.At, r.P, p.B)
	tensor.StackedMultiply(r.Z1, p.NC, p.A, r.P, p.Bt)
	res.InitialObjective = r.objective()
	res.Objective = res.InitialObjective

	// Iterating
	for it := 0; it < r.o.MaxIterations; it++ {
		res.Iterations++
		step, err := r.iterate()
		if err != nil {
			return Result{}, fmt.Errorf("Match: iteration %d: %w", it, err)
		}
		res.Trace = append(res.Trace, step)
		klog.V(2).Infof("gmatch: it=%d step=%s alpha=%.6g objective=%.12g", it, step.Kind, step.Alpha, step.Objective)
		if step.Kind == StepConverged {
			res.Converged = true
			break
		}
		res.Objective = step.Objective
	}

	// Discretized
	ind, err := r.round()
	if err != nil {
		return Result{}, fmt.Errorf("Match: rounding: %w", err)
	}
	res.Assignment = ind
	res.Plan = r.P
	res.Score = p.AssignmentObjective(ind)

	// Done
	r.finish(ind)
	klog.V(1).Infof("gmatch: done iterations=%d converged=%v objective=%.12g score=%.12g",
		res.Iterations, res.Converged, res.Objective, res.Score)

	return res, nil
}

// objective returns f(P) = ⟨Z0, P⟩ + ⟨Sim, P⟩ from the current buffers.
func (r *run) objective() float64 {
	a, b, _ := tensor.Traces(r.Z0, r.p.Sim, r.p.Sim, r.P)

	return a + b
}

// iterate performs one Frank-Wolfe step.
func (r *run) iterate() (Step, error) {
	p := r.p
	r.gradient()

	ind, err := assign.Rect(r.grad, r.assignOptions...)
	if err != nil {
		return Step{}, err
	}
	if r.o.PermuteGradient {
		for i, j := range ind {
			ind[i] = r.order[j]
		}
	}

	tensor.StackedMultiplyPerm(r.Z0c, p.NC, p.At, ind, p.B)
	tensor.StackedMultiplyPerm(r.Z1c, p.NC, p.A, ind, p.Bt)

	c, d0, u := tensor.Traces(r.Z0, r.Z0c, p.Sim, r.P)
	d1, e, v := tensor.TracesPerm(r.Z0, r.Z0c, p.Sim, ind)

	d := d0 + d1
	z0 := c - d + e
	z1 := d - 2*e + u - v
	f1 := c - e + u - v

	var alpha, falpha float64
	switch {
	case z0 == 0 && z1 == 0:
		alpha, falpha = 0, 0
	case z0 == 0:
		alpha, falpha = math.MaxFloat64, math.MaxFloat64
	default:
		alpha = -z1 / (2 * z0)
		falpha = z0*alpha*alpha + z1*alpha
	}

	switch {
	case alpha > 0 && alpha < 1 && falpha > 0 && falpha > f1:
		r.P = matrix.SparseConvexCombination(alpha, ind, r.P)
		if err = matrix.DenseConvexCombination(alpha, r.Z0c, r.Z0); err != nil {
			return Step{}, err
		}
		if err = matrix.DenseConvexCombination(alpha, r.Z1c, r.Z1); err != nil {
			return Step{}, err
		}

		return Step{Kind: StepInterior, Alpha: alpha, Objective: e + v + falpha}, nil

	case f1 < 0:
		r.P = matrix.Permutation(ind, p.NW)
		r.Z0, r.Z0c = r.Z0c, r.Z0
		r.Z1, r.Z1c = r.Z1c, r.Z1

		return Step{Kind: StepFull, Alpha: 0, Objective: e + v}, nil

	default:
		return Step{Kind: StepConverged, Alpha: 1, Objective: c + u}, nil
	}
}

// gradient fills grad with Z0 + Z1 + Sim, scanned in world order when PermuteGradient is
// set, and scaled by eps^count when gradient decay is on.
func (r *run) gradient() {
	var (
		g         = r.grad.Data()
		z0, z1, s = r.Z0.Data(), r.Z1.Data(), r.p.Sim.Data()
		nw        = r.p.NW
		decay     = r.o.DecayGrad && r.o.Decay != 1
		eps       = r.o.Decay
	)
	var (
		counts         []int
		i, c, dst, src int
	)
	if decay {
		counts = r.counter.Data()
	}

	if !r.o.PermuteGradient {
		floats.AddTo(g, z0, z1)
		floats.Add(g, s)
		if decay {
			for i = range g {
				g[i] *= math.Pow(eps, float64(counts[i]))
			}
		}

		return
	}

	for i = 0; i < r.p.NT; i++ {
		for c = 0; c < nw; c++ {
			dst = i*nw + c
			src = i*nw + r.order[c]
			g[dst] = z0[src] + z1[src] + s[src]
			if decay {
				g[dst] *= math.Pow(eps, float64(counts[src]))
			}
		}
	}
}

// round densifies the plan and solves the final assignment (state Discretized).
func (r *run) round() ([]int, error) {
	d, err := r.P.ToDense()
	if err != nil {
		return nil, err
	}
	opts := []assign.Option{assign.WithSeed(rng.DeriveSeed(r.o.Seed, streamRound))}
	if r.o.RestrictedRounding {
		return assign.Rect(d, opts...)
	}

	return assign.Full(d, opts...)
}

// finish updates the counter and applies similarity decay (state Done).
func (r *run) finish(ind []int) {
	eps := r.o.Decay
	for i, j := range ind {
		if r.counter != nil {
			r.counter.Inc(i, j)
		}
		if eps == 1 {
			continue
		}
		if r.o.DecaySim {
			r.p.Sim.Row(i)[j] *= eps
		}
		if r.o.DecayInit {
			r.p.SimSparse.ScaleAt(i, j, eps)
		}
	}
}

func isPermutation(order []int, n int) bool {
	if len(order) != n {
		return false
	}
	seen := make([]bool, n)
	for _, j := range order {
		if j < 0 || j >= n || seen[j] {
			return false
		}
		seen[j] = true
	}

	return true
}
