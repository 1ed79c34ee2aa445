// SPDX-License-Identifier: MIT

package gmatch

import (
	"math"

	"github.com/katalvlaran/mgmatch/assign"
	"github.com/katalvlaran/mgmatch/matrix"
	"github.com/katalvlaran/mgmatch/plan"
)

const (
	// DefaultMaxIterations bounds the Frank-Wolfe loop.
	DefaultMaxIterations = 20
	// DefaultSeed seeds noise, shuffles and the world order.
	DefaultSeed uint64 = 123
	// DefaultDecay disables score decay.
	DefaultDecay = 1.0
)

// Options configures Match.
//
// MaxIterations      – loop bound (default 20).
// Init               – planner policy (default plan.Sinkhorn).
// InitIterations     – Sinkhorn/Alternating rounds (default 20).
// NoiseSigma         – σ of the init perturbation (default 2).
// Seed               – root seed; every random stream of a run derives from it (default 123).
// Decay              – factor eps applied by the three decay flags (default 1, no effect).
// DecaySim           – multiply Sim[i,ind[i]] by eps after the run.
// DecayInit          – multiply SimSparse(i,ind[i]) by eps after the run.
// DecayGrad          – multiply grad[i,j] by eps^counter[i,j] every iteration.
// Selection          – top-n policy of the restricted assignment (default assign.SelectPartial).
// PermuteGradient    – scan the gradient in world order instead of column order.
// InitialPlan        – start from this plan instead of plan.Init (cloned, never mutated).
// WorldOrder         – world node order for PermuteGradient and assign.SelectHeap (nil: random from Seed).
// RestrictedRounding – round the final plan with assign.Rect instead of assign.Full.
type Options struct {
	MaxIterations      int
	Init               plan.Policy
	InitIterations     int
	NoiseSigma         float64
	Seed               uint64
	Decay              float64
	DecaySim           bool
	DecayInit          bool
	DecayGrad          bool
	Selection          assign.Selection
	PermuteGradient    bool
	InitialPlan        *matrix.CSR
	WorldOrder         []int
	RestrictedRounding bool
}

// Option represents a functional option for configuring Match.
type Option func(*Options)

// DefaultOptions returns Options initialised with the package defaults.
func DefaultOptions() Options {
	return Options{
		MaxIterations:  DefaultMaxIterations,
		Init:           plan.DefaultPolicy,
		InitIterations: plan.DefaultIterations,
		NoiseSigma:     plan.DefaultNoiseSigma,
		Seed:           DefaultSeed,
		Decay:          DefaultDecay,
		Selection:      assign.SelectPartial,
	}
}

// DecayEnabled reports whether a run will mutate similarities or read the counter
// through decay.
func (o Options) DecayEnabled() bool {
	return o.Decay != 1 && (o.DecaySim || o.DecayInit || o.DecayGrad)
}

// MutatesProblem reports whether a run writes to the shared Problem.
func (o Options) MutatesProblem() bool {
	return o.Decay != 1 && (o.DecaySim || o.DecayInit)
}

// WithMaxIterations sets the loop bound. Negative values panic with ErrBadMaxIterations.
func WithMaxIterations(n int) Option {
	return func(o *Options) {
		if n < 0 {
			panic(ErrBadMaxIterations.Error())
		}
		o.MaxIterations = n
	}
}

// WithInit selects the planner policy and its round count.
func WithInit(p plan.Policy, iterations int) Option {
	return func(o *Options) {
		if iterations < 0 {
			panic(plan.ErrBadIterations.Error())
		}
		o.Init = p
		o.InitIterations = iterations
	}
}

// WithNoiseSigma sets σ of the init perturbation (0 disables noise).
func WithNoiseSigma(sigma float64) Option {
	return func(o *Options) {
		if sigma < 0 || math.IsNaN(sigma) || math.IsInf(sigma, 0) {
			panic(plan.ErrBadSigma.Error())
		}
		o.NoiseSigma = sigma
	}
}

// WithSeed sets the root seed of the run.
func WithSeed(seed uint64) Option {
	return func(o *Options) {
		o.Seed = seed
	}
}

// WithDecay sets eps and the three decay flags.
func WithDecay(eps float64, sim, init, grad bool) Option {
	return func(o *Options) {
		if eps <= 0 || math.IsNaN(eps) || math.IsInf(eps, 0) {
			panic(ErrBadDecay.Error())
		}
		o.Decay = eps
		o.DecaySim, o.DecayInit, o.DecayGrad = sim, init, grad
	}
}

// WithSelection sets the top-n policy of the restricted assignment.
func WithSelection(s assign.Selection) Option {
	return func(o *Options) {
		o.Selection = s
	}
}

// WithPermutedGradient scans the gradient in world order.
func WithPermutedGradient() Option {
	return func(o *Options) {
		o.PermuteGradient = true
	}
}

// WithInitialPlan starts the run from p.
func WithInitialPlan(p *matrix.CSR) Option {
	return func(o *Options) {
		o.InitialPlan = p
	}
}

// WithWorldOrder fixes the world node order.
func WithWorldOrder(order []int) Option {
	return func(o *Options) {
		o.WorldOrder = order
	}
}

// WithRestrictedRounding rounds the final plan with the top-n narrowed assignment.
func WithRestrictedRounding() Option {
	return func(o *Options) {
		o.RestrictedRounding = true
	}
}
