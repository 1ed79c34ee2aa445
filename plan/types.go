// SPDX-License-Identifier: MIT

package plan

import (
	"math"
	"math/rand/v2"
)

// Policy selects how the perturbed similarity is balanced.
type Policy int

const (
	// RowNorm scales every non-zero row to sum 1.
	RowNorm Policy = iota

	// Sinkhorn runs Sinkhorn-Knopp scaling vectors for Iterations rounds.
	Sinkhorn

	// Alternating runs Iterations sweeps of column-then-row normalisation.
	Alternating
)

// String returns the policy name used in logs and CLI flags.
func (p Policy) String() string {
	switch p {
	case RowNorm:
		return "rownorm"
	case Sinkhorn:
		return "sinkhorn"
	case Alternating:
		return "alternating"
	default:
		return "unknown"
	}
}

// ParsePolicy maps a policy name back to its value.
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "rownorm":
		return RowNorm, nil
	case "sinkhorn":
		return Sinkhorn, nil
	case "alternating":
		return Alternating, nil
	default:
		return 0, ErrUnknownPolicy
	}
}

const (
	// DefaultPolicy is Sinkhorn balancing.
	DefaultPolicy = Sinkhorn
	// DefaultIterations is the Sinkhorn/Alternating round count.
	DefaultIterations = 20
	// DefaultNoiseSigma is the standard deviation of the log-space perturbation.
	DefaultNoiseSigma = 2.0
)

// Options configures Init.
//
// Policy     – balancing policy (default Sinkhorn).
// Iterations – rounds for Sinkhorn/Alternating; ignored by RowNorm (default 20).
// NoiseSigma – σ of the N(0,σ) perturbation; 0 disables noise (default 2).
// Rand       – noise source; nil means rng.FromSeed(Seed).
// Seed       – seed used when Rand is nil.
type Options struct {
	Policy     Policy
	Iterations int
	NoiseSigma float64
	Rand       *rand.Rand
	Seed       uint64
}

// Option represents a functional option for configuring Init.
type Option func(*Options)

// DefaultOptions returns Options initialised with the package defaults.
func DefaultOptions() Options {
	return Options{
		Policy:     DefaultPolicy,
		Iterations: DefaultIterations,
		NoiseSigma: DefaultNoiseSigma,
	}
}

// WithPolicy selects the balancing policy.
func WithPolicy(p Policy) Option {
	return func(o *Options) {
		o.Policy = p
	}
}

// WithIterations sets the Sinkhorn/Alternating round count.
// Negative values panic with ErrBadIterations.
func WithIterations(k int) Option {
	return func(o *Options) {
		if k < 0 {
			panic(ErrBadIterations.Error())
		}
		o.Iterations = k
	}
}

// WithNoiseSigma sets the perturbation σ. Negative or non-finite values panic with ErrBadSigma.
func WithNoiseSigma(sigma float64) Option {
	return func(o *Options) {
		if sigma < 0 || math.IsNaN(sigma) || math.IsInf(sigma, 0) {
			panic(ErrBadSigma.Error())
		}
		o.NoiseSigma = sigma
	}
}

// WithSeed fixes the seed of the noise stream.
func WithSeed(seed uint64) Option {
	return func(o *Options) {
		o.Seed = seed
	}
}

// WithRand supplies the noise stream directly; it takes precedence over WithSeed.
func WithRand(r *rand.Rand) Option {
	return func(o *Options) {
		o.Rand = r
	}
}
