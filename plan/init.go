// SPDX-License-Identifier: MIT

package plan

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/katalvlaran/mgmatch/matrix"
	"github.com/katalvlaran/mgmatch/rng"
)

// Init builds a starting plan from sim.
// Stage 1: perturb a copy of sim's values (Perturb).
// Stage 2: balance with the selected policy.
// The result owns fresh buffers; sim is not modified.
func Init(sim *matrix.CSR, opts ...Option) (*matrix.CSR, error) {
	if sim == nil {
		return nil, ErrNilSimilarity
	}
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	r := o.Rand
	if r == nil {
		r = rng.FromSeed(o.Seed)
	}

	p := Perturb(sim, o.NoiseSigma, r)
	switch o.Policy {
	case RowNorm:
		RowNormalize(p)
	case Sinkhorn:
		SinkhornScale(p, o.Iterations)
	case Alternating:
		AlternatingScale(p, o.Iterations)
	default:
		return nil, fmt.Errorf("Init: policy %d: %w", int(o.Policy), ErrUnknownPolicy)
	}

	return p, nil
}

// Perturb returns a copy of sim with values exp(sim + N(0, sigma)), drawn in storage order.
// sigma == 0 skips sampling and yields exp(sim).
// Complexity: O(nrow + nnz).
func Perturb(sim *matrix.CSR, sigma float64, r *rand.Rand) *matrix.CSR {
	vals := make([]float64, sim.NNZ())
	if sigma == 0 {
		for k, v := range sim.Values() {
			vals[k] = math.Exp(v)
		}
	} else {
		noise := distuv.Normal{Mu: 0, Sigma: sigma, Src: r}
		for k, v := range sim.Values() {
			vals[k] = math.Exp(v + noise.Rand())
		}
	}
	p, _ := sim.WithValues(vals) // len(vals) == nnz

	return p
}
