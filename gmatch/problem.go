// SPDX-License-Identifier: MIT

package gmatch

import (
	"fmt"

	"github.com/katalvlaran/mgmatch/matrix"
	"github.com/katalvlaran/mgmatch/tensor"
)

// Problem is a stacked matching instance.
//
// A  = [T_0 … T_{nc-1}]      nt × nt·nc
// At = [T_0ᵀ … T_{nc-1}ᵀ]    nt × nt·nc
// B  = [W_0; …; W_{nc-1}]    nw·nc × nw
// Bt = [W_0ᵀ; …; W_{nc-1}ᵀ]  nw·nc × nw
//
// SimSparse holds the stored entries of Sim (exact zeros dropped) and seeds the plan.
type Problem struct {
	NC, NT, NW int
	A, At      *matrix.CSR
	B, Bt      *matrix.CSR
	SimSparse  *matrix.CSR
	Sim        *matrix.Dense
}

// NewProblem stacks per-channel template and world adjacencies and pairs them with a
// dense nt×nw similarity. Sim is adopted, not copied.
// Stage 1: channel counts and square, consistent shapes.
// Stage 2: horizontal stacks for the template, vertical stacks for the world.
// Stage 3: sparse view of the similarity.
func NewProblem(template, world []*matrix.CSR, sim *matrix.Dense) (*Problem, error) {
	if len(template) == 0 || len(world) == 0 {
		return nil, ErrNoChannels
	}
	if len(template) != len(world) {
		return nil, fmt.Errorf("NewProblem: %d vs %d: %w", len(template), len(world), ErrChannelMismatch)
	}
	nt, err := squareSide(template)
	if err != nil {
		return nil, fmt.Errorf("NewProblem: template: %w", err)
	}
	nw, err := squareSide(world)
	if err != nil {
		return nil, fmt.Errorf("NewProblem: world: %w", err)
	}
	if sim == nil || sim.Rows() != nt || sim.Cols() != nw {
		return nil, fmt.Errorf("NewProblem: want %dx%d: %w", nt, nw, ErrSimilarityShape)
	}
	if nt > nw {
		return nil, fmt.Errorf("NewProblem: nt=%d nw=%d: %w", nt, nw, ErrTemplateTooLarge)
	}

	nc := len(template)
	tt := make([]*matrix.CSR, nc)
	wt := make([]*matrix.CSR, nc)
	for m := 0; m < nc; m++ {
		tt[m] = template[m].Transpose()
		wt[m] = world[m].Transpose()
	}

	p := &Problem{NC: nc, NT: nt, NW: nw, Sim: sim, SimSparse: matrix.FromDense(sim)}
	if p.A, err = matrix.HStack(template...); err != nil {
		return nil, err
	}
	if p.At, err = matrix.HStack(tt...); err != nil {
		return nil, err
	}
	if p.B, err = matrix.VStack(world...); err != nil {
		return nil, err
	}
	if p.Bt, err = matrix.VStack(wt...); err != nil {
		return nil, err
	}

	return p, nil
}

// squareSide returns n when every channel is n×n.
func squareSide(chans []*matrix.CSR) (int, error) {
	if chans[0] == nil {
		return 0, matrix.ErrNilMatrix
	}
	n := chans[0].Rows()
	if n == 0 {
		return 0, ErrNotSquare
	}
	for c, m := range chans {
		if m == nil {
			return 0, fmt.Errorf("channel %d: %w", c, matrix.ErrNilMatrix)
		}
		if m.Rows() != n || m.Cols() != n {
			return 0, fmt.Errorf("channel %d is %dx%d, want %dx%d: %w", c, m.Rows(), m.Cols(), n, n, ErrNotSquare)
		}
	}

	return n, nil
}

// Validate checks the stacked shapes of a Problem assembled by hand.
func (p *Problem) Validate() error {
	if p.A == nil || p.At == nil || p.B == nil || p.Bt == nil || p.Sim == nil || p.SimSparse == nil {
		return fmt.Errorf("Problem.Validate: %w", matrix.ErrNilMatrix)
	}
	for _, pair := range [][2]*matrix.CSR{{p.At, p.B}, {p.A, p.Bt}} {
		if err := tensor.CheckStack(p.NC, pair[0], p.NT, p.NW, pair[1], nil); err != nil {
			return fmt.Errorf("Problem.Validate: %w", err)
		}
	}
	if p.Sim.Rows() != p.NT || p.Sim.Cols() != p.NW || p.SimSparse.Rows() != p.NT || p.SimSparse.Cols() != p.NW {
		return fmt.Errorf("Problem.Validate: %w", ErrSimilarityShape)
	}
	if p.NT > p.NW {
		return fmt.Errorf("Problem.Validate: %w", ErrTemplateTooLarge)
	}

	return nil
}

// SingleCandidateColumns counts world nodes with exactly one stored similarity entry.
// Sinkhorn balancing is ill-posed for such columns.
func (p *Problem) SingleCandidateColumns() int {
	count := make([]int, p.NW)
	for _, j := range p.SimSparse.ColIndex() {
		count[j]++
	}
	var n int
	for _, c := range count {
		if c == 1 {
			n++
		}
	}

	return n
}

// Objective returns f(P) = ⟨Z0(P), P⟩ + ⟨Sim, P⟩ for a sparse plan.
// Complexity: one contraction plus O(nnz(P)).
func (p *Problem) Objective(plan *matrix.CSR) float64 {
	z0, _ := matrix.NewDense(p.NT, p.NW)
	tensor.StackedMultiply(z0, p.NC, p.At, plan, p.B)
	a, b, _ := tensor.Traces(z0, p.Sim, p.Sim, plan)

	return a + b
}

// AssignmentObjective returns f for the 0/1 plan of ind.
func (p *Problem) AssignmentObjective(ind []int) float64 {
	z0, _ := matrix.NewDense(p.NT, p.NW)
	tensor.StackedMultiplyPerm(z0, p.NC, p.At, ind, p.B)
	a, b, _ := tensor.TracesPerm(z0, p.Sim, p.Sim, ind)

	return a + b
}
