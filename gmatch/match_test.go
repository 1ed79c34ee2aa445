// SPDX-License-Identifier: MIT

package gmatch_test

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/mgmatch/assign"
	"github.com/katalvlaran/mgmatch/gmatch"
	"github.com/katalvlaran/mgmatch/matrix"
	"github.com/katalvlaran/mgmatch/plan"
)

// twoNode is the 2×2 single-channel instance with edge 0→1 on both sides and a
// similarity that favours the identity.
func twoNode(t *testing.T) *gmatch.Problem {
	t.Helper()
	edge, err := matrix.NewCSR(2, 2, []int{0, 1, 1}, []int{1}, []float64{1})
	require.NoError(t, err)
	sim, err := matrix.NewDenseFrom(2, 2, []float64{10, 0, 0, 10})
	require.NoError(t, err)
	p, err := gmatch.NewProblem([]*matrix.CSR{edge}, []*matrix.CSR{edge.Clone()}, sim)
	require.NoError(t, err)

	return p
}

// randomGraph returns an n×n 0/1 adjacency without self loops.
func randomGraph(r *rand.Rand, n int, p float64) *matrix.CSR {
	d, _ := matrix.NewDense(n, n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i != j && r.Float64() < p {
				d.Row(i)[j] = 1
			}
		}
	}

	return matrix.FromDense(d)
}

// plantedProblem embeds a random template into a random world (template node i is
// world node truth[i]); similarity is 1 on label matches.
func plantedProblem(t *testing.T, seed uint64, nt, nw, nc int) (*gmatch.Problem, []int) {
	t.Helper()
	r := rand.New(rand.NewPCG(seed, 77))
	truth := r.Perm(nw)[:nt]
	labels := make([]int, nw)
	for j := range labels {
		labels[j] = r.IntN(3)
	}

	var tmpl, world []*matrix.CSR
	for m := 0; m < nc; m++ {
		w := randomGraph(r, nw, 0.3)
		wd, err := w.ToDense()
		require.NoError(t, err)
		td, _ := matrix.NewDense(nt, nt)
		for i := 0; i < nt; i++ {
			for k := 0; k < nt; k++ {
				td.Row(i)[k] = wd.Row(truth[i])[truth[k]]
			}
		}
		tmpl = append(tmpl, matrix.FromDense(td))
		world = append(world, w)
	}

	sim, _ := matrix.NewDense(nt, nw)
	for i := 0; i < nt; i++ {
		for j := 0; j < nw; j++ {
			if labels[j] == labels[truth[i]] {
				sim.Row(i)[j] = 1
			}
		}
	}
	p, err := gmatch.NewProblem(tmpl, world, sim)
	require.NoError(t, err)

	return p, truth
}

func requireDistinct(t *testing.T, ind []int, nw int) {
	t.Helper()
	seen := make([]bool, nw)
	for _, j := range ind {
		require.GreaterOrEqual(t, j, 0)
		require.Less(t, j, nw)
		require.False(t, seen[j])
		seen[j] = true
	}
}

func TestMatch_TwoNodeIdentity(t *testing.T) {
	for _, sigma := range []float64{0, plan.DefaultNoiseSigma} {
		p := twoNode(t)
		res, err := gmatch.Match(p, nil,
			gmatch.WithInit(plan.RowNorm, 0),
			gmatch.WithNoiseSigma(sigma),
			gmatch.WithSeed(0))
		require.NoError(t, err)
		require.Equal(t, []int{0, 1}, res.Assignment)
		require.True(t, res.Converged)
		require.LessOrEqual(t, res.Iterations, 2)
		require.Equal(t, gmatch.StepConverged, res.Trace[len(res.Trace)-1].Kind)
		// f(I) = ⟨Z0(I), I⟩ + ⟨S, I⟩ = 1 + 20
		require.InDelta(t, 21.0, res.Score, 1e-12)
	}
}

func TestMatch_EmptyTemplateStopsEarly(t *testing.T) {
	r := rand.New(rand.NewPCG(4, 4))
	for trial := 0; trial < 10; trial++ {
		nt, nw := 3, 8
		empty, _ := matrix.NewEmptyCSR(nt, nt)
		world := randomGraph(r, nw, 0.4)
		sim, _ := matrix.NewDense(nt, nw)
		for k := range sim.Data() {
			if r.Float64() < 0.5 {
				sim.Data()[k] = r.Float64()
			}
		}
		for i := 0; i < nt; i++ {
			sim.Row(i)[i] = 2 // keep every row non-empty
		}
		p, err := gmatch.NewProblem([]*matrix.CSR{empty}, []*matrix.CSR{world}, sim)
		require.NoError(t, err)

		res, err := gmatch.Match(p, nil, gmatch.WithSeed(uint64(trial)))
		require.NoError(t, err)
		requireDistinct(t, res.Assignment, nw)
		require.True(t, res.Converged)
		require.LessOrEqual(t, res.Iterations, 2)

		full := 0
		for _, s := range res.Trace {
			require.NotEqual(t, gmatch.StepInterior, s.Kind)
			if s.Kind == gmatch.StepFull {
				full++
			}
		}
		require.LessOrEqual(t, full, 1)
		// with no edges the objective is the similarity of the assignment alone
		var want float64
		for i, j := range res.Assignment {
			want += sim.Row(i)[j]
		}
		require.InDelta(t, want, res.Score, 1e-12)
	}
}

func TestMatch_ObjectiveNeverDecreases(t *testing.T) {
	policies := []assign.Selection{assign.SelectPartial, assign.SelectStable, assign.SelectHeap}
	for seed := uint64(1); seed <= 12; seed++ {
		p, _ := plantedProblem(t, seed, 5, 14, 1+int(seed%2))
		res, err := gmatch.Match(p, nil,
			gmatch.WithSeed(seed),
			gmatch.WithSelection(policies[seed%3]),
			gmatch.WithMaxIterations(30))
		require.NoError(t, err)
		requireDistinct(t, res.Assignment, p.NW)

		prev := res.InitialObjective
		for k, s := range res.Trace {
			tol := 1e-9 * math.Max(1, math.Abs(prev))
			require.GreaterOrEqual(t, s.Objective, prev-tol, "seed %d step %d (%s)", seed, k, s.Kind)
			if s.Kind != gmatch.StepConverged {
				prev = s.Objective
			}
		}
		// bookkeeping through merged tensors agrees with a fresh contraction
		require.InDelta(t, p.Objective(res.Plan), res.Objective, 1e-8*math.Max(1, math.Abs(res.Objective)))
		require.InDelta(t, p.AssignmentObjective(res.Assignment), res.Score, 1e-12)
	}
}

func TestMatch_Deterministic(t *testing.T) {
	p, _ := plantedProblem(t, 5, 5, 12, 2)
	a, err := gmatch.Match(p, nil, gmatch.WithSeed(7))
	require.NoError(t, err)
	b, err := gmatch.Match(p, nil, gmatch.WithSeed(7))
	require.NoError(t, err)
	require.Equal(t, a.Assignment, b.Assignment)
	require.Equal(t, a.Trace, b.Trace)
}

func TestMatch_VariantsProduceValidAssignments(t *testing.T) {
	p, _ := plantedProblem(t, 11, 4, 9, 2)
	order := rand.New(rand.NewPCG(1, 2)).Perm(p.NW)
	initial, err := plan.Init(p.SimSparse, plan.WithPolicy(plan.Alternating), plan.WithIterations(3))
	require.NoError(t, err)

	variants := [][]gmatch.Option{
		{gmatch.WithPermutedGradient()},
		{gmatch.WithPermutedGradient(), gmatch.WithSelection(assign.SelectHeap), gmatch.WithWorldOrder(order)},
		{gmatch.WithSelection(assign.SelectHeap), gmatch.WithWorldOrder(order)},
		{gmatch.WithRestrictedRounding()},
		{gmatch.WithInit(plan.Alternating, 5)},
		{gmatch.WithInitialPlan(initial)},
		{gmatch.WithMaxIterations(0)},
	}
	for k, opts := range variants {
		res, err := gmatch.Match(p, nil, opts...)
		require.NoError(t, err, "variant %d", k)
		requireDistinct(t, res.Assignment, p.NW)
		require.Len(t, res.Assignment, p.NT)
	}
	// the supplied plan is cloned, not consumed
	again, err := plan.Init(p.SimSparse, plan.WithPolicy(plan.Alternating), plan.WithIterations(3))
	require.NoError(t, err)
	require.Equal(t, again.Values(), initial.Values())
}

func TestMatch_CounterAndDecay(t *testing.T) {
	p, _ := plantedProblem(t, 3, 4, 9, 1)
	simBefore := p.Sim.Clone()
	sparseBefore := p.SimSparse.Clone()
	counter, err := matrix.NewCounter(p.NT, p.NW)
	require.NoError(t, err)

	res, err := gmatch.Match(p, counter, gmatch.WithDecay(0.5, true, true, true))
	require.NoError(t, err)
	require.Equal(t, p.NT, counter.Total())

	for i, j := range res.Assignment {
		require.Equal(t, 1, counter.At(i, j))

		before, _ := simBefore.At(i, j)
		after, _ := p.Sim.At(i, j)
		require.Equal(t, before*0.5, after)

		sb, _ := sparseBefore.At(i, j)
		sa, _ := p.SimSparse.At(i, j)
		require.Equal(t, sb*0.5, sa)
	}

	// no decay: similarities untouched, counter still counts
	q, _ := plantedProblem(t, 3, 4, 9, 1)
	_, err = gmatch.Match(q, counter)
	require.NoError(t, err)
	require.Equal(t, 2*p.NT, counter.Total())
	require.Equal(t, simBefore.Data(), q.Sim.Data())
}

// symmetricPair has an identity and a swap with equal objective (edge 0→1 in the template,
// both directions in the world, flat similarity), so only the gradient decides.
func symmetricPair(t *testing.T) *gmatch.Problem {
	t.Helper()
	tmpl, err := matrix.NewCSR(2, 2, []int{0, 1, 1}, []int{1}, []float64{1})
	require.NoError(t, err)
	world, err := matrix.NewCSR(2, 2, []int{0, 1, 2}, []int{1, 0}, []float64{1, 1})
	require.NoError(t, err)
	sim, err := matrix.NewDenseFrom(2, 2, []float64{1, 1, 1, 1})
	require.NoError(t, err)
	p, err := gmatch.NewProblem([]*matrix.CSR{tmpl}, []*matrix.CSR{world}, sim)
	require.NoError(t, err)

	return p
}

func TestMatch_GradientDecaySteersAwayFromCountedCells(t *testing.T) {
	cases := []struct {
		name    string
		counted []int // cells (i, counted[i]) chosen by earlier runs
		want    []int
	}{
		{"identity counted", []int{0, 1}, []int{1, 0}},
		{"swap counted", []int{1, 0}, []int{0, 1}},
	}
	scans := map[string][]gmatch.Option{
		"column order": nil,
		"world order":  {gmatch.WithPermutedGradient(), gmatch.WithWorldOrder([]int{1, 0})},
	}
	for _, tc := range cases {
		for scan, extra := range scans {
			t.Run(tc.name+"/"+scan, func(t *testing.T) {
				p := symmetricPair(t)
				counter, err := matrix.NewCounter(2, 2)
				require.NoError(t, err)
				for i, j := range tc.counted {
					for k := 0; k < 5; k++ {
						counter.Inc(i, j)
					}
				}
				opts := append([]gmatch.Option{
					gmatch.WithInit(plan.RowNorm, 0),
					gmatch.WithNoiseSigma(0),
					gmatch.WithDecay(0.01, false, false, true),
				}, extra...)

				res, err := gmatch.Match(p, counter, opts...)
				require.NoError(t, err)
				require.Equal(t, tc.want, res.Assignment)
				require.True(t, res.Converged)

				// uniform start: f1 < 0 and the line search peaks at α = 1, so one full step
				require.Len(t, res.Trace, 2)
				require.Equal(t, gmatch.Step{Kind: gmatch.StepFull, Alpha: 0, Objective: 3}, res.Trace[0])
				require.Equal(t, gmatch.Step{Kind: gmatch.StepConverged, Alpha: 1, Objective: 3}, res.Trace[1])
				require.Equal(t, 2.5, res.InitialObjective)

				// only the counter moves; similarities are untouched
				require.Equal(t, 1, counter.At(0, tc.want[0]))
				require.Equal(t, 12, counter.Total())
				require.Equal(t, []float64{1, 1, 1, 1}, p.Sim.Data())
			})
		}
	}
}

func TestMatch_StepAlphaIsWeightOnCurrentPlan(t *testing.T) {
	p, _ := plantedProblem(t, 11, 5, 12, 2)
	res, err := gmatch.Match(p, nil, gmatch.WithMaxIterations(30))
	require.NoError(t, err)
	for k, st := range res.Trace {
		switch st.Kind {
		case gmatch.StepFull:
			require.Zero(t, st.Alpha, "step %d", k)
		case gmatch.StepConverged:
			require.Equal(t, 1.0, st.Alpha, "step %d", k)
		case gmatch.StepInterior:
			require.Greater(t, st.Alpha, 0.0, "step %d", k)
			require.Less(t, st.Alpha, 1.0, "step %d", k)
		}
	}
}

func TestMatch_Errors(t *testing.T) {
	p := twoNode(t)
	_, err := gmatch.Match(nil, nil)
	require.ErrorIs(t, err, matrix.ErrNilMatrix)

	bad, _ := matrix.NewCounter(3, 3)
	_, err = gmatch.Match(p, bad)
	require.ErrorIs(t, err, gmatch.ErrCounterShape)

	_, err = gmatch.Match(p, nil, gmatch.WithDecay(0.9, false, false, true))
	require.ErrorIs(t, err, gmatch.ErrNilCounter)

	_, err = gmatch.Match(p, nil, gmatch.WithWorldOrder([]int{0, 0}))
	require.ErrorIs(t, err, gmatch.ErrBadWorldOrder)

	wrong, _ := matrix.NewEmptyCSR(3, 2)
	_, err = gmatch.Match(p, nil, gmatch.WithInitialPlan(wrong))
	require.ErrorIs(t, err, gmatch.ErrBadPlan)

	require.Panics(t, func() { gmatch.WithMaxIterations(-1)(&gmatch.Options{}) })
	require.Panics(t, func() { gmatch.WithDecay(0, true, false, false)(&gmatch.Options{}) })
}
