// SPDX-License-Identifier: MIT

// Package mgmatch matches a small multi-channel template graph into a large world graph.
//
// A match is an injective map ind from template nodes to world nodes that maximizes
//
//	f(P) = Σ_m ⟨T_m P W_mᵀ, P⟩ + ⟨Sim, P⟩
//
// over 0/1 plans P, relaxed to fractional plans and optimized by Frank-Wolfe with exact
// line search. Each linearization is solved by a rectangular assignment restricted to the
// top-n columns of every row.
//
// Packages:
//
//	matrix/   CSR and dense containers, convex merges, stacking, binary I/O
//	plan/     perturbed, balanced starting plans (row-normalize, Sinkhorn)
//	tensor/   stacked contraction Σ_m X_m P Y_m and trace algebra
//	lap/      square minimum-cost assignment (shortest augmenting path)
//	assign/   restricted rectangular assignment with top-n candidate selection
//	gmatch/   the Frank-Wolfe driver (Problem, Match, Result)
//	restart/  seeded multi-start fan-out, counter shards, Prometheus metrics
//	store/    Badger persistence of runs and solution counters
//	synth/    planted Erdős–Rényi instances with ground truth
//	rng/      deterministic seed derivation and shuffles
//
// Quick start:
//
//	p, _ := gmatch.NewProblem(template, world, sim)
//	res, _ := gmatch.Match(p, nil, gmatch.WithSeed(7))
//	fmt.Println(res.Assignment)
//
//	go install github.com/katalvlaran/mgmatch/cmd/mgmatch@latest
package mgmatch
