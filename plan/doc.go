// SPDX-License-Identifier: MIT

// Package plan builds the starting transport plan of a matching run from a sparse
// similarity matrix.
//
// Every policy first perturbs the similarity pattern:
//
//	P[i,j] = exp(sim[i,j] + N(0, σ))   for every stored (i,j); σ defaults to 2
//
// and then balances P over that same pattern:
//
//   - RowNorm:     scale each row to sum 1. A row whose sum is 0 is left as is, so an
//     isolated template node stays all-zero.
//   - Sinkhorn:    u = 1/nrow, v = 1/ncol; repeat k times v ← 1/(uᵗP), u ← 1/(P v); then
//     P[i,j] *= u[i]·v[j]. With full structural support this converges to a doubly
//     stochastic matrix; k trades precision for time and gives no exactness guarantee.
//   - Alternating: k sweeps of column normalisation followed by row normalisation.
//
// The output CSR copies rowStart/colIndex from the similarity; only values differ.
//
// Determinism: the noise stream is a function of the seed alone (package rng).
//
// Complexity: O(nnz) for the perturbation and RowNorm, O(k·(nnz + nrow + ncol)) for the
// iterative policies.
package plan
