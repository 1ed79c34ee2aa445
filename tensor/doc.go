// SPDX-License-Identifier: MIT

// Package tensor evaluates the bilinear part of the multi-channel matching objective.
//
// Channels are stacked: X is nt × (nt·nc) with channel m in column block m, and Y is
// (nw·nc) × nw with channel m in row block m. For a plan P (nt × nw) the contraction is
//
//	out = Σ_m X_m · P · Y_m
//
// computed row by row over the sparse structure only: for every X-edge (i → m·nt + j),
// every plan entry (j → k) and every Y-edge (m·nw + k → h), out[i,h] += x·p·y. With a hard
// permutation the middle factor is 1 and one loop disappears.
//
// Traces reduce three dense tensors against one sparse pattern (or one permutation):
//
//	a = Σ x[i,j]·w,  b = Σ y[i,j]·w,  c = Σ z[i,j]·w   over stored (i,j,w)
//
// The kernels trust their inputs: shapes are checked once with CheckStack when a problem
// is assembled, never inside the loops.
//
// Complexity: contraction O(Σ_i Σ_{X-edges of i} Σ_{plan row} deg_Y); traces O(nnz).
package tensor
