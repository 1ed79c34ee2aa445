// SPDX-License-Identifier: MIT

// Package gmatch matches a small multi-channel template graph into a larger
// multi-channel world graph with a conditional-gradient (Frank-Wolfe) method.
//
// Objective (maximised) for a plan P (nt × nw):
//
//	f(P) = ⟨Z0(P), P⟩ + ⟨S, P⟩,   Z0(P) = Σ_m T_mᵀ·P·W_m,   Z1(P) = Σ_m T_m·P·W_mᵀ
//
// Run (Match):
//
//	Init        P from plan.Init (or a caller-supplied plan); Z0, Z1 by contraction.
//	Iterating   grad = Z0 + Z1 + S (optionally × eps^count per cell);
//	            Q = assign.Rect(grad) (restricted LAP); Z0', Z1' for Q;
//	            traces (c,d0,u) over P and (d1,e,v) over Q; d = d0+d1;
//	            z0 = c-d+e, z1 = d-2e+u-v, f1 = c-e+u-v = f(P)-f(Q).
//	            Line search on φ(α) = f(αP + (1-α)Q) - f(Q) = z0·α² + z1·α:
//	              z0 == z1 == 0 → α = 0; z0 == 0 → no finite optimum; else α = -z1/(2·z0).
//	            interior step when 0<α<1, φ(α)>0, φ(α)>f1: P, Z0, Z1 ← α·cur + (1-α)·cand;
//	            full step when f1 < 0: P ← Q, Z0 ↔ Z0', Z1 ↔ Z1';
//	            otherwise converged.
//	Discretized P densified and rounded by an unrestricted assignment (assign.Full).
//	Done        counter[i, ind[i]]++; optional decay of S and of the sparse similarity.
//
// Every accepted step strictly increases f, so Trace objectives never decrease.
//
// Side channels: the counter and, when decay is enabled, Problem.Sim and
// Problem.SimSparse are mutated in place. Match itself is sequential; concurrent runs
// must not share a Problem with decay enabled (see package restart).
package gmatch
