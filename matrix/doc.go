// SPDX-License-Identifier: MIT

// Package matrix provides the storage primitives of the matching engine:
// a compressed-sparse-row matrix (CSR), a row-major dense matrix (Dense),
// a dense vector (Vector) and an integer solution counter (Counter).
//
// What lives here:
//
//   - CSR with the canonical invariants: len(rowStart)==nrow+1, rowStart non-decreasing,
//     rowStart[0]==0, rowStart[nrow]==nnz, and strictly ascending column ids inside a row.
//     The sorted-merge convex combination and every row-local scan in the tensor package
//     depend on that ordering.
//   - Dense with the explicit index formula i*cols + j over one flat []float64.
//   - Convex-combination merges (dense in place; sparse against a permutation, producing a
//     fresh CSR whose per-row support is the union of both supports).
//   - Channel stacking (HStack/VStack), Transpose, Permutation and dense/sparse conversion.
//   - A flat binary codec for CSR, Dense and Vector (header-prefixed, little-endian,
//     4- or 8-byte integers, float64 values).
//
// Ownership:
//
//	Constructors take ownership of the slices they are given. Data/RowStart/ColIndex/Values
//	expose the backing storage to the numeric kernels without copying; callers must not
//	change a CSR's structure through them. When a structure changes (merge, full step) a new
//	value is built and the old one is simply dropped.
//
// Validation happens at construction (NewCSR, NewDense, the readers). The hot kernels
// (convex merges here, contraction and traces in package tensor) do no bounds checking.
package matrix
