// SPDX-License-Identifier: MIT

// Package lap solves the square linear assignment problem: given a k×k cost matrix
// (row-major, minimisation), find the perfect matching of rows to columns with the
// smallest total cost.
//
// Algorithm:
//
//	Rows are inserted one at a time. For each new row a shortest augmenting path is grown
//	over the reduced costs c[i,j] - u[i] - v[j] (Dijkstra over columns, dense scan), the
//	dual potentials u, v are shifted by the path length so reduced costs stay
//	non-negative, and the matching is flipped along the path.
//
// Contract:
//   - cost has exactly k*k finite entries; k >= 1.
//   - The result is a pair of mutually inverse arrays rowToCol, colToRow.
//
// Complexity: O(k³) time, O(k) extra memory.
package lap
