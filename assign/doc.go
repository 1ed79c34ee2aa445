// SPDX-License-Identifier: MIT

// Package assign turns an n×m score matrix (n <= m, higher is better) into an
// assignment of every row to a distinct column.
//
// Rect narrows the column universe before solving:
//
//  1. Per row, pick the n best columns (Selection policy, see below).
//  2. Union and de-duplicate across rows: u candidate columns, n <= u <= min(m, n²).
//  3. Shuffle the candidates (seeded) so tie order carries no systematic bias.
//  4. Build the n×u sub-matrix, flip it to minimisation with (1+max) - score, and embed
//     it transposed into a (n+u)×(n+u) square matrix: the u×n real block top-left, an
//     n×u zero dummy block bottom-right, and the penalty 1+max(flipped) elsewhere.
//  5. Solve the square problem (package lap) and map back: ind[i] = cand[colToRow[i]].
//
// The result is optimal among assignments that use only candidate columns; the true
// optimum may use a column outside every row's top-n.
//
// Full skips narrowing (u = m) and is used to round a fractional plan at the end.
//
// Selection policies:
//   - SelectPartial: quickselect, arbitrary order among ties (default).
//   - SelectStable:  stable sort, ties resolved by column index.
//   - SelectHeap:    bounded heap of size n over a caller-supplied scan order; higher
//     score wins and on equal score the column scanned first wins.
//
// Complexity: selection O(n·m) expected (O(n·m·log m) stable, O(n·m·log n) heap),
// solve O((n+u)³).
package assign
