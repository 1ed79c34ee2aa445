// SPDX-License-Identifier: MIT
// Package: mgmatch/synth
//
// Planted multi-channel matching instances.
//
// Model:
//   - World: per channel, a directed Erdős–Rényi graph on nw nodes; every ordered pair (i,j),
//     i≠j, is an edge with probability p (self-loops optional).
//   - Template: nt ≤ nw world nodes drawn uniformly (Truth); template edge i→k exists in
//     channel m iff world edge Truth[i]→Truth[k] exists in channel m.
//   - Labels: world nodes get one of L classes; template node i inherits Truth[i]'s class.
//   - Similarity: Sim[i,j] = 1 when the classes of template node i and world node j agree.
//
// Determinism:
//   - Channel m samples from DeriveSeed(seed, m+1); the embedding and labels have their own
//     streams. Trial order is i asc, j asc.
package synth
