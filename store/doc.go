// SPDX-License-Identifier: MIT

// Package store persists restart runs and solution counters in a Badger key-value store.
//
// Keys:
//
//	run/<uuid>      JSON RunRecord
//	counter/<name>  matrix counter binary encoding (int64 header, int64 cells)
//
// An empty directory path opens an in-memory store.
package store
