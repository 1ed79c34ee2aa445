// SPDX-License-Identifier: MIT

// Package restart runs many diversified gmatch.Match restarts on one Problem.
//
// Every run gets its own seed, derived from Config.Seed with rng.DeriveSeed, and a uuid.
// Runs are fanned out over Config.Workers goroutines. Each parallel run increments a private
// counter shard; shards are merged into Report.Counter in run order, so the final counter does
// not depend on scheduling.
//
// Score decay makes runs depend on each other (the counter and similarities written by one
// run are read by the next), so whenever decay is enabled Run falls back to a single worker
// sharing one counter and logs a warning.
//
// When some world node is the only candidate of a template node, Sinkhorn scaling has nothing
// to balance and the init policy is replaced by row normalisation.
//
// Metrics holds optional Prometheus collectors registered on a caller-supplied registry.
package restart
