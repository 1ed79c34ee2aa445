// SPDX-License-Identifier: MIT

package assign

import (
	"errors"
	"math/rand/v2"
)

var (
	// ErrNilCost indicates a nil score matrix.
	ErrNilCost = errors.New("assign: score matrix is nil")

	// ErrTooFewColumns indicates n > m: rows cannot all get distinct columns.
	ErrTooFewColumns = errors.New("assign: more rows than columns")

	// ErrBadScanOrder indicates a scan order that is not a permutation of 0..m-1.
	ErrBadScanOrder = errors.New("assign: scan order is not a permutation of the columns")

	// ErrUnknownSelection indicates a Selection value outside the declared set.
	ErrUnknownSelection = errors.New("assign: unknown selection policy")
)

// Selection is the per-row top-n policy used by Rect.
type Selection int

const (
	// SelectPartial uses quickselect; ties come out in arbitrary order.
	SelectPartial Selection = iota

	// SelectStable uses a stable sort; among equal scores lower columns win.
	SelectStable

	// SelectHeap keeps a bounded heap of size n while scanning columns in ScanOrder;
	// among equal scores the earlier scanned column wins.
	SelectHeap
)

// String returns the policy name used in logs and flags.
func (s Selection) String() string {
	switch s {
	case SelectPartial:
		return "partial"
	case SelectStable:
		return "stable"
	case SelectHeap:
		return "heap"
	default:
		return "unknown"
	}
}

// ParseSelection maps a policy name back to its value.
func ParseSelection(s string) (Selection, error) {
	switch s {
	case "partial":
		return SelectPartial, nil
	case "stable":
		return SelectStable, nil
	case "heap":
		return SelectHeap, nil
	default:
		return 0, ErrUnknownSelection
	}
}

// Options configures Rect and Full.
//
// Selection – top-n policy (default SelectPartial).
// ScanOrder – column scan order for SelectHeap; nil means 0..m-1.
// Rand      – candidate shuffle stream; nil means rng.FromSeed(Seed).
// Seed      – seed used when Rand is nil.
type Options struct {
	Selection Selection
	ScanOrder []int
	Rand      *rand.Rand
	Seed      uint64
}

// Option represents a functional option for configuring Rect and Full.
type Option func(*Options)

// WithSelection selects the top-n policy.
func WithSelection(s Selection) Option {
	return func(o *Options) {
		o.Selection = s
	}
}

// WithScanOrder sets the column scan order used by SelectHeap.
func WithScanOrder(order []int) Option {
	return func(o *Options) {
		o.ScanOrder = order
	}
}

// WithRand supplies the shuffle stream; it takes precedence over WithSeed.
func WithRand(r *rand.Rand) Option {
	return func(o *Options) {
		o.Rand = r
	}
}

// WithSeed fixes the seed of the shuffle stream.
func WithSeed(seed uint64) Option {
	return func(o *Options) {
		o.Seed = seed
	}
}
