// SPDX-License-Identifier: MIT

package gmatch

import "errors"

var (
	// ErrNoChannels indicates empty template or world channel lists.
	ErrNoChannels = errors.New("gmatch: at least one channel is required")

	// ErrChannelMismatch indicates a different number of template and world channels.
	ErrChannelMismatch = errors.New("gmatch: template and world channel counts differ")

	// ErrNotSquare indicates a channel adjacency that is not n×n or whose n differs
	// between channels of the same graph.
	ErrNotSquare = errors.New("gmatch: channel adjacency must be square and consistent")

	// ErrSimilarityShape indicates a similarity matrix that is not nt×nw.
	ErrSimilarityShape = errors.New("gmatch: similarity must be template×world")

	// ErrTemplateTooLarge indicates nt > nw.
	ErrTemplateTooLarge = errors.New("gmatch: template has more nodes than the world")

	// ErrCounterShape indicates a counter that is not nt×nw.
	ErrCounterShape = errors.New("gmatch: counter must be template×world")

	// ErrNilCounter indicates gradient decay without a counter to read from.
	ErrNilCounter = errors.New("gmatch: gradient decay requires a counter")

	// ErrBadPlan indicates a caller-supplied plan that is not nt×nw.
	ErrBadPlan = errors.New("gmatch: initial plan must be template×world")

	// ErrBadWorldOrder indicates a world order that is not a permutation of 0..nw-1.
	ErrBadWorldOrder = errors.New("gmatch: world order must be a permutation of the world nodes")

	// ErrBadMaxIterations is raised (as a panic) by WithMaxIterations for negative counts.
	ErrBadMaxIterations = errors.New("gmatch: max iterations must be non-negative")

	// ErrBadDecay is raised (as a panic) by WithDecay for non-positive or non-finite factors.
	ErrBadDecay = errors.New("gmatch: decay factor must be finite and positive")
)
