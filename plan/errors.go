// SPDX-License-Identifier: MIT

package plan

import "errors"

var (
	// ErrNilSimilarity indicates that no similarity matrix was supplied.
	ErrNilSimilarity = errors.New("plan: similarity matrix is nil")

	// ErrUnknownPolicy indicates a Policy value outside the declared set.
	ErrUnknownPolicy = errors.New("plan: unknown init policy")

	// ErrBadIterations is raised (as a panic) by WithIterations for negative counts.
	ErrBadIterations = errors.New("plan: iterations must be non-negative")

	// ErrBadSigma is raised (as a panic) by WithNoiseSigma for negative or non-finite σ.
	ErrBadSigma = errors.New("plan: noise sigma must be finite and non-negative")
)
