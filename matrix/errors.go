// SPDX-License-Identifier: MIT

// Package matrix: sentinel error set.
// Every message is prefixed with "matrix: ..." so it is easy to grep in logs.
// Wrap with fmt.Errorf("ctx: %w", ErrX) (or errors.Wrapf at I/O boundaries) and
// match with errors.Is.

package matrix

import "errors"

var (
	// ErrBadShape is returned when a requested shape is invalid (negative or zero where
	// a positive size is required, or a header that does not fit the stream).
	ErrBadShape = errors.New("matrix: invalid shape")

	// ErrOutOfRange indicates that a row or column index is outside valid bounds.
	ErrOutOfRange = errors.New("matrix: index out of range")

	// ErrDimensionMismatch indicates incompatible dimensions between operands or
	// between a header and its payload.
	ErrDimensionMismatch = errors.New("matrix: dimension mismatch")

	// ErrBadRowStart signals a row-offset array that is not a valid CSR prefix sum.
	ErrBadRowStart = errors.New("matrix: invalid row offsets")

	// ErrUnsortedIndices signals column ids that are not strictly ascending inside a row.
	ErrUnsortedIndices = errors.New("matrix: column indices not strictly ascending")

	// ErrBadIntWidth signals an unsupported integer width for the binary codec.
	ErrBadIntWidth = errors.New("matrix: integer width must be 4 or 8 bytes")

	// ErrNilMatrix indicates that a nil matrix was passed where one is required.
	ErrNilMatrix = errors.New("matrix: nil matrix")
)
