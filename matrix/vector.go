// SPDX-License-Identifier: MIT

package matrix

import "fmt"

// Vector is a dense 1-D array of float64 values (normalisation factors,
// per-row or per-column sums).
type Vector struct {
	data []float64
}

// NewVector returns a zero vector of length n (n >= 0).
func NewVector(n int) (*Vector, error) {
	if n < 0 {
		return nil, fmt.Errorf("NewVector(%d): %w", n, ErrBadShape)
	}

	return &Vector{data: make([]float64, n)}, nil
}

// NewVectorFrom wraps data without copying.
func NewVectorFrom(data []float64) *Vector {
	return &Vector{data: data}
}

// Len returns the number of elements.
func (v *Vector) Len() int { return len(v.data) }

// Data returns the backing slice (shared).
func (v *Vector) Data() []float64 { return v.data }
