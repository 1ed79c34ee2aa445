// SPDX-License-Identifier: MIT

package tensor

import "errors"

var (
	// ErrChannels indicates a non-positive channel count or a stacked width that is not
	// a multiple of it.
	ErrChannels = errors.New("tensor: stacked width is not a positive multiple of the channel count")

	// ErrShape indicates operands whose shapes cannot be contracted together.
	ErrShape = errors.New("tensor: incompatible operand shapes")
)
