// SPDX-License-Identifier: MIT

package matrix_test

import (
	"fmt"

	"github.com/katalvlaran/mgmatch/matrix"
)

// ExampleSparseConvexCombination blends a plan halfway toward the identity permutation.
func ExampleSparseConvexCombination() {
	p, _ := matrix.NewCSR(2, 2, []int{0, 1, 2}, []int{1, 0}, []float64{1, 1})
	out := matrix.SparseConvexCombination(0.5, []int{0, 1}, p)
	d, _ := out.ToDense()
	fmt.Print(d)
	// Output:
	// [0.5, 0.5]
	// [0.5, 0.5]
}

// ExampleHStack stacks two channels of a 2-node graph side by side.
func ExampleHStack() {
	c0 := matrix.Permutation([]int{1, 0}, 2)
	c1, _ := matrix.NewEmptyCSR(2, 2)
	h, _ := matrix.HStack(c0, c1)
	fmt.Println(h.Rows(), h.Cols(), h.NNZ())
	// Output: 2 4 2
}
