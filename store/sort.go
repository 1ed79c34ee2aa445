// SPDX-License-Identifier: MIT

package store

import (
	"cmp"
	"slices"
)

func sortRecords(recs []RunRecord) {
	slices.SortFunc(recs, func(a, b RunRecord) int {
		if c := cmp.Compare(a.Index, b.Index); c != 0 {
			return c
		}

		return cmp.Compare(a.ID.String(), b.ID.String())
	})
}
