// SPDX-License-Identifier: MIT

package yale

import "slices"

// search looks key up in the sorted slots ija[left:right).
//
// Result convention, shared by accessors, merge and import:
//   - found == true:  pos is the slot holding key.
//   - found == false: pos is the slot where key would be inserted to keep
//     the segment sorted (left ≤ pos ≤ right).
//
// Complexity: O(log(right-left)).
func (s *Storage[D, I]) search(left, right int, key I) (pos int, found bool) {
	p, ok := slices.BinarySearch(s.ija.data[left:right], key)
	return left + p, ok
}

// find locates column j in row i's off-diagonal segment.
func (s *Storage[D, I]) find(i, j int) (pos int, found bool) {
	return s.search(s.rowStart(i), s.rowEnd(i), I(j))
}
