// SPDX-License-Identifier: MIT

package yale

// Equal reports whether s and o hold the same matrix, treating an explicitly
// stored zero as equal to an absent (implicit) zero. Diagonals are compared
// slot by slot; each pair of row segments is walked with two pointers.
//
// Errors: ErrNilStorage, ErrReleased, ErrDimensionMismatch (wrapped).
// Complexity: O(rows + nnz(s) + nnz(o)).
func (s *Storage[D, I]) Equal(o *Storage[D, I]) (bool, error) {
	if err := s.alive(); err != nil {
		return false, yaleErrorf(opEqual, err)
	}
	if err := o.alive(); err != nil {
		return false, yaleErrorf(opEqual, err)
	}
	if s.rows != o.rows || s.cols != o.cols {
		return false, yaleErrorf(opEqual, ErrDimensionMismatch)
	}
	for i := 0; i < s.rows; i++ {
		if s.a.data[i] != o.a.data[i] {
			return false, nil
		}
	}
	var zero D
	for i := 0; i < s.rows; i++ {
		p, pe := s.rowStart(i), s.rowEnd(i)
		q, qe := o.rowStart(i), o.rowEnd(i)
		for p < pe || q < qe {
			switch {
			case q >= qe || (p < pe && s.ija.data[p] < o.ija.data[q]):
				// only in s
				if s.a.data[p] != zero {
					return false, nil
				}
				p++
			case p >= pe || o.ija.data[q] < s.ija.data[p]:
				// only in o
				if o.a.data[q] != zero {
					return false, nil
				}
				q++
			default:
				if s.a.data[p] != o.a.data[q] {
					return false, nil
				}
				p++
				q++
			}
		}
	}
	return true, nil
}
