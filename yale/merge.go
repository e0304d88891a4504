// SPDX-License-Identifier: MIT

// Package yale - structural merge.
//
// Purpose:
//   - Build the union of two off-diagonal sparsity patterns as scaffolding
//     for numeric merges, and share the row walks used by Equal-like and
//     element-wise kernels.
//
// Implementation:
//   - Stage 1 (count): per row, two-pointer walk counting distinct columns.
//   - Stage 2 (fill): allocate once with the exact size, then repeat the walk
//     writing columns; template values are kept, cells that only the other
//     operand holds get a zero placeholder.

package yale

// walkUnion visits the union of row i's columns in s and o in ascending
// order. p (q) is the slot in s (o), or -1 when the column is absent there.
func walkUnion[I Index](sa []I, la, ha int, sb []I, lb, hb int, fn func(col I, p, q int)) {
	p, q := la, lb
	for p < ha || q < hb {
		switch {
		case q >= hb || (p < ha && sa[p] < sb[q]):
			fn(sa[p], p, -1)
			p++
		case p >= ha || sb[q] < sa[p]:
			fn(sb[q], -1, q)
			q++
		default:
			fn(sa[p], p, q)
			p++
			q++
		}
	}
}

// walkIntersect visits the columns present in both segments, ascending.
func walkIntersect[I Index](sa []I, la, ha int, sb []I, lb, hb int, fn func(col I, p, q int)) {
	p, q := la, lb
	for p < ha && q < hb {
		switch {
		case sa[p] < sb[q]:
			p++
		case sb[q] < sa[p]:
			q++
		default:
			fn(sa[p], p, q)
			p++
			q++
		}
	}
}

// CreateMerged returns a new storage whose off-diagonal pattern is the union
// of s's and o's. Diagonal and stored values come from s (the template);
// cells contributed only by o hold zero placeholders.
//
// Errors: ErrDimensionMismatch, ErrNoMemory, ErrNilStorage, ErrReleased.
// Complexity: O(rows + nnz(s) + nnz(o)).
func (s *Storage[D, I]) CreateMerged(o *Storage[D, I]) (*Storage[D, I], error) {
	if err := s.alive(); err != nil {
		return nil, yaleErrorf(opMerge, err)
	}
	if err := o.alive(); err != nil {
		return nil, yaleErrorf(opMerge, err)
	}
	if s.rows != o.rows || s.cols != o.cols {
		return nil, yaleErrorf(opMerge, ErrDimensionMismatch)
	}

	sa, sb := s.ija.data, o.ija.data
	total := 0
	for i := 0; i < s.rows; i++ {
		walkUnion(sa, s.rowStart(i), s.rowEnd(i), sb, o.rowStart(i), o.rowEnd(i),
			func(I, int, int) { total++ })
	}

	res, err := newStorage[D, I](s.rows, s.cols, s.rows+1+total, s.opts)
	if err != nil {
		return nil, yaleErrorf(opMerge, err)
	}
	copy(res.a.data[:s.rows], s.a.data[:s.rows])
	pos := s.rows + 1
	for i := 0; i < s.rows; i++ {
		res.ija.data[i] = I(pos)
		walkUnion(sa, s.rowStart(i), s.rowEnd(i), sb, o.rowStart(i), o.rowEnd(i),
			func(col I, p, _ int) {
				res.ija.data[pos] = col
				if p >= 0 {
					res.a.data[pos] = s.a.data[p]
				}
				pos++
			})
	}
	res.ija.data[s.rows] = I(pos)
	res.size = pos
	return res, nil
}
