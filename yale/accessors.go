// SPDX-License-Identifier: MIT

// Package yale - element accessors.
//
// Behavior highlights:
//   - Indices are validated before anything else; a rejected call never
//     mutates the storage.
//   - Diagonal cells are O(1) and never grow the storage.
//   - Off-diagonal cells cost one binary search in the row segment; a miss
//     on Set/Ref inserts at the search position.

package yale

// checkIndex validates (i, j) against the shape.
func (s *Storage[D, I]) checkIndex(op string, i, j int) error {
	if err := s.alive(); err != nil {
		return yaleErrorf(op, err)
	}
	if i < 0 || i >= s.rows || j < 0 || j >= s.cols {
		return indexErrorf(op, i, j, ErrOutOfRange)
	}
	return nil
}

// Get returns a copy of the entry at (i, j). Absent off-diagonal cells read
// as zero.
// Complexity: O(1) on the diagonal, O(log rowLength) elsewhere.
func (s *Storage[D, I]) Get(i, j int) (D, error) {
	var zero D
	if err := s.checkIndex(opGet, i, j); err != nil {
		return zero, err
	}
	if i == j {
		return s.a.data[i], nil
	}
	if p, ok := s.find(i, j); ok {
		return s.a.data[p], nil
	}
	return zero, nil
}

// Ref returns a pointer to the stored entry at (i, j) for reading or in-place
// update. An absent off-diagonal cell is first materialized holding zero.
//
// The pointer is only valid until the next structural change of s (any
// insertion or growth); writes through a stale pointer are lost.
func (s *Storage[D, I]) Ref(i, j int) (*D, error) {
	if err := s.checkIndex(opRef, i, j); err != nil {
		return nil, err
	}
	if i == j {
		return &s.a.data[i], nil
	}
	p, ok := s.find(i, j)
	if !ok {
		col := [1]I{I(j)}
		if err := s.insertInRow(i, p, col[:], nil, true); err != nil {
			return nil, indexErrorf(opRef, i, j, err)
		}
	}
	return &s.a.data[p], nil
}

// Set stores v at (i, j).
//
// Policy for zeros: an existing stored entry is always overwritten (a stored
// zero stays stored). A zero written to an absent off-diagonal cell is
// elided unless the storage was built WithExplicitZeros.
//
// Errors: ErrOutOfRange, ErrNoMemory, ErrCapacityExceeded (wrapped).
func (s *Storage[D, I]) Set(i, j int, v D) error {
	if err := s.checkIndex(opSet, i, j); err != nil {
		return err
	}
	if i == j {
		s.a.data[i] = v
		return nil
	}
	p, ok := s.find(i, j)
	if ok {
		s.a.data[p] = v
		return nil
	}
	var zero D
	if v == zero && !s.opts.explicitZeros {
		return nil
	}
	col, val := [1]I{I(j)}, [1]D{v}
	if err := s.insertInRow(i, p, col[:], val[:], false); err != nil {
		return indexErrorf(opSet, i, j, err)
	}
	return nil
}

// Has reports whether (i, j) is structurally stored. Diagonal cells always are.
func (s *Storage[D, I]) Has(i, j int) (bool, error) {
	if err := s.checkIndex(opGet, i, j); err != nil {
		return false, err
	}
	if i == j {
		return true, nil
	}
	_, ok := s.find(i, j)
	return ok, nil
}

// Do calls f for every stored entry in row-major order (diagonal cell of a
// row first, then its off-diagonal entries by ascending column). Returning
// false from f stops the walk.
func (s *Storage[D, I]) Do(f func(i, j int, v D) bool) {
	if s == nil || s.released {
		return
	}
	for i := 0; i < s.rows; i++ {
		if s.hasDiag(i) && !f(i, i, s.a.data[i]) {
			return
		}
		for p := s.rowStart(i); p < s.rowEnd(i); p++ {
			if !f(i, int(s.ija.data[p]), s.a.data[p]) {
				return
			}
		}
	}
}
