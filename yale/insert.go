// SPDX-License-Identifier: MIT

// Package yale - vector insertion & growth.
//
// Purpose:
//   - Insert runs of (column, value) pairs into a row segment.
//   - Centralize every reallocation in reserve; nothing else grows vectors.
//
// Growth policy:
//   - new capacity = max(needed, ceil(capacity * growth)), capped at maxSize.
//   - needed > maxSize is ErrCapacityExceeded: a broken invariant upstream.
//   - The allocator is asked before anything changes; a refusal is
//     ErrNoMemory and leaves the storage intact.

package yale

import (
	"math"

	"go.uber.org/zap"
)

// reserve ensures capacity ≥ need, growing both vectors if required.
func (s *Storage[D, I]) reserve(need int) error {
	capacity := s.ija.capacity()
	if need <= capacity {
		return nil
	}
	limit := maxSize(s.rows, s.cols)
	if need > limit {
		return yaleErrorf(opGrow, ErrCapacityExceeded)
	}
	grown := int(math.Ceil(float64(capacity) * s.opts.growth))
	next := min(max(need, grown), limit)

	delta := (next - capacity) * entryBytes[D, I]()
	if err := s.opts.allocator.Reserve(delta); err != nil {
		s.opts.logger.Warn("yale: growth refused",
			zap.Int("capacity", capacity), zap.Int("requested", next), zap.Error(err))
		return yaleErrorf(opGrow, ErrNoMemory)
	}
	s.ija.resize(next, s.size)
	s.a.resize(next, s.size)
	s.reserved += delta
	s.opts.logger.Debug("yale: vectors grown",
		zap.Int("from", capacity), zap.Int("to", next), zap.Int("size", s.size))
	return nil
}

// vectorInsert shifts [pos, size) right by len(cols) and writes the new
// pairs at pos. With structOnly the values are zero placeholders and vals
// is ignored. Capacity must already suffice; row pointers are untouched.
//
// Preconditions: rows+1 ≤ pos ≤ size; cols sorted and placed so that the
// row segment stays strictly ascending.
func (s *Storage[D, I]) vectorInsert(pos int, cols []I, vals []D, structOnly bool) {
	n := len(cols)
	s.ija.shift(pos, s.size, n)
	s.a.shift(pos, s.size, n)
	copy(s.ija.data[pos:pos+n], cols)
	if structOnly {
		clear(s.a.data[pos : pos+n])
	} else {
		copy(s.a.data[pos:pos+n], vals)
	}
	s.size += n
}

// vectorInsertResize grows the vectors when size+len(cols) exceeds the
// capacity, then delegates to vectorInsert.
func (s *Storage[D, I]) vectorInsertResize(pos int, cols []I, vals []D, structOnly bool) error {
	if !structOnly && len(vals) != len(cols) {
		return ErrDimensionMismatch
	}
	if pos < s.rows+1 || pos > s.size {
		return ErrOutOfRange
	}
	if err := s.reserve(s.size + len(cols)); err != nil {
		return err
	}
	s.vectorInsert(pos, cols, vals, structOnly)
	return nil
}

// insertInRow inserts pairs at pos inside row i and moves the row pointers
// of every later row by the number of inserted pairs.
func (s *Storage[D, I]) insertInRow(i, pos int, cols []I, vals []D, structOnly bool) error {
	if err := s.vectorInsertResize(pos, cols, vals, structOnly); err != nil {
		return err
	}
	s.shiftRowPointers(i, len(cols))
	return nil
}

// shiftRowPointers adds n to the end pointer of row i and every pointer after it.
func (s *Storage[D, I]) shiftRowPointers(i, n int) {
	step := I(n)
	for r := i + 1; r <= s.rows; r++ {
		s.ija.data[r] += step
	}
}
