// SPDX-License-Identifier: MIT

// Package yale - Storage container & lifecycle.
//
// Purpose:
//   - Hold one rows×cols sparse matrix in the "new Yale" layout: two parallel
//     vectors (ija: indices, a: values) of equal capacity.
//   - Keep every structural invariant in one place (Validate) so that the
//     importers and decoders can share it.
//
// Layout (rows = r):
//
//	ija[0..r]        row pointers; row i owns ija[ija[i]:ija[i+1]]
//	ija[r+1..size)   off-diagonal column indices, ascending inside each row
//	a[0..r)          diagonal values
//	a[r]             zero sentinel
//	a[r+1..size)     off-diagonal values, parallel to ija
//
// Complexity quicksheet:
//   - New/Init: O(rows); Clone: O(size); Delete: O(1); Validate: O(size).

package yale

import (
	"math"
	"math/bits"

	"go.uber.org/zap"

	"github.com/katalvlaran/nyale/dtype"
)

// Storage is a sparse matrix in new Yale format with element type D and
// index type I. The zero Storage is not usable; construct with New, Create
// or one of the importers.
//
// A Storage is not safe for concurrent mutation. Pointers obtained from Ref
// are invalidated by any later structural change (insertion or growth).
type Storage[D dtype.Element, I Index] struct {
	rows, cols int       // fixed shape
	size       int       // entries in use, rows+1 ≤ size ≤ capacity
	ija        vector[I] // row pointers + column indices
	a          vector[D] // diagonal + sentinel + off-diagonal values
	opts       Options   // inherited by copies and results
	reserved   int       // bytes currently held from opts.allocator
	released   bool      // set by Delete
}

// validateShape rejects non-positive dimensions and shapes whose
// rows*(cols+1)+1 does not fit a signed 64-bit integer.
func validateShape(rows, cols int) error {
	if rows <= 0 || cols <= 0 {
		return ErrBadShape
	}
	hi, lo := bits.Mul64(uint64(rows), uint64(cols)+1)
	if hi != 0 || lo >= math.MaxInt64 {
		return ErrBadShape
	}
	return nil
}

// maxSize is the absolute upper bound on size for a shape: every diagonal
// slot, the sentinel and each off-diagonal cell at most once.
func maxSize(rows, cols int) int {
	return rows + 1 + rows*cols - min(rows, cols)
}

// SizeBounds returns the smallest and largest valid size of a rows×cols
// storage. It fails with ErrBadShape for shapes New would reject.
func SizeBounds(rows, cols int) (lo, hi int, err error) {
	if err = validateShape(rows, cols); err != nil {
		return 0, 0, err
	}
	return rows + 1, maxSize(rows, cols), nil
}

// entryBytes is the memory cost of one slot across both vectors.
func entryBytes[D dtype.Element, I Index]() int {
	return dtype.Of[D]().Size() + ITypeOf[I]().Size()
}

// New allocates an empty rows×cols storage with at least the requested
// capacity. The capacity is raised to 2*rows+1 and clamped to the shape
// maximum.
//
// Errors:
//   - ErrBadShape       (non-positive or overflowing shape).
//   - ErrITypeTooNarrow (I cannot address the shape).
//   - ErrNoMemory       (the configured Allocator refused).
func New[D dtype.Element, I Index](rows, cols, capacity int, opts ...Option) (*Storage[D, I], error) {
	if err := checkShapeFor[I](rows, cols); err != nil {
		return nil, yaleErrorf(opNew, err)
	}
	s, err := newStorage[D, I](rows, cols, capacity, gatherOptions(opts...))
	if err != nil {
		return nil, yaleErrorf(opNew, err)
	}
	return s, nil
}

// checkShapeFor validates a shape and that I can index it.
func checkShapeFor[I Index](rows, cols int) error {
	if err := validateShape(rows, cols); err != nil {
		return err
	}
	if !ITypeOf[I]().Covers(rows, cols) {
		return ErrITypeTooNarrow
	}
	return nil
}

// newStorage is the single allocation path for every constructor. The
// shape must already be validated.
func newStorage[D dtype.Element, I Index](rows, cols, capacity int, o Options) (*Storage[D, I], error) {
	capacity = min(max(capacity, 2*rows+1), maxSize(rows, cols))
	bytes := capacity * entryBytes[D, I]()
	if err := o.allocator.Reserve(bytes); err != nil {
		o.logger.Warn("yale: allocation refused",
			zap.Int("rows", rows), zap.Int("cols", cols),
			zap.Int("capacity", capacity), zap.Error(err))
		return nil, ErrNoMemory
	}
	s := &Storage[D, I]{
		rows:     rows,
		cols:     cols,
		ija:      newVector[I](capacity),
		a:        newVector[D](capacity),
		opts:     o,
		reserved: bytes,
	}
	s.reset()
	return s, nil
}

// reset puts the storage into the empty state.
func (s *Storage[D, I]) reset() {
	s.clearDiagonalAndZero()
	empty := I(s.rows + 1)
	for i := 0; i <= s.rows; i++ {
		s.ija.data[i] = empty
	}
	s.size = s.rows + 1
}

// clearDiagonalAndZero zeroes the diagonal and the sentinel slot.
func (s *Storage[D, I]) clearDiagonalAndZero() {
	clear(s.a.data[:s.rows+1])
}

// alive reports ErrNilStorage / ErrReleased for unusable receivers.
func (s *Storage[D, I]) alive() error {
	if s == nil {
		return ErrNilStorage
	}
	if s.released {
		return ErrReleased
	}
	return nil
}

// Init resets the storage to the empty state: zero diagonal, no
// off-diagonal entries. Capacity is kept.
func (s *Storage[D, I]) Init() error {
	if err := s.alive(); err != nil {
		return yaleErrorf(opInit, err)
	}
	s.reset()
	return nil
}

// Delete releases both vectors and returns their bytes to the allocator.
// Any later call on s fails with ErrReleased, including a second Delete.
func (s *Storage[D, I]) Delete() error {
	if err := s.alive(); err != nil {
		return yaleErrorf(opDelete, err)
	}
	s.opts.allocator.Release(s.reserved)
	s.opts.logger.Debug("yale: storage released",
		zap.Int("rows", s.rows), zap.Int("cols", s.cols), zap.Int("bytes", s.reserved))
	s.reserved = 0
	s.ija.release()
	s.a.release()
	s.size = 0
	s.released = true
	return nil
}

// Clone returns a deep, fully independent copy. Capacity is preserved and
// the first Size() entries of both vectors are copied.
func (s *Storage[D, I]) Clone() (*Storage[D, I], error) {
	if err := s.alive(); err != nil {
		return nil, yaleErrorf(opCopy, err)
	}
	capacity := s.ija.capacity()
	bytes := capacity * entryBytes[D, I]()
	if err := s.opts.allocator.Reserve(bytes); err != nil {
		s.opts.logger.Warn("yale: allocation refused",
			zap.Int("rows", s.rows), zap.Int("cols", s.cols),
			zap.Int("capacity", capacity), zap.Error(err))
		return nil, yaleErrorf(opCopy, ErrNoMemory)
	}
	return &Storage[D, I]{
		rows:     s.rows,
		cols:     s.cols,
		size:     s.size,
		ija:      s.ija.clone(capacity, s.size),
		a:        s.a.clone(capacity, s.size),
		opts:     s.opts,
		reserved: bytes,
	}, nil
}

// ---------- inspection ----------

// The inspection getters below report zero values on a nil receiver.

// Rows returns the number of rows.
func (s *Storage[D, I]) Rows() int {
	if s == nil {
		return 0
	}
	return s.rows
}

// Cols returns the number of columns.
func (s *Storage[D, I]) Cols() int {
	if s == nil {
		return 0
	}
	return s.cols
}

// Shape returns (rows, cols).
func (s *Storage[D, I]) Shape() (rows, cols int) { return s.Rows(), s.Cols() }

// Size returns the number of slots in use (rows+1 plus stored off-diagonal
// entries).
func (s *Storage[D, I]) Size() int {
	if s == nil {
		return 0
	}
	return s.size
}

// Capacity returns the allocated length of each vector.
func (s *Storage[D, I]) Capacity() int {
	if s == nil {
		return 0
	}
	return s.ija.capacity()
}

// MaxSize returns the absolute size limit for this shape.
func (s *Storage[D, I]) MaxSize() int {
	if s == nil {
		return 0
	}
	return maxSize(s.rows, s.cols)
}

// NNZ returns the number of stored off-diagonal entries.
func (s *Storage[D, I]) NNZ() int {
	if s == nil || s.released {
		return 0
	}
	return s.size - s.rows - 1
}

// DType returns the element type tag.
func (s *Storage[D, I]) DType() dtype.DType { return dtype.Of[D]() }

// IType returns the index width tag.
func (s *Storage[D, I]) IType() IType { return ITypeOf[I]() }

// Options returns the configuration the storage was built with.
func (s *Storage[D, I]) Options() Options {
	if s == nil {
		return defaultOptions()
	}
	return s.opts
}

// RowLength returns the number of stored off-diagonal entries in row i.
func (s *Storage[D, I]) RowLength(i int) (int, error) {
	if err := s.alive(); err != nil {
		return 0, yaleErrorf(opRowLength, err)
	}
	if i < 0 || i >= s.rows {
		return 0, indexErrorf(opRowLength, i, 0, ErrOutOfRange)
	}
	return s.rowEnd(i) - s.rowStart(i), nil
}

// Diagonal returns a copy of the addressable diagonal (length min(rows, cols)).
func (s *Storage[D, I]) Diagonal() []D {
	if s == nil || s.released {
		return nil
	}
	out := make([]D, min(s.rows, s.cols))
	copy(out, s.a.data)
	return out
}

// IJA returns a copy of the used prefix of the index vector, widened to
// uint64.
func (s *Storage[D, I]) IJA() []uint64 {
	if s == nil || s.released {
		return nil
	}
	out := make([]uint64, s.size)
	for p, v := range s.ija.data[:s.size] {
		out[p] = uint64(v)
	}
	return out
}

// A returns a copy of the used prefix of the value vector.
func (s *Storage[D, I]) A() []D {
	if s == nil || s.released {
		return nil
	}
	out := make([]D, s.size)
	copy(out, s.a.data[:s.size])
	return out
}

// ---------- row helpers ----------

// rowStart is the first slot of row i's off-diagonal segment.
func (s *Storage[D, I]) rowStart(i int) int { return int(s.ija.data[i]) }

// rowEnd is one past the last slot of row i's off-diagonal segment.
func (s *Storage[D, I]) rowEnd(i int) int { return int(s.ija.data[i+1]) }

// hasDiag reports whether row i has an addressable diagonal cell.
func (s *Storage[D, I]) hasDiag(i int) bool { return i < s.cols }

// ---------- invariants ----------

// Validate checks every structural invariant of the layout and returns a
// wrapped ErrMalformedInput describing the first violation.
func (s *Storage[D, I]) Validate() error {
	if err := s.alive(); err != nil {
		return yaleErrorf(opValidate, err)
	}
	if err := s.validate(); err != nil {
		return yaleErrorf(opValidate, err)
	}
	return nil
}

func (s *Storage[D, I]) validate() error {
	r := s.rows
	if s.size < r+1 || s.size > s.ija.capacity() || s.ija.capacity() != s.a.capacity() {
		return malformed("size %d outside [%d, %d]", s.size, r+1, s.ija.capacity())
	}
	if s.ija.capacity() > maxSize(r, s.cols) {
		return malformed("capacity %d above maximum %d", s.ija.capacity(), maxSize(r, s.cols))
	}
	if int(s.ija.data[0]) != r+1 {
		return malformed("first row pointer %d, want %d", s.ija.data[0], r+1)
	}
	if int(s.ija.data[r]) != s.size {
		return malformed("last row pointer %d, want size %d", s.ija.data[r], s.size)
	}
	for i := 0; i < r; i++ {
		lo, hi := s.rowStart(i), s.rowEnd(i)
		if hi < lo || hi > s.size {
			return malformed("row %d pointers [%d, %d) out of order", i, lo, hi)
		}
		for p := lo; p < hi; p++ {
			c := int(s.ija.data[p])
			switch {
			case c >= s.cols:
				return malformed("row %d column %d beyond %d columns", i, c, s.cols)
			case c == i:
				return malformed("row %d stores its diagonal off-diagonal", i)
			case p > lo && s.ija.data[p-1] >= s.ija.data[p]:
				return malformed("row %d columns not strictly ascending at slot %d", i, p)
			}
		}
	}
	var zero D
	if s.a.data[r] != zero {
		return malformed("sentinel slot %d is not zero", r)
	}
	for i := min(r, s.cols); i < r; i++ {
		if s.a.data[i] != zero {
			return malformed("unaddressable diagonal slot %d is not zero", i)
		}
	}
	return nil
}
