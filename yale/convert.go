// SPDX-License-Identifier: MIT

// Package yale - copy, cast, transpose and import.
//
// All routines here build a new storage and never touch their source.
//   - CastCopy: same structure, values converted one by one.
//   - CopyTransposed: counting pass + scatter pass.
//   - FromOldYale: classic CSR triple → diagonal-separated layout.
//   - fromVectors / reindex: raw-vector import and index re-width, used by
//     the package-level boundary and by the codec.

package yale

import (
	"go.uber.org/zap"

	"github.com/katalvlaran/nyale/dtype"
)

// OldYale is the classic compressed-row triple: IA holds rows+1 row
// pointers starting at 0, JA the column of each stored cell (ascending
// inside a row) and A the parallel values. Diagonal cells live among the
// others.
type OldYale[F dtype.Element, I Index] struct {
	IA []I
	JA []I
	A  []F
}

// CastCopy returns a copy of s whose values are converted with conv. Shape,
// index type, capacity and the sparsity pattern are kept exactly; the
// sentinel and unaddressable diagonal slots stay zero whatever conv maps
// zero to.
func CastCopy[From, To dtype.Element, I Index](s *Storage[From, I], conv dtype.Converter[From, To]) (*Storage[To, I], error) {
	if err := s.alive(); err != nil {
		return nil, yaleErrorf(opCast, err)
	}
	if conv == nil {
		return nil, yaleErrorf(opCast, ErrNilConverter)
	}
	res, err := newStorage[To, I](s.rows, s.cols, s.ija.capacity(), s.opts)
	if err != nil {
		return nil, yaleErrorf(opCast, err)
	}
	copy(res.ija.data[:s.size], s.ija.data[:s.size])
	for i := 0; i < min(s.rows, s.cols); i++ {
		res.a.data[i] = conv.Convert(s.a.data[i])
	}
	for p := s.rows + 1; p < s.size; p++ {
		res.a.data[p] = conv.Convert(s.a.data[p])
	}
	res.size = s.size
	return res, nil
}

// CopyTransposed returns sᵀ. The addressable diagonal (length
// min(rows, cols)) is carried over as is; every off-diagonal (i, j) becomes
// (j, i). Scanning source rows in order yields ascending columns in each
// target row, so no sorting is needed.
//
// Errors: ErrITypeTooNarrow if I cannot address cols×rows (the
// package-level Transpose re-selects the index type), ErrNoMemory,
// ErrNilStorage, ErrReleased.
// Complexity: O(rows + cols + nnz).
func (s *Storage[D, I]) CopyTransposed() (*Storage[D, I], error) {
	if err := s.alive(); err != nil {
		return nil, yaleErrorf(opTranspose, err)
	}
	rows, cols := s.cols, s.rows
	if err := checkShapeFor[I](rows, cols); err != nil {
		return nil, yaleErrorf(opTranspose, err)
	}
	res, err := newStorage[D, I](rows, cols, s.size-s.rows+rows, s.opts)
	if err != nil {
		return nil, yaleErrorf(opTranspose, err)
	}

	// counting pass: next[r] ends as the first free slot of target row r
	next := make([]int, rows+1)
	for p := s.rows + 1; p < s.size; p++ {
		next[int(s.ija.data[p])+1]++
	}
	next[0] = rows + 1
	for r := 1; r <= rows; r++ {
		next[r] += next[r-1]
	}
	for r := 0; r <= rows; r++ {
		res.ija.data[r] = I(next[r])
	}

	// scatter pass
	for i := 0; i < s.rows; i++ {
		for p := s.rowStart(i); p < s.rowEnd(i); p++ {
			j := int(s.ija.data[p])
			q := next[j]
			res.ija.data[q] = I(i)
			res.a.data[q] = s.a.data[p]
			next[j]++
		}
	}
	copy(res.a.data[:min(rows, cols)], s.a.data[:min(rows, cols)])
	res.size = int(res.ija.data[rows])
	return res, nil
}

// FromOldYale imports a classic CSR triple into a new storage with index
// type I, converting values with conv. Diagonal cells are pulled into the
// diagonal region (stored zeros there simply land as zeros); off-diagonal
// cells are kept in order, explicit zeros included.
//
// The triple is validated first: IA[0] == 0, IA non-decreasing,
// IA[rows] == len(JA) == len(A), every column < cols, columns strictly
// ascending inside each row. Violations are ErrMalformedInput.
func FromOldYale[I Index, D, F dtype.Element, IO Index](rows, cols int, old OldYale[F, IO], conv dtype.Converter[F, D], opts ...Option) (*Storage[D, I], error) {
	if err := checkShapeFor[I](rows, cols); err != nil {
		return nil, yaleErrorf(opImport, err)
	}
	if conv == nil {
		return nil, yaleErrorf(opImport, ErrNilConverter)
	}
	offDiag, err := validateOldYale(rows, cols, old)
	if err != nil {
		return nil, yaleErrorf(opImport, err)
	}

	o := gatherOptions(opts...)
	s, err := newStorage[D, I](rows, cols, rows+1+offDiag, o)
	if err != nil {
		return nil, yaleErrorf(opImport, err)
	}
	pos := rows + 1
	for i := 0; i < rows; i++ {
		s.ija.data[i] = I(pos)
		for p := int(old.IA[i]); p < int(old.IA[i+1]); p++ {
			j := int(old.JA[p])
			v := conv.Convert(old.A[p])
			if j == i {
				s.a.data[i] = v
				continue
			}
			s.ija.data[pos] = I(j)
			s.a.data[pos] = v
			pos++
		}
	}
	s.ija.data[rows] = I(pos)
	s.size = pos
	o.logger.Debug("yale: imported legacy triple",
		zap.Int("rows", rows), zap.Int("cols", cols),
		zap.Int("stored", len(old.JA)), zap.Int("offDiagonal", offDiag))
	return s, nil
}

// validateOldYale checks the triple and returns the number of off-diagonal
// cells it holds.
func validateOldYale[F dtype.Element, IO Index](rows, cols int, old OldYale[F, IO]) (int, error) {
	if len(old.IA) != rows+1 {
		return 0, malformed("row pointer count %d, want %d", len(old.IA), rows+1)
	}
	if old.IA[0] != 0 {
		return 0, malformed("first row pointer %d, want 0", old.IA[0])
	}
	nnz := uint64(old.IA[rows])
	if nnz != uint64(len(old.JA)) || nnz != uint64(len(old.A)) {
		return 0, malformed("last row pointer %d, columns %d, values %d", nnz, len(old.JA), len(old.A))
	}
	offDiag := 0
	for i := 0; i < rows; i++ {
		lo, hi := old.IA[i], old.IA[i+1]
		if hi < lo || uint64(hi) > nnz {
			return 0, malformed("row %d pointers [%d, %d) out of order", i, lo, hi)
		}
		for p := lo; p < hi; p++ {
			j := uint64(old.JA[p])
			switch {
			case j >= uint64(cols):
				return 0, malformed("row %d column %d beyond %d columns", i, j, cols)
			case p > lo && old.JA[p-1] >= old.JA[p]:
				return 0, malformed("row %d columns not strictly ascending at %d", i, p)
			}
			if j != uint64(i) {
				offDiag++
			}
		}
	}
	return offDiag, nil
}

// fromVectors builds a storage from raw used prefixes (as returned by IJA
// and A) and checks every invariant. ija values must fit I.
func fromVectors[D dtype.Element, I Index](rows, cols int, ija []uint64, a []D, o Options) (*Storage[D, I], error) {
	if err := checkShapeFor[I](rows, cols); err != nil {
		return nil, err
	}
	size := len(ija)
	if len(a) != size {
		return nil, malformed("index vector %d entries, value vector %d", size, len(a))
	}
	if size < rows+1 || size > maxSize(rows, cols) {
		return nil, malformed("size %d outside [%d, %d]", size, rows+1, maxSize(rows, cols))
	}
	limit := ITypeOf[I]().MaxIndex()
	for p, v := range ija {
		if v > limit {
			return nil, malformed("index slot %d value %d exceeds %s", p, v, ITypeOf[I]())
		}
	}
	s, err := newStorage[D, I](rows, cols, size, o)
	if err != nil {
		return nil, err
	}
	for p, v := range ija {
		s.ija.data[p] = I(v)
	}
	copy(s.a.data, a)
	s.size = size
	if err = s.validate(); err != nil {
		_ = s.Delete()
		return nil, err
	}
	return s, nil
}

// reindex copies s into a storage with index type To. Capacity, pattern and
// values are kept.
func reindex[D dtype.Element, From, To Index](s *Storage[D, From]) (*Storage[D, To], error) {
	if err := s.alive(); err != nil {
		return nil, yaleErrorf(opReindex, err)
	}
	if err := checkShapeFor[To](s.rows, s.cols); err != nil {
		return nil, yaleErrorf(opReindex, err)
	}
	res, err := newStorage[D, To](s.rows, s.cols, s.ija.capacity(), s.opts)
	if err != nil {
		return nil, yaleErrorf(opReindex, err)
	}
	for p, v := range s.ija.data[:s.size] {
		res.ija.data[p] = To(v)
	}
	copy(res.a.data, s.a.data[:s.size])
	res.size = s.size
	return res, nil
}
