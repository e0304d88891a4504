// SPDX-License-Identifier: MIT

// Package yale - arithmetic kernels.
//
// Contents:
//   - EWMultiply: Hadamard product; result pattern is the intersection.
//   - MatrixMultiply / MultiplyVector: sparse product in two phases.
//   - MatVec: product with a dense vector.
//
// Product phases:
//  1. Symbolic: for each row i, the result columns are the union over every
//     structurally present left[i][k] (diagonal included) of right row k's
//     columns (its diagonal included). The union is kept in a roaring bitmap
//     and flushed in ascending order, so segments come out sorted.
//  2. Numeric: a dense accumulator over the right operand's columns collects
//     Σ_k left[i][k]*right[k][j]; only touched slots are reset per row.
//     Reachable cells stay stored even when their sum is zero.
//
// All results are freshly allocated; on error nothing is returned and the
// operands are untouched.

package yale

import "go.uber.org/zap"

// EWMultiply returns the element-wise product of s and o. The diagonal is the
// pointwise product; an off-diagonal cell is stored only where both operands
// store it.
//
// Errors: ErrDimensionMismatch, ErrNoMemory, ErrNilStorage, ErrReleased.
// Complexity: O(rows + nnz(s) + nnz(o)).
func (s *Storage[D, I]) EWMultiply(o *Storage[D, I]) (*Storage[D, I], error) {
	if err := s.alive(); err != nil {
		return nil, yaleErrorf(opEWMultiply, err)
	}
	if err := o.alive(); err != nil {
		return nil, yaleErrorf(opEWMultiply, err)
	}
	if s.rows != o.rows || s.cols != o.cols {
		return nil, yaleErrorf(opEWMultiply, ErrDimensionMismatch)
	}

	sa, sb := s.ija.data, o.ija.data
	total := 0
	for i := 0; i < s.rows; i++ {
		walkIntersect(sa, s.rowStart(i), s.rowEnd(i), sb, o.rowStart(i), o.rowEnd(i),
			func(I, int, int) { total++ })
	}

	res, err := newStorage[D, I](s.rows, s.cols, s.rows+1+total, s.opts)
	if err != nil {
		return nil, yaleErrorf(opEWMultiply, err)
	}
	for i := 0; i < s.rows; i++ {
		res.a.data[i] = s.a.data[i] * o.a.data[i]
	}
	pos := s.rows + 1
	for i := 0; i < s.rows; i++ {
		res.ija.data[i] = I(pos)
		walkIntersect(sa, s.rowStart(i), s.rowEnd(i), sb, o.rowStart(i), o.rowEnd(i),
			func(col I, p, q int) {
				res.ija.data[pos] = col
				res.a.data[pos] = s.a.data[p] * o.a.data[q]
				pos++
			})
	}
	res.ija.data[s.rows] = I(pos)
	res.size = pos
	return res, nil
}

// MatrixMultiply returns the product s·o with shape rows(s)×cols(o).
//
// Errors:
//   - ErrDimensionMismatch if cols(s) != rows(o).
//   - ErrITypeTooNarrow if I cannot address the result shape (the
//     package-level MatrixMultiply widens first).
//   - ErrNoMemory, ErrNilStorage, ErrReleased.
func (s *Storage[D, I]) MatrixMultiply(o *Storage[D, I]) (*Storage[D, I], error) {
	res, err := s.multiply(o)
	if err != nil {
		return nil, yaleErrorf(opMatMul, err)
	}
	return res, nil
}

// MultiplyVector multiplies s by the column vector x (a cols(s)×1 storage)
// and returns a rows(s)×1 storage.
func (s *Storage[D, I]) MultiplyVector(x *Storage[D, I]) (*Storage[D, I], error) {
	if err := x.alive(); err != nil {
		return nil, yaleErrorf(opMulVector, err)
	}
	if x.cols != 1 {
		return nil, yaleErrorf(opMulVector, ErrDimensionMismatch)
	}
	res, err := s.multiply(x)
	if err != nil {
		return nil, yaleErrorf(opMulVector, err)
	}
	return res, nil
}

// multiply is the shared two-phase product kernel.
func (s *Storage[D, I]) multiply(o *Storage[D, I]) (*Storage[D, I], error) {
	if err := s.alive(); err != nil {
		return nil, err
	}
	if err := o.alive(); err != nil {
		return nil, err
	}
	if s.cols != o.rows {
		return nil, ErrDimensionMismatch
	}
	rows, cols := s.rows, o.cols
	if err := checkShapeFor[I](rows, cols); err != nil {
		return nil, err
	}

	// symbolic phase
	bounds := make([]int, rows+1)
	var pat []I
	row := newPattern()
	for i := 0; i < rows; i++ {
		bounds[i] = len(pat)
		s.eachInRow(i, func(k int, _ D) {
			o.eachInRow(k, func(j int, _ D) {
				if j != i {
					row.add(uint64(j))
				}
			})
		})
		pat = appendTo(row, pat)
		row.reset()
	}
	bounds[rows] = len(pat)

	res, err := newStorage[D, I](rows, cols, rows+1+len(pat), s.opts)
	if err != nil {
		return nil, err
	}

	// numeric phase
	acc := make([]D, cols)
	var zero D
	for i := 0; i < rows; i++ {
		s.eachInRow(i, func(k int, lv D) {
			o.eachInRow(k, func(j int, rv D) {
				acc[j] += lv * rv
			})
		})
		if i < cols {
			res.a.data[i] = acc[i]
			acc[i] = zero
		}
		base := rows + 1 + bounds[i]
		res.ija.data[i] = I(base)
		for p, j := range pat[bounds[i]:bounds[i+1]] {
			res.ija.data[base+p] = j
			res.a.data[base+p] = acc[j]
			acc[j] = zero
		}
	}
	res.size = rows + 1 + len(pat)
	res.ija.data[rows] = I(res.size)
	res.opts.logger.Debug("yale: product built",
		zap.Int("rows", rows), zap.Int("cols", cols), zap.Int("nnz", len(pat)))
	return res, nil
}

// eachInRow calls f for every structurally present cell of row i: the
// diagonal (when addressable) and then the off-diagonal segment.
func (s *Storage[D, I]) eachInRow(i int, f func(j int, v D)) {
	if s.hasDiag(i) {
		f(i, s.a.data[i])
	}
	for p := s.rowStart(i); p < s.rowEnd(i); p++ {
		f(int(s.ija.data[p]), s.a.data[p])
	}
}

// MatVec returns y = s·x for a dense x of length cols(s).
//
// Errors: ErrDimensionMismatch, ErrNilStorage, ErrReleased.
// Complexity: O(rows + nnz).
func (s *Storage[D, I]) MatVec(x []D) ([]D, error) {
	if err := s.alive(); err != nil {
		return nil, yaleErrorf(opMatVec, err)
	}
	if len(x) != s.cols {
		return nil, yaleErrorf(opMatVec, ErrDimensionMismatch)
	}
	y := make([]D, s.rows)
	for i := 0; i < s.rows; i++ {
		var sum D
		s.eachInRow(i, func(j int, v D) { sum += v * x[j] })
		y[i] = sum
	}
	return y, nil
}
