// SPDX-License-Identifier: MIT

// Package yale - runtime boundary.
//
// Storage[D, I] fixes both type parameters at compile time. Callers that
// only know the shape at run time go through Matrix[D]: Create, the
// importers and every package-level operation pick the narrowest index type
// for the shape (ITypeByShape) in one switch and hand back a Matrix[D].
//
// Binary operations accept operands of different index types. Both are
// brought to a common width (the wider of the two, and wide enough for the
// result shape), the generic kernel runs, and the result is narrowed back
// to the width its own shape calls for. Temporary widened copies are
// released before returning.

package yale

import (
	"fmt"
	"io"

	"github.com/katalvlaran/nyale/dtype"
)

// Matrix is a Yale storage of element type D with its index type chosen at
// run time. Every *Storage[D, I] implements it; values returned by this
// package's constructors and operations always use ITypeByShape.
type Matrix[D dtype.Element] interface {
	Rows() int
	Cols() int
	Shape() (rows, cols int)
	Size() int
	Capacity() int
	MaxSize() int
	NNZ() int
	DType() dtype.DType
	IType() IType
	Options() Options

	Get(i, j int) (D, error)
	Ref(i, j int) (*D, error)
	Set(i, j int, v D) error
	Has(i, j int) (bool, error)
	Do(f func(i, j int, v D) bool)
	RowLength(i int) (int, error)
	Diagonal() []D
	IJA() []uint64
	A() []D

	Init() error
	Delete() error
	Validate() error
	MatVec(x []D) ([]D, error)

	PrintVectors(w io.Writer) error
	Dump() (Snapshot, error)
	MarshalJSON() ([]byte, error)

	// dispatch hooks; each storage asserts the other operand to its own type.
	alive() error
	withIType(it IType) (Matrix[D], error)
	copyAny() (Matrix[D], error)
	equalAny(o Matrix[D]) (bool, error)
	mergeAny(o Matrix[D]) (Matrix[D], error)
	ewMultiplyAny(o Matrix[D]) (Matrix[D], error)
	matMulAny(o Matrix[D]) (Matrix[D], error)
	transposeAny() (Matrix[D], error)
}

// wrap lifts a typed result into Matrix[D] without ever producing a
// non-nil interface around a nil pointer.
func wrap[D dtype.Element, I Index](s *Storage[D, I], err error) (Matrix[D], error) {
	if err != nil {
		return nil, err
	}
	return s, nil
}

// usable reports ErrNilStorage for nil operands (typed nil included) and
// ErrReleased for deleted ones.
func usable[D dtype.Element](ms ...Matrix[D]) error {
	for _, m := range ms {
		if m == nil {
			return ErrNilStorage
		}
		if err := m.alive(); err != nil {
			return err
		}
	}
	return nil
}

// ---------- constructors ----------

// Create allocates an empty rows×cols matrix using the narrowest index type
// for the shape. See New for capacity rules and errors.
func Create[D dtype.Element](rows, cols, capacity int, opts ...Option) (Matrix[D], error) {
	if err := validateShape(rows, cols); err != nil {
		return nil, yaleErrorf(opCreate, err)
	}
	switch ITypeByShape(rows, cols) {
	case UInt8:
		return wrap(New[D, uint8](rows, cols, capacity, opts...))
	case UInt16:
		return wrap(New[D, uint16](rows, cols, capacity, opts...))
	case UInt32:
		return wrap(New[D, uint32](rows, cols, capacity, opts...))
	default:
		return wrap(New[D, uint64](rows, cols, capacity, opts...))
	}
}

// ImportOldYale is FromOldYale with the index type chosen for the shape.
func ImportOldYale[D, F dtype.Element, IO Index](rows, cols int, old OldYale[F, IO], conv dtype.Converter[F, D], opts ...Option) (Matrix[D], error) {
	if err := validateShape(rows, cols); err != nil {
		return nil, yaleErrorf(opImport, err)
	}
	switch ITypeByShape(rows, cols) {
	case UInt8:
		return wrap(FromOldYale[uint8](rows, cols, old, conv, opts...))
	case UInt16:
		return wrap(FromOldYale[uint16](rows, cols, old, conv, opts...))
	case UInt32:
		return wrap(FromOldYale[uint32](rows, cols, old, conv, opts...))
	default:
		return wrap(FromOldYale[uint64](rows, cols, old, conv, opts...))
	}
}

// FromVectors rebuilds a matrix from the used prefixes of its two vectors,
// as returned by IJA and A (or read back by a decoder). Every structural
// invariant is checked; violations are ErrMalformedInput.
func FromVectors[D dtype.Element](rows, cols int, ija []uint64, a []D, opts ...Option) (Matrix[D], error) {
	m, err := fromVectorsAny(rows, cols, ija, a, gatherOptions(opts...))
	if err != nil {
		return nil, yaleErrorf(opFromVectors, err)
	}
	return m, nil
}

func fromVectorsAny[D dtype.Element](rows, cols int, ija []uint64, a []D, o Options) (Matrix[D], error) {
	if err := validateShape(rows, cols); err != nil {
		return nil, err
	}
	switch ITypeByShape(rows, cols) {
	case UInt8:
		return wrap(fromVectors[D, uint8](rows, cols, ija, a, o))
	case UInt16:
		return wrap(fromVectors[D, uint16](rows, cols, ija, a, o))
	case UInt32:
		return wrap(fromVectors[D, uint32](rows, cols, ija, a, o))
	default:
		return wrap(fromVectors[D, uint64](rows, cols, ija, a, o))
	}
}

// Copy returns a deep copy of m with the same index type and capacity.
func Copy[D dtype.Element](m Matrix[D]) (Matrix[D], error) {
	if err := usable(m); err != nil {
		return nil, yaleErrorf(opCopy, err)
	}
	return m.copyAny()
}

// Cast returns a copy of m with every value converted by conv. Structure and
// index type are preserved.
func Cast[From, To dtype.Element](m Matrix[From], conv dtype.Converter[From, To]) (Matrix[To], error) {
	switch s := m.(type) {
	case *Storage[From, uint8]:
		return wrap(CastCopy(s, conv))
	case *Storage[From, uint16]:
		return wrap(CastCopy(s, conv))
	case *Storage[From, uint32]:
		return wrap(CastCopy(s, conv))
	case *Storage[From, uint64]:
		return wrap(CastCopy(s, conv))
	default:
		return nil, yaleErrorf(opCast, ErrNilStorage)
	}
}

// ---------- operations ----------

// Equal reports whether a and b hold the same values (explicit zeros equal
// implicit ones), whatever their index types.
func Equal[D dtype.Element](a, b Matrix[D]) (bool, error) {
	if err := usable(a, b); err != nil {
		return false, yaleErrorf(opEqual, err)
	}
	pa, pb, done, err := promote(a, b, max(a.IType(), b.IType()))
	if err != nil {
		return false, yaleErrorf(opEqual, err)
	}
	defer done()
	return pa.equalAny(pb)
}

// CreateMerged returns a matrix with template's values whose off-diagonal
// pattern is the union of both operands'; cells only other stores hold zero.
func CreateMerged[D dtype.Element](template, other Matrix[D]) (Matrix[D], error) {
	return binary(opMerge, template, other, 0, Matrix[D].mergeAny)
}

// EWMultiply returns the element-wise product of a and b.
func EWMultiply[D dtype.Element](a, b Matrix[D]) (Matrix[D], error) {
	return binary(opEWMultiply, a, b, 0, Matrix[D].ewMultiplyAny)
}

// MatrixMultiply returns a·b. The result uses the narrowest index type for
// rows(a)×cols(b), whatever the operands use.
func MatrixMultiply[D dtype.Element](a, b Matrix[D]) (Matrix[D], error) {
	if err := usable(a, b); err != nil {
		return nil, yaleErrorf(opMatMul, err)
	}
	return binary(opMatMul, a, b, ITypeByShape(a.Rows(), b.Cols()), Matrix[D].matMulAny)
}

// MultiplyVector multiplies a by the column vector x (a cols(a)×1 matrix).
func MultiplyVector[D dtype.Element](a, x Matrix[D]) (Matrix[D], error) {
	if err := usable(a, x); err != nil {
		return nil, yaleErrorf(opMulVector, err)
	}
	if x.Cols() != 1 {
		return nil, yaleErrorf(opMulVector, ErrDimensionMismatch)
	}
	return binary(opMulVector, a, x, ITypeByShape(a.Rows(), 1), Matrix[D].matMulAny)
}

// MatVec returns m·x for a dense vector x.
func MatVec[D dtype.Element](m Matrix[D], x []D) ([]D, error) {
	if err := usable(m); err != nil {
		return nil, yaleErrorf(opMatVec, err)
	}
	return m.MatVec(x)
}

// Transpose returns mᵀ using the narrowest index type for the new shape.
func Transpose[D dtype.Element](m Matrix[D]) (Matrix[D], error) {
	if err := usable(m); err != nil {
		return nil, yaleErrorf(opTranspose, err)
	}
	it := max(m.IType(), ITypeByShape(m.Cols(), m.Rows()))
	pm, err := m.withIType(it)
	if err != nil {
		return nil, yaleErrorf(opTranspose, err)
	}
	if pm != m {
		defer pm.Delete()
	}
	res, err := pm.transposeAny()
	if err != nil {
		return nil, err
	}
	return narrow(res)
}

// binary promotes a and b to a common index type at least as wide as
// floor, applies op and narrows the result.
func binary[D dtype.Element](op string, a, b Matrix[D], floor IType, fn func(Matrix[D], Matrix[D]) (Matrix[D], error)) (Matrix[D], error) {
	if err := usable(a, b); err != nil {
		return nil, yaleErrorf(op, err)
	}
	pa, pb, done, err := promote(a, b, max(a.IType(), b.IType(), floor))
	if err != nil {
		return nil, yaleErrorf(op, err)
	}
	defer done()
	res, err := fn(pa, pb)
	if err != nil {
		return nil, err
	}
	return narrow(res)
}

// promote returns a and b converted to index type it. done releases any
// temporary copy and must always be called.
func promote[D dtype.Element](a, b Matrix[D], it IType) (Matrix[D], Matrix[D], func(), error) {
	pa, err := a.withIType(it)
	if err != nil {
		return nil, nil, nil, err
	}
	pb, err := b.withIType(it)
	if err != nil {
		if pa != a {
			_ = pa.Delete()
		}
		return nil, nil, nil, err
	}
	done := func() {
		if pa != a {
			_ = pa.Delete()
		}
		if pb != b {
			_ = pb.Delete()
		}
	}
	return pa, pb, done, nil
}

// narrow re-widths m to ITypeByShape of its shape, releasing m when a copy
// was needed.
func narrow[D dtype.Element](m Matrix[D]) (Matrix[D], error) {
	want := ITypeByShape(m.Rows(), m.Cols())
	if m.IType() == want {
		return m, nil
	}
	n, err := m.withIType(want)
	_ = m.Delete()
	if err != nil {
		return nil, err
	}
	return n, nil
}

// ---------- Storage side of the dispatch hooks ----------

func (s *Storage[D, I]) withIType(it IType) (Matrix[D], error) {
	if err := s.alive(); err != nil {
		return nil, err
	}
	if it == s.IType() {
		return s, nil
	}
	switch it {
	case UInt8:
		return wrap(reindex[D, I, uint8](s))
	case UInt16:
		return wrap(reindex[D, I, uint16](s))
	case UInt32:
		return wrap(reindex[D, I, uint32](s))
	case UInt64:
		return wrap(reindex[D, I, uint64](s))
	default:
		return nil, fmt.Errorf("yale: unknown index type %s", it)
	}
}

// peer asserts o to s's concrete type. The boundary promotes first, so a
// mismatch means a foreign Matrix implementation or a nil operand.
func (s *Storage[D, I]) peer(o Matrix[D]) (*Storage[D, I], error) {
	t, ok := o.(*Storage[D, I])
	if !ok {
		return nil, ErrNilStorage
	}
	return t, nil
}

func (s *Storage[D, I]) copyAny() (Matrix[D], error) { return wrap(s.Clone()) }

func (s *Storage[D, I]) equalAny(o Matrix[D]) (bool, error) {
	t, err := s.peer(o)
	if err != nil {
		return false, yaleErrorf(opEqual, err)
	}
	return s.Equal(t)
}

func (s *Storage[D, I]) mergeAny(o Matrix[D]) (Matrix[D], error) {
	t, err := s.peer(o)
	if err != nil {
		return nil, yaleErrorf(opMerge, err)
	}
	return wrap(s.CreateMerged(t))
}

func (s *Storage[D, I]) ewMultiplyAny(o Matrix[D]) (Matrix[D], error) {
	t, err := s.peer(o)
	if err != nil {
		return nil, yaleErrorf(opEWMultiply, err)
	}
	return wrap(s.EWMultiply(t))
}

func (s *Storage[D, I]) matMulAny(o Matrix[D]) (Matrix[D], error) {
	t, err := s.peer(o)
	if err != nil {
		return nil, yaleErrorf(opMatMul, err)
	}
	return wrap(s.MatrixMultiply(t))
}

func (s *Storage[D, I]) transposeAny() (Matrix[D], error) { return wrap(s.CopyTransposed()) }
