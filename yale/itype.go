// SPDX-License-Identifier: MIT

package yale

import (
	"fmt"
	"math"
	"math/bits"
	"reflect"
)

// Index is the set of unsigned widths usable for row pointers and column
// indices.
type Index interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64
}

// IType tags the index width of a storage. Tags are ordered by width, so
// a >= b means a can address everything b can.
type IType uint8

const (
	// UInt8 stores indices in one byte.
	UInt8 IType = iota + 1
	// UInt16 stores indices in two bytes.
	UInt16
	// UInt32 stores indices in four bytes.
	UInt32
	// UInt64 stores indices in eight bytes.
	UInt64
)

// reservedIndices is the count of top values of each width kept back for
// structural marking ("no such row/column") during multiplication.
const reservedIndices = 2

// ITypeByShape returns the narrowest width w such that
// rows*(cols+1) < max(w) - 2. It is pure and never fails; shapes beyond
// 64-bit range resolve to UInt64 and are rejected later by shape validation.
func ITypeByShape(rows, cols int) IType {
	hi, need := bits.Mul64(uint64(max(rows, 0)), uint64(max(cols, 0))+1)
	switch {
	case hi != 0:
		return UInt64
	case need < math.MaxUint8-reservedIndices:
		return UInt8
	case need < math.MaxUint16-reservedIndices:
		return UInt16
	case need < math.MaxUint32-reservedIndices:
		return UInt32
	default:
		return UInt64
	}
}

// ITypeOf returns the tag of the index type I.
func ITypeOf[I Index]() IType {
	var zero I
	switch reflect.TypeOf(zero).Kind() {
	case reflect.Uint8:
		return UInt8
	case reflect.Uint16:
		return UInt16
	case reflect.Uint32:
		return UInt32
	default:
		return UInt64
	}
}

// Bits returns the width in bits.
func (t IType) Bits() int {
	switch t {
	case UInt8:
		return 8
	case UInt16:
		return 16
	case UInt32:
		return 32
	case UInt64:
		return 64
	default:
		return 0
	}
}

// Size returns the width in bytes.
func (t IType) Size() int { return t.Bits() / 8 }

// Max returns the largest value representable in the width.
func (t IType) Max() uint64 {
	if t.Bits() == 0 {
		return 0
	}
	return math.MaxUint64 >> (64 - t.Bits())
}

// MaxIndex returns the largest value usable as a pointer or column index;
// the two values above it are reserved sentinels.
func (t IType) MaxIndex() uint64 { return t.Max() - reservedIndices }

// Covers reports whether t is wide enough for a rows×cols storage.
func (t IType) Covers(rows, cols int) bool { return t >= ITypeByShape(rows, cols) }

// Valid reports whether t is one of the four defined widths.
func (t IType) Valid() bool { return t >= UInt8 && t <= UInt64 }

// String returns the Go name of the width.
func (t IType) String() string {
	if !t.Valid() {
		return fmt.Sprintf("itype(%d)", uint8(t))
	}
	return fmt.Sprintf("uint%d", t.Bits())
}
