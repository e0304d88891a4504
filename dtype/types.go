// SPDX-License-Identifier: MIT

package dtype

import (
	"fmt"
	"reflect"
	"strings"
)

// DType identifies the semantic type of a stored value.
// The numeric values are part of the persisted format; never reorder.
type DType uint8

const (
	// Unknown is the zero tag; never produced by Of.
	Unknown DType = iota
	// Byte is an unsigned 8-bit integer.
	Byte
	// Int8 is a signed 8-bit integer.
	Int8
	// Int16 is a signed 16-bit integer.
	Int16
	// Int32 is a signed 32-bit integer.
	Int32
	// Int64 is a signed 64-bit integer.
	Int64
	// Float32 is an IEEE-754 single precision float.
	Float32
	// Float64 is an IEEE-754 double precision float.
	Float64
	// Complex64 is a pair of float32.
	Complex64
	// Complex128 is a pair of float64.
	Complex128
)

var names = [...]string{
	Unknown:    "unknown",
	Byte:       "byte",
	Int8:       "int8",
	Int16:      "int16",
	Int32:      "int32",
	Int64:      "int64",
	Float32:    "float32",
	Float64:    "float64",
	Complex64:  "complex64",
	Complex128: "complex128",
}

var sizes = [...]int{
	Unknown:    0,
	Byte:       1,
	Int8:       1,
	Int16:      2,
	Int32:      4,
	Int64:      8,
	Float32:    4,
	Float64:    8,
	Complex64:  8,
	Complex128: 16,
}

// String returns the lower-case name of the tag.
func (d DType) String() string {
	if int(d) < len(names) {
		return names[d]
	}
	return fmt.Sprintf("dtype(%d)", uint8(d))
}

// Size returns the width of one value in bytes (0 for Unknown).
func (d DType) Size() int {
	if int(d) < len(sizes) {
		return sizes[d]
	}
	return 0
}

// Valid reports whether d names a concrete element type.
func (d DType) Valid() bool { return d > Unknown && d <= Complex128 }

// IsComplex reports whether d is one of the complex tags.
func (d DType) IsComplex() bool { return d == Complex64 || d == Complex128 }

// Parse maps a name produced by String back to its tag.
func Parse(name string) (DType, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for i := Byte; i <= Complex128; i++ {
		if names[i] == n {
			return i, nil
		}
	}
	return Unknown, fmt.Errorf("dtype: unknown type %q", name)
}

// Of returns the tag for the element type D. Named types resolve through
// their underlying kind, so `type Weight float64` maps to Float64.
func Of[D Element]() DType {
	var zero D
	switch reflect.TypeOf(zero).Kind() {
	case reflect.Uint8:
		return Byte
	case reflect.Int8:
		return Int8
	case reflect.Int16:
		return Int16
	case reflect.Int32:
		return Int32
	case reflect.Int64:
		return Int64
	case reflect.Float32:
		return Float32
	case reflect.Float64:
		return Float64
	case reflect.Complex64:
		return Complex64
	case reflect.Complex128:
		return Complex128
	default:
		return Unknown
	}
}
