// SPDX-License-Identifier: MIT

package dtype

// Integer is the set of integer element types.
type Integer interface {
	~uint8 | ~int8 | ~int16 | ~int32 | ~int64
}

// Float is the set of real floating-point element types.
type Float interface {
	~float32 | ~float64
}

// Real is every non-complex element type.
type Real interface {
	Integer | Float
}

// Complex is the set of complex element types.
type Complex interface {
	~complex64 | ~complex128
}

// Element is every type a storage can hold. All members support ==, + and *,
// and the zero value of each is the additive identity.
type Element interface {
	Real | Complex
}
