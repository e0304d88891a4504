// SPDX-License-Identifier: MIT

package dtype

// Converter turns a value of type From into a value of type To.
// Precision loss (float→int truncation, dropped imaginary parts) is the
// converter's business; callers apply it element by element.
type Converter[From, To Element] interface {
	Convert(v From) To
}

// ConvertFunc adapts a plain function to the Converter interface.
type ConvertFunc[From, To Element] func(From) To

// Convert calls f(v).
func (f ConvertFunc[From, To]) Convert(v From) To { return f(v) }

// Identity returns the converter that hands values back unchanged.
func Identity[D Element]() Converter[D, D] {
	return ConvertFunc[D, D](func(v D) D { return v })
}

// RealToReal converts between real types using Go conversion rules
// (float→int truncates toward zero).
func RealToReal[From, To Real]() Converter[From, To] {
	return ConvertFunc[From, To](func(v From) To { return To(v) })
}

// RealToComplex lifts a real value onto the real axis.
func RealToComplex[From Real, To Complex]() Converter[From, To] {
	return ConvertFunc[From, To](func(v From) To { return To(complex(float64(v), 0)) })
}

// ComplexToComplex converts between complex widths.
func ComplexToComplex[From, To Complex]() Converter[From, To] {
	return ConvertFunc[From, To](func(v From) To { return To(v) })
}

// ComplexToReal keeps the real part and drops the imaginary one.
func ComplexToReal[From Complex, To Real]() Converter[From, To] {
	return ConvertFunc[From, To](func(v From) To { return To(real(complex128(v))) })
}
