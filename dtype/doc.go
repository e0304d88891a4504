// Package dtype describes the element values a sparse storage can hold.
//
// It provides:
//
//   - DType, a compact tag for the semantic type of stored entries
//     (Byte, Int8…Int64, Float32, Float64, Complex64, Complex128);
//   - generic constraints (Integer, Float, Real, Complex, Element) used by
//     the storage engine to stay fully typed in its hot loops;
//   - Converter, a per-pair capability "turn a value of type A into type B",
//     passed explicitly to cast and import routines instead of being looked
//     up in a global table.
//
// Usage:
//
//	conv := dtype.RealToReal[int64, float64]()
//	f := conv.Convert(42) // 42.0
//
//	dtype.Of[complex64]() // dtype.Complex64
package dtype
