// Package yale implements sparse matrix storage in the "new Yale" layout.
//
// A storage keeps two parallel vectors of equal capacity:
//
//	ija  row pointers (rows+1) followed by off-diagonal column indices
//	a    diagonal (rows), one zero sentinel, then off-diagonal values
//
// The diagonal is always materialized and read in O(1). Off-diagonal cells
// of row i live in ija[ija[i]:ija[i+1]], sorted by column, and are found by
// binary search. Inserting shifts the tail and grows both vectors by
// DefaultGrowthFactor when full.
//
// Two ways in:
//
//   - Storage[D, I] is fully generic over the element type D and the index
//     type I. Use it when both are known at compile time.
//   - Matrix[D] is the run-time handle returned by Create, ImportOldYale,
//     FromVectors and the package-level operations. The index type is picked
//     from the shape (ITypeByShape) and operands of different widths are
//     reconciled automatically.
//
// Errors are sentinels (ErrOutOfRange, ErrDimensionMismatch, ErrNoMemory, …)
// wrapped with the operation name; match them with errors.Is. A failed
// call leaves its operands unchanged.
//
// Storages are not safe for concurrent mutation. An Allocator (for
// instance a Budget) may be shared between goroutines.
package yale
