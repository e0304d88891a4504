// Package nyale is a sparse matrix storage engine built around the
// "new Yale" layout: a compressed-row format whose diagonal is pulled out
// of the off-diagonal arrays for O(1) access.
//
// What is inside:
//
//	dtype/       element value model: type tags, numeric constraints, converters
//	yale/        the storage engine (create, get/ref/set, equality, merge,
//	             element-wise and matrix products, cast, transpose, legacy import)
//	codec/       self-describing binary persistence with lz4, zstd or s2 payloads
//	cmd/nyale/   a small CLI to build, inspect and transform stored matrices
//
// Layout of one storage (rows = 3):
//
//	ija: [ 4 5 5 6 | 2 0 ]      row pointers (rows+1) | column indices
//	a:   [ 1 2 3 0 | 5 7 ]      diagonal (rows) + zero sentinel | values
//
// Row i owns the off-diagonal segment ija[ija[i]:ija[i+1]], kept sorted.
//
//	go get github.com/katalvlaran/nyale
package nyale
