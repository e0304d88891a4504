// SPDX-License-Identifier: MIT

package yale

// Test bridge for private kernels. Compiled only with the package's tests,
// so yale_test can reach the search, insertion and growth primitives
// without widening the API.

var (
	// ExportedMaxSize exposes maxSize.
	ExportedMaxSize = maxSize
	// ExportedValidateShape exposes validateShape.
	ExportedValidateShape = validateShape
)

// ExportedSearch exposes search over ija[left:right).
func (s *Storage[D, I]) ExportedSearch(left, right int, key I) (int, bool) {
	return s.search(left, right, key)
}

// ExportedInsert exposes insertInRow.
func (s *Storage[D, I]) ExportedInsert(i, pos int, cols []I, vals []D, structOnly bool) error {
	return s.insertInRow(i, pos, cols, vals, structOnly)
}

// ExportedReserve exposes reserve.
func (s *Storage[D, I]) ExportedReserve(need int) error {
	return s.reserve(need)
}

// ExportedRaw returns the full backing vectors, unused tail included.
func (s *Storage[D, I]) ExportedRaw() ([]I, []D) {
	return s.ija.data, s.a.data
}
