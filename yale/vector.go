// SPDX-License-Identifier: MIT

package yale

// vector is an owned, length-tracked backing buffer. len(data) is the
// capacity; how much of it is in use is tracked by the owning storage.
// All reallocation goes through resize.
type vector[T any] struct {
	data []T
}

// newVector allocates a zeroed buffer of the given capacity.
func newVector[T any](capacity int) vector[T] {
	return vector[T]{data: make([]T, capacity)}
}

// capacity returns the allocated length.
func (v *vector[T]) capacity() int { return len(v.data) }

// resize reallocates to capacity, carrying over the first keep entries.
func (v *vector[T]) resize(capacity, keep int) {
	next := make([]T, capacity)
	copy(next, v.data[:keep])
	v.data = next
}

// shift moves [pos, end) right by n slots. The caller guarantees end+n fits.
func (v *vector[T]) shift(pos, end, n int) {
	copy(v.data[pos+n:end+n], v.data[pos:end])
}

// clone returns a buffer of the given capacity holding the first keep entries.
func (v *vector[T]) clone(capacity, keep int) vector[T] {
	out := newVector[T](capacity)
	copy(out.data, v.data[:keep])
	return out
}

// release drops the buffer.
func (v *vector[T]) release() { v.data = nil }
