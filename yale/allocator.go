// SPDX-License-Identifier: MIT

package yale

import (
	"sync/atomic"
)

// Allocator backs the two vectors of a storage. Reserve is called before
// any allocation or growth with the number of additional bytes; returning
// an error aborts the request with ErrNoMemory and leaves the storage as
// it was. Release hands bytes back when a storage is deleted.
//
// Implementations shared between storages must be safe for concurrent use.
type Allocator interface {
	Reserve(bytes int) error
	Release(bytes int)
}

// unbounded is the default allocator: it never refuses.
type unbounded struct{}

func (unbounded) Reserve(int) error { return nil }
func (unbounded) Release(int)       {}

// Budget is an Allocator with a fixed byte limit. It can be shared by any
// number of storages.
type Budget struct {
	limit int64
	used  atomic.Int64
}

// NewBudget returns a Budget allowing at most limit bytes in flight.
// Panics if limit is negative.
func NewBudget(limit int) *Budget {
	if limit < 0 {
		panic(panicBudgetNegative)
	}
	return &Budget{limit: int64(limit)}
}

// Reserve claims n bytes or returns ErrNoMemory if the limit would be passed.
func (b *Budget) Reserve(n int) error {
	for {
		cur := b.used.Load()
		next := cur + int64(n)
		if next > b.limit {
			return ErrNoMemory
		}
		if b.used.CompareAndSwap(cur, next) {
			return nil
		}
	}
}

// Release returns n bytes to the budget.
func (b *Budget) Release(n int) {
	if b.used.Add(-int64(n)) < 0 {
		panic(panicReleaseUnderflow)
	}
}

// Used returns the bytes currently reserved.
func (b *Budget) Used() int { return int(b.used.Load()) }

// Limit returns the configured limit.
func (b *Budget) Limit() int { return int(b.limit) }
