// SPDX-License-Identifier: MIT

package yale

import (
	"github.com/RoaringBitmap/roaring/v2/roaring64"
)

// pattern collects the column set of one result row during the symbolic
// phase of a product. It wraps a 64-bit roaring bitmap so that columns of
// any index width fit, and iterates in ascending order.
type pattern struct {
	rb *roaring64.Bitmap
}

func newPattern() *pattern {
	return &pattern{rb: roaring64.New()}
}

// add marks column j.
func (p *pattern) add(j uint64) { p.rb.Add(j) }

// appendTo appends the columns in ascending order.
func appendTo[I Index](p *pattern, dst []I) []I {
	it := p.rb.Iterator()
	for it.HasNext() {
		dst = append(dst, I(it.Next()))
	}
	return dst
}

// reset empties the set, keeping its containers for reuse.
func (p *pattern) reset() { p.rb.Clear() }
