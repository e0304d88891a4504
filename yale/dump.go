// SPDX-License-Identifier: MIT

package yale

import (
	"fmt"
	"io"
	"math"
	"reflect"

	json "github.com/goccy/go-json"

	"github.com/katalvlaran/nyale/dtype"
)

// Snapshot is a self-describing copy of a storage's used vectors, meant for
// debugging and tooling. Complex and non-finite values are rendered as
// strings so the snapshot always encodes to valid JSON.
type Snapshot struct {
	DType    string   `json:"dtype"`
	IType    string   `json:"itype"`
	Rows     int      `json:"rows"`
	Cols     int      `json:"cols"`
	Size     int      `json:"size"`
	Capacity int      `json:"capacity"`
	NNZ      int      `json:"nnz"`
	IJA      []uint64 `json:"ija"`
	A        []any    `json:"a"`
}

// Dump captures the storage state.
func (s *Storage[D, I]) Dump() (Snapshot, error) {
	if err := s.alive(); err != nil {
		return Snapshot{}, yaleErrorf(opDump, err)
	}
	vals := make([]any, s.size)
	for p, v := range s.a.data[:s.size] {
		vals[p] = jsonValue(v)
	}
	return Snapshot{
		DType:    s.DType().String(),
		IType:    s.IType().String(),
		Rows:     s.rows,
		Cols:     s.cols,
		Size:     s.size,
		Capacity: s.ija.capacity(),
		NNZ:      s.NNZ(),
		IJA:      s.IJA(),
		A:        vals,
	}, nil
}

// MarshalJSON encodes Dump's snapshot.
func (s *Storage[D, I]) MarshalJSON() ([]byte, error) {
	snap, err := s.Dump()
	if err != nil {
		return nil, err
	}
	return json.Marshal(snap)
}

// jsonValue maps v to something encoding/json-compatible encoders accept.
func jsonValue[D dtype.Element](v D) any {
	if dtype.Of[D]().IsComplex() {
		return fmt.Sprint(v)
	}
	rv := reflect.ValueOf(v)
	if rv.CanFloat() {
		f := rv.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Sprint(f)
		}
	}
	return v
}

// PrintVectors writes the used prefix of both vectors in a human-readable
// form:
//
//	yale 3x3 float64/uint8 size=5 capacity=7
//	ija: [4 5 5 5 2]
//	a:   [1 2 3 0 5]
func (s *Storage[D, I]) PrintVectors(w io.Writer) error {
	if err := s.alive(); err != nil {
		return yaleErrorf(opDump, err)
	}
	if _, err := fmt.Fprintf(w, "yale %dx%d %s/%s size=%d capacity=%d\n",
		s.rows, s.cols, s.DType(), s.IType(), s.size, s.ija.capacity()); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "ija: %v\n", s.ija.data[:s.size]); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "a:   %v\n", s.a.data[:s.size])
	return err
}
