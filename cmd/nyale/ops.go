// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"fmt"
	"io"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/katalvlaran/nyale/codec"
	"github.com/katalvlaran/nyale/dtype"
	"github.com/katalvlaran/nyale/yale"
)

// env carries what every command needs once the config is resolved.
type env struct {
	log         *zap.Logger
	opts        []yale.Option
	budget      *yale.Budget
	compression codec.Compression
}

// kernel is the element-type specific half of a command. Files carry their
// dtype in the header; kernelFor picks the instance that matches.
type kernel interface {
	identity(e *env, w io.Writer, rows, cols int) error
	inspect(e *env, w io.Writer, data []byte, asJSON bool) error
	transpose(e *env, w io.Writer, data []byte) error
	multiply(e *env, w io.Writer, left, right []byte, elementwise bool) error
	recode(e *env, w io.Writer, data []byte) error
}

type typed[D dtype.Element] struct{}

func kernelFor(d dtype.DType) (kernel, error) {
	switch d {
	case dtype.Byte:
		return typed[uint8]{}, nil
	case dtype.Int8:
		return typed[int8]{}, nil
	case dtype.Int16:
		return typed[int16]{}, nil
	case dtype.Int32:
		return typed[int32]{}, nil
	case dtype.Int64:
		return typed[int64]{}, nil
	case dtype.Float32:
		return typed[float32]{}, nil
	case dtype.Float64:
		return typed[float64]{}, nil
	case dtype.Complex64:
		return typed[complex64]{}, nil
	case dtype.Complex128:
		return typed[complex128]{}, nil
	default:
		return nil, fmt.Errorf("unsupported dtype %s", d)
	}
}

// kernelOf reads the header of an encoded matrix and returns its kernel.
func kernelOf(data []byte) (kernel, codec.Header, error) {
	h, err := codec.ReadHeader(bytes.NewReader(data))
	if err != nil {
		return nil, codec.Header{}, err
	}
	k, err := kernelFor(h.DType)
	return k, h, err
}

func (typed[D]) decode(e *env, data []byte) (yale.Matrix[D], error) {
	return codec.Decode[D](bytes.NewReader(data), e.opts...)
}

func (typed[D]) emit(e *env, w io.Writer, m yale.Matrix[D]) error {
	if err := codec.Encode(w, m, e.compression); err != nil {
		return err
	}
	e.log.Debug("matrix written",
		zap.Stringer("dtype", m.DType()),
		zap.Stringer("itype", m.IType()),
		zap.Int("rows", m.Rows()),
		zap.Int("cols", m.Cols()),
		zap.Int("nnz", m.NNZ()),
		zap.Stringer("compression", e.compression))
	return m.Delete()
}

func (t typed[D]) identity(e *env, w io.Writer, rows, cols int) error {
	m, err := yale.Create[D](rows, cols, 0, e.opts...)
	if err != nil {
		return err
	}
	var one D = 1
	for i := 0; i < min(rows, cols); i++ {
		if err = m.Set(i, i, one); err != nil {
			return err
		}
	}
	return t.emit(e, w, m)
}

func (t typed[D]) inspect(e *env, w io.Writer, data []byte, asJSON bool) error {
	m, err := t.decode(e, data)
	if err != nil {
		return err
	}
	defer func() { _ = m.Delete() }()
	if !asJSON {
		return m.PrintVectors(w)
	}
	snap, err := m.Dump()
	if err != nil {
		return err
	}
	out, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", out)
	return err
}

func (t typed[D]) transpose(e *env, w io.Writer, data []byte) error {
	m, err := t.decode(e, data)
	if err != nil {
		return err
	}
	defer func() { _ = m.Delete() }()
	tr, err := yale.Transpose(m)
	if err != nil {
		return err
	}
	return t.emit(e, w, tr)
}

func (t typed[D]) multiply(e *env, w io.Writer, left, right []byte, elementwise bool) error {
	a, err := t.decode(e, left)
	if err != nil {
		return fmt.Errorf("left operand: %w", err)
	}
	defer func() { _ = a.Delete() }()
	b, err := t.decode(e, right)
	if err != nil {
		return fmt.Errorf("right operand: %w", err)
	}
	defer func() { _ = b.Delete() }()

	var p yale.Matrix[D]
	if elementwise {
		p, err = yale.EWMultiply(a, b)
	} else {
		p, err = yale.MatrixMultiply(a, b)
	}
	if err != nil {
		return err
	}
	return t.emit(e, w, p)
}

func (t typed[D]) recode(e *env, w io.Writer, data []byte) error {
	m, err := t.decode(e, data)
	if err != nil {
		return err
	}
	return t.emit(e, w, m)
}
