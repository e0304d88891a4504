// SPDX-License-Identifier: MIT
// Package yale: sentinel error set.
// Every operation returns one of these sentinels, wrapped with an operation
// tag via yaleErrorf; callers match with errors.Is. Nothing panics on user
// input. Panics are reserved for nonsensical Option parameters.

package yale

import (
	"errors"
	"fmt"
)

var (
	// ErrBadShape is returned when a shape has a non-positive dimension or is
	// too large to be addressed by a 64-bit index.
	ErrBadShape = errors.New("yale: invalid shape")

	// ErrOutOfRange indicates a row or column index outside the shape.
	// It is always reported before any mutation takes place.
	ErrOutOfRange = errors.New("yale: index out of range")

	// ErrDimensionMismatch indicates incompatible operand shapes.
	ErrDimensionMismatch = errors.New("yale: dimension mismatch")

	// ErrNoMemory is returned when the allocator refuses to back a
	// creation or growth request. The storage is left untouched.
	ErrNoMemory = errors.New("yale: insufficient memory")

	// ErrCapacityExceeded means a request went past the absolute maximum
	// size derived from the shape. It signals a broken invariant, not a
	// retryable condition.
	ErrCapacityExceeded = errors.New("yale: capacity exceeds shape maximum")

	// ErrITypeTooNarrow is returned when an index type cannot address a shape.
	ErrITypeTooNarrow = errors.New("yale: index type too narrow for shape")

	// ErrNilStorage indicates a nil storage receiver or argument.
	ErrNilStorage = errors.New("yale: nil storage")

	// ErrNilConverter indicates a nil value converter passed to a cast or import.
	ErrNilConverter = errors.New("yale: nil converter")

	// ErrReleased indicates use of a storage after Delete.
	ErrReleased = errors.New("yale: storage released")

	// ErrMalformedInput reports vectors that break the Yale invariants
	// (legacy import, raw vectors, decoded payloads).
	ErrMalformedInput = errors.New("yale: malformed structure")
)

// Operation tags used in error wrapping.
const (
	opNew         = "New"
	opCreate      = "Create"
	opInit        = "Init"
	opDelete      = "Delete"
	opCopy        = "Copy"
	opGet         = "Get"
	opRef         = "Ref"
	opSet         = "Set"
	opGrow        = "Grow"
	opEqual       = "Equal"
	opMerge       = "CreateMerged"
	opEWMultiply  = "EWMultiply"
	opMatMul      = "MatrixMultiply"
	opMulVector   = "MultiplyVector"
	opMatVec      = "MatVec"
	opCast        = "CastCopy"
	opTranspose   = "CopyTransposed"
	opImport      = "FromOldYale"
	opFromVectors = "FromVectors"
	opValidate    = "Validate"
	opRowLength   = "RowLength"
	opReindex     = "Reindex"
	opDump        = "Dump"
)

// yaleErrorf wraps err with an operation tag, preserving it for errors.Is.
// Call only with a non-nil err.
func yaleErrorf(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}

// indexErrorf wraps err with an operation tag and the offending coordinates.
func indexErrorf(op string, i, j int, err error) error {
	return fmt.Errorf("%s(%d,%d): %w", op, i, j, err)
}

// malformed builds a descriptive ErrMalformedInput.
func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrMalformedInput}, args...)...)
}
