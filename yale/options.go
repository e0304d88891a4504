// SPDX-License-Identifier: MIT

// Package yale: functional configuration for storages.
// This file defines:
//   - Option / Options (functional options with internal state),
//   - documented defaults (constants),
//   - WithX constructors with strict validation (panic on nonsensical values),
//   - gatherOptions helper that resolves a list of Option into Options.
//
// Options travel with a storage: copies, casts, transposes and operation
// results inherit the options of their (left) source.
package yale

import (
	"math"

	"go.uber.org/zap"
)

// ---------- Defaults (single source of truth) ----------

const (
	// DefaultGrowthFactor multiplies the capacity when an insertion does not
	// fit. The new capacity is max(needed, ceil(capacity*factor)), capped at
	// the shape maximum.
	DefaultGrowthFactor = 1.5

	// DefaultExplicitZeros controls what Set does with a zero written to an
	// absent off-diagonal cell. false ⇒ the write is elided (nothing to
	// store); true ⇒ the cell is materialized holding an explicit zero.
	// Stored zeros are never removed either way.
	DefaultExplicitZeros = false
)

// ---------- Internal panic messages ----------

const (
	panicGrowthInvalid    = "yale: WithGrowthFactor: factor must be finite and > 1"
	panicLoggerNil        = "yale: WithLogger: logger must be non-nil"
	panicAllocatorNil     = "yale: WithAllocator: allocator must be non-nil"
	panicBudgetNegative   = "yale: NewBudget: limit must be >= 0"
	panicReleaseUnderflow = "yale: Budget.Release: more bytes released than reserved"
)

// Option mutates Options. Applying the same Option twice is harmless.
type Option func(*Options)

// Options holds the effective configuration of a storage.
// Fields are unexported; use the WithX constructors.
type Options struct {
	logger        *zap.Logger
	allocator     Allocator
	growth        float64
	explicitZeros bool
}

// WithLogger routes the storage's diagnostics (growth, import, release) to l.
// Panics if l is nil.
func WithLogger(l *zap.Logger) Option {
	if l == nil {
		panic(panicLoggerNil)
	}
	return func(o *Options) { o.logger = l }
}

// WithAllocator makes every vector allocation and growth ask a for the
// bytes first. A refusal surfaces as ErrNoMemory. Panics if a is nil.
func WithAllocator(a Allocator) Option {
	if a == nil {
		panic(panicAllocatorNil)
	}
	return func(o *Options) { o.allocator = a }
}

// WithGrowthFactor overrides DefaultGrowthFactor.
// Panics unless factor is finite and strictly greater than 1.
func WithGrowthFactor(factor float64) Option {
	if math.IsNaN(factor) || math.IsInf(factor, 0) || factor <= 1 {
		panic(panicGrowthInvalid)
	}
	return func(o *Options) { o.growth = factor }
}

// WithExplicitZeros makes Set materialize zero writes to absent
// off-diagonal cells instead of eliding them.
func WithExplicitZeros() Option {
	return func(o *Options) { o.explicitZeros = true }
}

// defaultOptions returns the zero-configuration Options.
func defaultOptions() Options {
	return Options{
		logger:        zap.NewNop(),
		allocator:     unbounded{},
		growth:        DefaultGrowthFactor,
		explicitZeros: DefaultExplicitZeros,
	}
}

// gatherOptions applies opts over the defaults, skipping nil entries.
func gatherOptions(opts ...Option) Options {
	o := defaultOptions()
	for _, fn := range opts {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}

// GrowthFactor returns the configured growth factor.
func (o Options) GrowthFactor() float64 { return o.growth }

// ExplicitZeros reports whether zero writes to absent cells are stored.
func (o Options) ExplicitZeros() bool { return o.explicitZeros }
