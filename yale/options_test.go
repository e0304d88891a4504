// SPDX-License-Identifier: MIT

package yale_test

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/katalvlaran/nyale/yale"
)

func TestOptions_Panics(t *testing.T) {
	assert.Panics(t, func() { yale.WithGrowthFactor(1) })
	assert.Panics(t, func() { yale.WithGrowthFactor(0.5) })
	assert.Panics(t, func() { yale.WithGrowthFactor(math.NaN()) })
	assert.Panics(t, func() { yale.WithGrowthFactor(math.Inf(1)) })
	assert.Panics(t, func() { yale.WithLogger(nil) })
	assert.Panics(t, func() { yale.WithAllocator(nil) })
	assert.Panics(t, func() { yale.NewBudget(-1) })
	assert.Panics(t, func() { yale.NewBudget(1).Release(2) })
}

func TestOptions_Defaults(t *testing.T) {
	s := mustNew[float64, uint8](t, 2, 2)
	assert.Equal(t, yale.DefaultGrowthFactor, s.Options().GrowthFactor())
	assert.Equal(t, yale.DefaultExplicitZeros, s.Options().ExplicitZeros())
}

func TestGrowthFactor(t *testing.T) {
	for _, tc := range []struct {
		name   string
		opts   []yale.Option
		expect int
	}{
		{"default", nil, 32},                                         // ceil(21*1.5)
		{"triple", []yale.Option{yale.WithGrowthFactor(3)}, 63},      // 21*3
		{"capped", []yale.Option{yale.WithGrowthFactor(10)}, 10 + 1 + 100 - 10},
	} {
		t.Run(tc.name, func(t *testing.T) {
			s := mustNew[float64, uint8](t, 10, 10, tc.opts...)
			require.Equal(t, 21, s.Capacity())
			require.NoError(t, s.ExportedReserve(22))
			assert.Equal(t, tc.expect, s.Capacity())
			require.NoError(t, s.Validate())
		})
	}
}

func TestLogger_ReportsGrowthAndRefusal(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	budget := yale.NewBudget(7 * 9) // exactly one 3×3 float64/uint8 storage
	s := mustNew[float64, uint8](t, 3, 3, yale.WithLogger(zap.New(core)), yale.WithAllocator(budget))

	// fill the initial capacity (7 = 4 pointers + 3 entries)
	require.NoError(t, s.Set(0, 1, 1))
	require.NoError(t, s.Set(0, 2, 2))
	require.NoError(t, s.Set(1, 0, 3))
	require.Equal(t, s.Capacity(), s.Size())
	ija, a := s.IJA(), s.A()

	err := s.Set(2, 0, 4)
	require.ErrorIs(t, err, yale.ErrNoMemory)
	assert.Equal(t, ija, s.IJA(), "refused growth must leave the storage intact")
	assert.Equal(t, a, s.A())
	assert.Equal(t, 1, logs.FilterMessage("yale: growth refused").Len())
	assert.Contains(t, err.Error(), "Grow: ")

	_, err = s.Clone()
	require.ErrorIs(t, err, yale.ErrNoMemory)
	assert.Equal(t, 1, logs.FilterMessage("yale: allocation refused").Len())

	require.NoError(t, s.Delete())
	assert.Zero(t, budget.Used())
	assert.Equal(t, 1, logs.FilterMessage("yale: storage released").Len())

	// an unconstrained storage logs its growth
	g := mustNew[float64, uint8](t, 3, 3, yale.WithLogger(zap.New(core)))
	fill(t, g.Set, [][]float64{{1, 1, 1}, {1, 1, 1}, {1, 1, 1}})
	assert.GreaterOrEqual(t, logs.FilterMessage("yale: vectors grown").Len(), 1)
}

func TestBudget(t *testing.T) {
	b := yale.NewBudget(100)
	assert.Equal(t, 100, b.Limit())

	s, err := yale.New[float64, uint8](3, 3, 0, yale.WithAllocator(b))
	require.NoError(t, err)
	assert.Equal(t, 7*9, b.Used())

	_, err = s.Clone()
	require.ErrorIs(t, err, yale.ErrNoMemory)
	_, err = yale.New[float64, uint8](3, 3, 0, yale.WithAllocator(b))
	require.ErrorIs(t, err, yale.ErrNoMemory)

	require.NoError(t, s.Delete())
	assert.Zero(t, b.Used())
}

func TestBudget_Concurrent(t *testing.T) {
	const workers, rounds = 8, 500
	b := yale.NewBudget(workers * 3)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for r := 0; r < rounds; r++ {
				if err := b.Reserve(3); err == nil {
					b.Release(3)
				}
			}
		}()
	}
	wg.Wait()
	assert.Zero(t, b.Used())
}
