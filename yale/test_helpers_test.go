// SPDX-License-Identifier: MIT
// Package yale_test contains shared fixtures for the storage tests.

package yale_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/nyale/dtype"
	"github.com/katalvlaran/nyale/yale"
)

// mustNew allocates a rows×cols storage or fails the test.
func mustNew[D dtype.Element, I yale.Index](tb testing.TB, rows, cols int, opts ...yale.Option) *yale.Storage[D, I] {
	tb.Helper()
	s, err := yale.New[D, I](rows, cols, 0, opts...)
	require.NoError(tb, err)
	return s
}

// mustCreate allocates a run-time storage or fails the test.
func mustCreate[D dtype.Element](tb testing.TB, rows, cols int, opts ...yale.Option) yale.Matrix[D] {
	tb.Helper()
	m, err := yale.Create[D](rows, cols, 0, opts...)
	require.NoError(tb, err)
	return m
}

// fill writes every cell of dense through set (zeros included, which the
// default policy elides off the diagonal).
func fill[D dtype.Element](tb testing.TB, set func(i, j int, v D) error, dense [][]D) {
	tb.Helper()
	for i, row := range dense {
		for j, v := range row {
			require.NoError(tb, set(i, j, v))
		}
	}
}

// toDense reads every cell of a rows×cols matrix through get.
func toDense[D dtype.Element](tb testing.TB, get func(i, j int) (D, error), rows, cols int) [][]D {
	tb.Helper()
	out := make([][]D, rows)
	for i := range out {
		out[i] = make([]D, cols)
		for j := range out[i] {
			v, err := get(i, j)
			require.NoError(tb, err)
			out[i][j] = v
		}
	}
	return out
}

// randomDense returns a rows×cols matrix with roughly density of its cells
// set to small nonzero integers (exact in every numeric type).
func randomDense(rows, cols int, density float64, seed int64) [][]float64 {
	rng := rand.New(rand.NewSource(seed))
	out := make([][]float64, rows)
	for i := range out {
		out[i] = make([]float64, cols)
		for j := range out[i] {
			if rng.Float64() < density {
				out[i][j] = float64(rng.Intn(9) + 1)
			}
		}
	}
	return out
}

// denseMul is the reference product.
func denseMul(a, b [][]float64) [][]float64 {
	out := make([][]float64, len(a))
	for i := range a {
		out[i] = make([]float64, len(b[0]))
		for k := range b {
			for j := range b[0] {
				out[i][j] += a[i][k] * b[k][j]
			}
		}
	}
	return out
}

// scenario builds the 3×3 fixture with diagonal (1,2,3) and (0,2)=5.
func scenario(tb testing.TB) *yale.Storage[float64, uint8] {
	tb.Helper()
	s := mustNew[float64, uint8](tb, 3, 3)
	fill(tb, s.Set, [][]float64{
		{1, 0, 5},
		{0, 2, 0},
		{0, 0, 3},
	})
	return s
}

// requireSortedRows checks that every row segment is strictly ascending.
func requireSortedRows[D dtype.Element, I yale.Index](tb testing.TB, s *yale.Storage[D, I]) {
	tb.Helper()
	ija := s.IJA()
	for i := 0; i < s.Rows(); i++ {
		for p := ija[i] + 1; p < ija[i+1]; p++ {
			require.Less(tb, ija[p-1], ija[p], "row %d not ascending at slot %d", i, p)
		}
	}
	require.NoError(tb, s.Validate())
}
