// SPDX-License-Identifier: MIT

package yale_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/nyale/dtype"
	"github.com/katalvlaran/nyale/yale"
)

func TestNew_EmptyState(t *testing.T) {
	s := mustNew[float64, uint8](t, 3, 4)

	assert.Equal(t, 3, s.Rows())
	assert.Equal(t, 4, s.Cols())
	assert.Equal(t, 4, s.Size())
	assert.Equal(t, 7, s.Capacity()) // raised to 2*rows+1
	assert.Equal(t, 0, s.NNZ())
	assert.Equal(t, dtype.Float64, s.DType())
	assert.Equal(t, yale.UInt8, s.IType())
	assert.Equal(t, []uint64{4, 4, 4, 4}, s.IJA())
	assert.Equal(t, []float64{0, 0, 0, 0}, s.A())
	assert.Equal(t, []float64{0, 0, 0}, s.Diagonal())
	require.NoError(t, s.Validate())
}

func TestNew_Capacity(t *testing.T) {
	for _, tc := range []struct {
		name             string
		rows, cols, cap_ int
		want             int
	}{
		{"floor", 4, 4, 0, 9},
		{"requested", 4, 4, 12, 12},
		{"clamped to max", 4, 4, 100, 17}, // 4+1+16-4
		{"1x1 clamp", 1, 1, 0, 2},
		{"wide", 2, 5, 0, 5},
		{"tall", 5, 2, 0, 11},
	} {
		t.Run(tc.name, func(t *testing.T) {
			s, err := yale.New[int32, uint16](tc.rows, tc.cols, tc.cap_)
			require.NoError(t, err)
			assert.Equal(t, tc.want, s.Capacity())
			assert.LessOrEqual(t, s.Capacity(), s.MaxSize())
		})
	}
}

func TestMaxSize(t *testing.T) {
	assert.Equal(t, 10, yale.ExportedMaxSize(3, 3)) // rows*cols+1 for square
	assert.Equal(t, 2, yale.ExportedMaxSize(1, 1))
	assert.Equal(t, 2+1+10-2, yale.ExportedMaxSize(2, 5))
	assert.LessOrEqual(t, yale.ExportedMaxSize(5, 2), 5*(2+1)+1)
}

func TestNew_Errors(t *testing.T) {
	_, err := yale.New[float64, uint8](0, 3, 0)
	require.ErrorIs(t, err, yale.ErrBadShape)
	_, err = yale.New[float64, uint8](3, -1, 0)
	require.ErrorIs(t, err, yale.ErrBadShape)
	_, err = yale.New[float64, uint8](16, 16, 0)
	require.ErrorIs(t, err, yale.ErrITypeTooNarrow)
	require.ErrorIs(t, yale.ExportedValidateShape(1<<40, 1<<40), yale.ErrBadShape)

	// wider than needed is fine
	s, err := yale.New[float64, uint64](2, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, yale.UInt64, s.IType())
}

func TestInit_Resets(t *testing.T) {
	s := scenario(t)
	capBefore := s.Capacity()
	require.NoError(t, s.Init())
	assert.Equal(t, 4, s.Size())
	assert.Equal(t, capBefore, s.Capacity())
	assert.Equal(t, []float64{0, 0, 0}, s.Diagonal())
	v, err := s.Get(0, 2)
	require.NoError(t, err)
	assert.Zero(t, v)
}

func TestDelete_Lifecycle(t *testing.T) {
	s := scenario(t)
	require.NoError(t, s.Delete())

	_, err := s.Get(0, 0)
	require.ErrorIs(t, err, yale.ErrReleased)
	require.ErrorIs(t, s.Set(0, 0, 1), yale.ErrReleased)
	require.ErrorIs(t, s.Init(), yale.ErrReleased)
	require.ErrorIs(t, s.Delete(), yale.ErrReleased)
	assert.Nil(t, s.IJA())
	assert.Zero(t, s.NNZ())

	var nilStorage *yale.Storage[float64, uint8]
	_, err = nilStorage.Get(0, 0)
	require.ErrorIs(t, err, yale.ErrNilStorage)
}

func TestClone_Independent(t *testing.T) {
	s := scenario(t)
	c, err := s.Clone()
	require.NoError(t, err)

	assert.Equal(t, s.Capacity(), c.Capacity())
	assert.Equal(t, s.IJA(), c.IJA())
	assert.Equal(t, s.A(), c.A())

	require.NoError(t, c.Set(0, 2, 9))
	require.NoError(t, c.Set(1, 0, 4))
	require.NoError(t, c.Set(1, 1, -2))

	v, _ := s.Get(0, 2)
	assert.Equal(t, 5.0, v)
	v, _ = s.Get(1, 1)
	assert.Equal(t, 2.0, v)
	assert.Equal(t, 5, s.Size())

	require.NoError(t, s.Delete())
	v, err = c.Get(1, 0)
	require.NoError(t, err)
	assert.Equal(t, 4.0, v)
}

func TestValidate_DetectsCorruption(t *testing.T) {
	s := scenario(t)
	ija, a := s.ExportedRaw()

	a[3] = 1 // sentinel
	require.ErrorIs(t, s.Validate(), yale.ErrMalformedInput)
	a[3] = 0
	require.NoError(t, s.Validate())

	ija[4] = 0 // row 0 stores its own diagonal
	require.ErrorIs(t, s.Validate(), yale.ErrMalformedInput)
	ija[4] = 2

	ija[1] = 3 // row 0 ends before it starts
	require.ErrorIs(t, s.Validate(), yale.ErrMalformedInput)
}

func TestRowLength(t *testing.T) {
	s := scenario(t)
	n, err := s.RowLength(0)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	n, err = s.RowLength(1)
	require.NoError(t, err)
	assert.Zero(t, n)
	_, err = s.RowLength(3)
	require.ErrorIs(t, err, yale.ErrOutOfRange)
}

func TestNonSquare_Diagonal(t *testing.T) {
	s := mustNew[int64, uint8](t, 4, 2)
	require.NoError(t, s.Set(0, 0, 1))
	require.NoError(t, s.Set(1, 1, 2))
	require.NoError(t, s.Set(3, 0, 7))
	assert.Equal(t, []int64{1, 2}, s.Diagonal())

	// diagonal slots past min(rows, cols) are not addressable
	_, err := s.Get(2, 2)
	require.ErrorIs(t, err, yale.ErrOutOfRange)
	require.NoError(t, s.Validate())
}
