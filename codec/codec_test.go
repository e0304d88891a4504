// SPDX-License-Identifier: MIT

package codec_test

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/nyale/codec"
	"github.com/katalvlaran/nyale/dtype"
	"github.com/katalvlaran/nyale/yale"
)

// banded builds an n×n float64 matrix with the main diagonal and one
// super-diagonal.
func banded(t *testing.T, n int) yale.Matrix[float64] {
	t.Helper()
	m, err := yale.Create[float64](n, n, 0)
	require.NoError(t, err)
	for i := 0; i < n; i++ {
		require.NoError(t, m.Set(i, i, 1))
		if i+1 < n {
			require.NoError(t, m.Set(i, i+1, 2))
		}
	}
	return m
}

func encode[D dtype.Element](t *testing.T, m yale.Matrix[D], c codec.Compression) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, codec.Encode(&buf, m, c))
	return buf.Bytes()
}

func TestRoundTrip(t *testing.T) {
	m := banded(t, 200)
	for _, c := range []codec.Compression{codec.None, codec.LZ4, codec.Zstd, codec.S2} {
		t.Run(c.String(), func(t *testing.T) {
			data := encode(t, m, c)

			h, err := codec.ReadHeader(bytes.NewReader(data))
			require.NoError(t, err)
			assert.Equal(t, c, h.Compression)
			assert.Equal(t, dtype.Float64, h.DType)
			assert.Equal(t, yale.UInt16, h.IType)
			assert.Equal(t, uint64(m.Size()), h.Size)
			assert.Equal(t, codec.HeaderSize+int(h.PayloadLen), len(data))
			if c != codec.None {
				assert.Less(t, h.PayloadLen, h.RawLen)
			}

			back, err := codec.Decode[float64](bytes.NewReader(data))
			require.NoError(t, err)
			eq, err := yale.Equal(m, back)
			require.NoError(t, err)
			assert.True(t, eq)
			assert.Equal(t, m.IJA(), back.IJA())
			assert.Equal(t, m.A(), back.A())
		})
	}
}

func TestRoundTrip_Complex(t *testing.T) {
	m, err := yale.Create[complex64](3, 4, 0)
	require.NoError(t, err)
	require.NoError(t, m.Set(0, 3, complex(1, -2)))
	require.NoError(t, m.Set(2, 2, complex(0, 5)))

	back, err := codec.Decode[complex64](bytes.NewReader(encode(t, m, codec.S2)))
	require.NoError(t, err)
	v, err := back.Get(0, 3)
	require.NoError(t, err)
	assert.Equal(t, complex64(complex(1, -2)), v)
	assert.Equal(t, []complex64{0, 0, complex(0, 5)}, back.Diagonal())
}

func TestEncode_IncompressibleFallsBack(t *testing.T) {
	m, err := yale.Create[uint8](1, 1, 0)
	require.NoError(t, err)
	require.NoError(t, m.Set(0, 0, 9))

	for _, c := range []codec.Compression{codec.LZ4, codec.Zstd, codec.S2} {
		h, err := codec.ReadHeader(bytes.NewReader(encode(t, m, c)))
		require.NoError(t, err)
		assert.Equal(t, codec.None, h.Compression, c.String())
		assert.Equal(t, h.RawLen, h.PayloadLen)
	}
}

func TestEncode_Errors(t *testing.T) {
	var buf bytes.Buffer
	require.ErrorIs(t, codec.Encode[float64](&buf, nil, codec.None), yale.ErrNilStorage)

	m := banded(t, 3)
	require.ErrorIs(t, codec.Encode(&buf, m, codec.Compression(99)), codec.ErrUnknownCompression)

	require.NoError(t, m.Delete())
	require.ErrorIs(t, codec.Encode(&buf, m, codec.None), yale.ErrReleased)
}

func TestDecode_Rejects(t *testing.T) {
	good := encode(t, banded(t, 4), codec.None)
	mutate := func(f func(b []byte)) []byte {
		b := bytes.Clone(good)
		f(b)
		return b
	}

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"bad magic", mutate(func(b []byte) { b[0] = 'X' }), codec.ErrBadMagic},
		{"future version", mutate(func(b []byte) { b[4] = 7 }), codec.ErrVersion},
		{"unknown compression", mutate(func(b []byte) { b[7] = 42 }), codec.ErrUnknownCompression},
		{"bad itype", mutate(func(b []byte) { b[6] = 9 }), codec.ErrCorrupt},
		{"zero rows", mutate(func(b []byte) { binary.LittleEndian.PutUint64(b[8:], 0) }), codec.ErrCorrupt},
		{"raw length mismatch", mutate(func(b []byte) { binary.LittleEndian.PutUint64(b[40:], 3) }), codec.ErrCorrupt},
		// row pointer 0 is below rows+1
		{"broken structure", mutate(func(b []byte) { b[codec.HeaderSize] = 0 }), yale.ErrMalformedInput},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := codec.Decode[float64](bytes.NewReader(tc.data))
			require.ErrorIs(t, err, tc.want)
		})
	}

	t.Run("dtype mismatch", func(t *testing.T) {
		_, err := codec.Decode[int32](bytes.NewReader(good))
		require.ErrorIs(t, err, codec.ErrDTypeMismatch)
	})
	t.Run("truncated payload", func(t *testing.T) {
		_, err := codec.Decode[float64](bytes.NewReader(good[:len(good)-3]))
		require.Error(t, err)
	})
	t.Run("truncated header", func(t *testing.T) {
		_, err := codec.ReadHeader(bytes.NewReader(good[:10]))
		require.Error(t, err)
	})
}

// rawHeader encodes h with valid magic and version and no payload.
func rawHeader(t *testing.T, h codec.Header) []byte {
	t.Helper()
	h.Magic = [4]byte{'N', 'Y', 'A', 'L'}
	h.Version = codec.Version
	var buf bytes.Buffer
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, &h))
	require.Equal(t, codec.HeaderSize, buf.Len())
	return buf.Bytes()
}

func TestReadHeader_BoundsSizeByShape(t *testing.T) {
	base := codec.Header{DType: dtype.Float64, IType: yale.UInt8, Compression: codec.Zstd, Rows: 1, Cols: 1}

	tests := []struct {
		name  string
		tweak func(h *codec.Header)
	}{
		{"size far above a 1x1 shape", func(h *codec.Header) {
			h.Size, h.RawLen, h.PayloadLen = 1<<26, 9<<26, 1<<32
		}},
		{"size below the row pointers", func(h *codec.Header) {
			h.Rows, h.Cols, h.Size, h.RawLen, h.PayloadLen = 4, 4, 2, 18, 10
		}},
		{"payload larger than raw", func(h *codec.Header) {
			h.Size, h.RawLen, h.PayloadLen = 2, 18, 1<<30
		}},
		{"shape beyond 64-bit addressing", func(h *codec.Header) {
			h.Rows, h.Cols, h.Size, h.RawLen, h.PayloadLen = 1<<40, 1<<40, 2, 18, 10
		}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := base
			tc.tweak(&h)
			data := rawHeader(t, h)

			_, err := codec.ReadHeader(bytes.NewReader(data))
			require.ErrorIs(t, err, codec.ErrCorrupt)
			_, err = codec.Decode[float64](bytes.NewReader(data))
			require.ErrorIs(t, err, codec.ErrCorrupt)
		})
	}
}

func TestDecode_ShortCompressedPayload(t *testing.T) {
	// a consistent header whose payload never arrives
	data := rawHeader(t, codec.Header{
		DType: dtype.Float64, IType: yale.UInt8, Compression: codec.Zstd,
		Rows: 2, Cols: 2, Size: 3, RawLen: 27, PayloadLen: 20,
	})
	_, err := codec.Decode[float64](bytes.NewReader(append(data, 1, 2, 3)))
	require.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestDecode_AppliesOptions(t *testing.T) {
	budget := yale.NewBudget(1 << 20)
	m, err := codec.Decode[float64](bytes.NewReader(encode(t, banded(t, 8), codec.Zstd)), yale.WithAllocator(budget))
	require.NoError(t, err)
	assert.Positive(t, budget.Used())
	require.NoError(t, m.Delete())
	assert.Zero(t, budget.Used())
}

func TestParseCompression(t *testing.T) {
	for in, want := range map[string]codec.Compression{
		"":      codec.None,
		"none":  codec.None,
		"LZ4":   codec.LZ4,
		" zstd": codec.Zstd,
		"s2":    codec.S2,
	} {
		got, err := codec.ParseCompression(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := codec.ParseCompression("gzip")
	require.ErrorIs(t, err, codec.ErrUnknownCompression)
	assert.Equal(t, "compression(9)", codec.Compression(9).String())
}
