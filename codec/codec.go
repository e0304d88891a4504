// SPDX-License-Identifier: MIT

package codec

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"math/bits"

	"github.com/katalvlaran/nyale/dtype"
	"github.com/katalvlaran/nyale/yale"
)

// Version is the format revision written by Encode.
const Version uint8 = 1

// MaxRawBytes bounds the decompressed payload Decode is willing to allocate.
const MaxRawBytes = 1 << 34

var magic = [4]byte{'N', 'Y', 'A', 'L'}

// Header is the fixed-size preamble of an encoded storage.
type Header struct {
	Magic       [4]byte
	Version     uint8
	DType       dtype.DType
	IType       yale.IType
	Compression Compression
	Rows        uint64
	Cols        uint64
	Size        uint64
	PayloadLen  uint64
	RawLen      uint64
}

// HeaderSize is the encoded length of Header.
const HeaderSize = 4 + 4 + 5*8

// Encode writes m to w. The payload is compressed with c unless that would
// not make it smaller.
func Encode[D dtype.Element](w io.Writer, m yale.Matrix[D], c Compression) error {
	if m == nil {
		return yale.ErrNilStorage
	}
	if !c.Valid() {
		return fmt.Errorf("%w: %s", ErrUnknownCompression, c)
	}
	ija, a := m.IJA(), m.A()
	if ija == nil {
		return yale.ErrReleased
	}
	raw := rawPayload(ija, a, m.IType())
	block, applied, err := compress(raw, c)
	if err != nil {
		return fmt.Errorf("codec: compress %s: %w", c, err)
	}
	rows, cols := m.Shape()
	h := Header{
		Magic:       magic,
		Version:     Version,
		DType:       m.DType(),
		IType:       m.IType(),
		Compression: applied,
		Rows:        uint64(rows),
		Cols:        uint64(cols),
		Size:        uint64(len(ija)),
		PayloadLen:  uint64(len(block)),
		RawLen:      uint64(len(raw)),
	}
	if err = binary.Write(w, binary.LittleEndian, &h); err != nil {
		return err
	}
	_, err = w.Write(block)
	return err
}

// rawPayload lays out ija at the index width, then the values.
func rawPayload[D dtype.Element](ija []uint64, a []D, it yale.IType) []byte {
	var buf bytes.Buffer
	buf.Grow(len(ija)*it.Size() + len(a)*dtype.Of[D]().Size())
	idx := make([]byte, 0, len(ija)*it.Size())
	for _, v := range ija {
		switch it {
		case yale.UInt8:
			idx = append(idx, uint8(v))
		case yale.UInt16:
			idx = binary.LittleEndian.AppendUint16(idx, uint16(v))
		case yale.UInt32:
			idx = binary.LittleEndian.AppendUint32(idx, uint32(v))
		default:
			idx = binary.LittleEndian.AppendUint64(idx, v)
		}
	}
	buf.Write(idx)
	// bytes.Buffer never fails and every Element has a fixed size.
	_ = binary.Write(&buf, binary.LittleEndian, a)
	return buf.Bytes()
}

// ReadHeader reads and checks the preamble: magic, version, tags and the
// consistency of the length fields.
func ReadHeader(r io.Reader) (Header, error) {
	var h Header
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return Header{}, fmt.Errorf("codec: read header: %w", err)
	}
	if h.Magic != magic {
		return Header{}, ErrBadMagic
	}
	if h.Version == 0 || h.Version > Version {
		return Header{}, fmt.Errorf("%w: %d", ErrVersion, h.Version)
	}
	if !h.DType.Valid() || !h.IType.Valid() {
		return Header{}, fmt.Errorf("%w: tags %d/%d", ErrCorrupt, h.DType, h.IType)
	}
	if !h.Compression.Valid() {
		return Header{}, fmt.Errorf("%w: %d", ErrUnknownCompression, h.Compression)
	}
	if h.Rows == 0 || h.Cols == 0 || h.Rows > math.MaxInt64 || h.Cols > math.MaxInt64 {
		return Header{}, fmt.Errorf("%w: shape %dx%d", ErrCorrupt, h.Rows, h.Cols)
	}
	lo, limit, err := yale.SizeBounds(int(h.Rows), int(h.Cols))
	if err != nil {
		return Header{}, fmt.Errorf("%w: shape %dx%d: %v", ErrCorrupt, h.Rows, h.Cols, err)
	}
	if h.Size < uint64(lo) || h.Size > uint64(limit) {
		return Header{}, fmt.Errorf("%w: size %d outside [%d, %d]", ErrCorrupt, h.Size, lo, limit)
	}
	hi, want := bits.Mul64(h.Size, uint64(h.IType.Size()+h.DType.Size()))
	if hi != 0 || want != h.RawLen || h.RawLen > MaxRawBytes {
		return Header{}, fmt.Errorf("%w: raw length %d for %d entries", ErrCorrupt, h.RawLen, h.Size)
	}
	if h.Compression == None && h.PayloadLen != h.RawLen {
		return Header{}, fmt.Errorf("%w: stored payload %d, raw %d", ErrCorrupt, h.PayloadLen, h.RawLen)
	}
	if h.PayloadLen > h.RawLen {
		return Header{}, fmt.Errorf("%w: payload %d larger than raw %d", ErrCorrupt, h.PayloadLen, h.RawLen)
	}
	return h, nil
}

// Decode reads one storage of element type D from r. opts configure the
// rebuilt storage (logger, allocator, …).
func Decode[D dtype.Element](r io.Reader, opts ...yale.Option) (yale.Matrix[D], error) {
	h, err := ReadHeader(r)
	if err != nil {
		return nil, err
	}
	if want := dtype.Of[D](); h.DType != want {
		return nil, fmt.Errorf("%w: stored %s, want %s", ErrDTypeMismatch, h.DType, want)
	}
	// grow with the bytes actually present rather than trusting the header
	block, err := io.ReadAll(io.LimitReader(r, int64(h.PayloadLen)))
	if err != nil {
		return nil, fmt.Errorf("codec: read payload: %w", err)
	}
	if uint64(len(block)) != h.PayloadLen {
		return nil, fmt.Errorf("codec: read payload: %w: %d of %d bytes", io.ErrUnexpectedEOF, len(block), h.PayloadLen)
	}
	raw, err := decompress(block, h.Compression, int(h.RawLen))
	if err != nil {
		return nil, err
	}

	size := int(h.Size)
	w := h.IType.Size()
	ija := make([]uint64, size)
	for p := range ija {
		b := raw[p*w:]
		switch h.IType {
		case yale.UInt8:
			ija[p] = uint64(b[0])
		case yale.UInt16:
			ija[p] = uint64(binary.LittleEndian.Uint16(b))
		case yale.UInt32:
			ija[p] = uint64(binary.LittleEndian.Uint32(b))
		default:
			ija[p] = binary.LittleEndian.Uint64(b)
		}
	}
	a := make([]D, size)
	if err = binary.Read(bytes.NewReader(raw[size*w:]), binary.LittleEndian, a); err != nil {
		return nil, fmt.Errorf("%w: values: %v", ErrCorrupt, err)
	}
	return yale.FromVectors(int(h.Rows), int(h.Cols), ija, a, opts...)
}
