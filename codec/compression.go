// SPDX-License-Identifier: MIT

package codec

import (
	"fmt"
	"strings"
	"sync"

	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression selects the payload block algorithm.
// The numeric values are part of the persisted format; never reorder.
type Compression uint8

const (
	// None stores the payload as is.
	None Compression = iota
	// LZ4 is the fastest option, with a modest ratio.
	LZ4
	// Zstd gives the best ratio at a moderate speed.
	Zstd
	// S2 sits between the two.
	S2
)

var compressionNames = [...]string{
	None: "none",
	LZ4:  "lz4",
	Zstd: "zstd",
	S2:   "s2",
}

// String returns the lower-case name.
func (c Compression) String() string {
	if int(c) < len(compressionNames) {
		return compressionNames[c]
	}
	return fmt.Sprintf("compression(%d)", uint8(c))
}

// Valid reports whether c is a known algorithm.
func (c Compression) Valid() bool { return int(c) < len(compressionNames) }

// ParseCompression maps a name ("none", "lz4", "zstd", "s2") to its tag.
// The empty string means None.
func ParseCompression(name string) (Compression, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" {
		return None, nil
	}
	for i, s := range compressionNames {
		if s == n {
			return Compression(i), nil
		}
	}
	return None, fmt.Errorf("%w: %q", ErrUnknownCompression, name)
}

// zstd coders are expensive to build; keep them pooled.
var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() (*zstd.Encoder, error) {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder), nil
	}
	return zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
}

func getZstdDecoder() (*zstd.Decoder, error) {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder), nil
	}
	return zstd.NewReader(nil)
}

// compress returns the encoded block and the algorithm actually applied.
// Incompressible input comes back unchanged with None.
func compress(raw []byte, c Compression) ([]byte, Compression, error) {
	if c == None || len(raw) == 0 {
		return raw, None, nil
	}
	var out []byte
	switch c {
	case LZ4:
		buf := make([]byte, lz4.CompressBlockBound(len(raw)))
		n, err := lz4.CompressBlock(raw, buf, nil)
		if err != nil {
			return nil, None, err
		}
		out = buf[:n] // n == 0: incompressible
	case Zstd:
		enc, err := getZstdEncoder()
		if err != nil {
			return nil, None, err
		}
		out = enc.EncodeAll(raw, nil)
		zstdEncoderPool.Put(enc)
	case S2:
		out = s2.Encode(nil, raw)
	default:
		return nil, None, fmt.Errorf("%w: %s", ErrUnknownCompression, c)
	}
	if len(out) == 0 || len(out) >= len(raw) {
		return raw, None, nil
	}
	return out, c, nil
}

// decompress inverts compress; the result must be exactly rawLen bytes.
func decompress(block []byte, c Compression, rawLen int) ([]byte, error) {
	var (
		out []byte
		err error
	)
	switch c {
	case None:
		out = block
	case LZ4:
		out = make([]byte, rawLen)
		var n int
		n, err = lz4.UncompressBlock(block, out)
		out = out[:max(n, 0)]
	case Zstd:
		var dec *zstd.Decoder
		if dec, err = getZstdDecoder(); err != nil {
			return nil, err
		}
		out, err = dec.DecodeAll(block, make([]byte, 0, rawLen))
		zstdDecoderPool.Put(dec)
	case S2:
		var n int
		if n, err = s2.DecodedLen(block); err == nil && n != rawLen {
			return nil, fmt.Errorf("%w: s2 block announces %d bytes, want %d", ErrCorrupt, n, rawLen)
		}
		if err == nil {
			out, err = s2.Decode(nil, block)
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownCompression, c)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, c, err)
	}
	if len(out) != rawLen {
		return nil, fmt.Errorf("%w: %s block inflates to %d bytes, want %d", ErrCorrupt, c, len(out), rawLen)
	}
	return out, nil
}
