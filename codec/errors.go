// SPDX-License-Identifier: MIT

package codec

import "errors"

var (
	// ErrBadMagic means the stream does not start with a storage header.
	ErrBadMagic = errors.New("codec: bad magic")

	// ErrVersion is returned for headers written by a newer format.
	ErrVersion = errors.New("codec: unsupported format version")

	// ErrDTypeMismatch means the stored element type differs from the one
	// requested by the caller.
	ErrDTypeMismatch = errors.New("codec: element type mismatch")

	// ErrUnknownCompression reports an unrecognized compression tag or name.
	ErrUnknownCompression = errors.New("codec: unknown compression")

	// ErrCorrupt reports inconsistent header fields or a payload that does
	// not decompress to the announced length.
	ErrCorrupt = errors.New("codec: corrupt payload")
)
