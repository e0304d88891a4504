// Package codec persists Yale storages in a self-describing little-endian
// binary format with optional payload compression.
//
// Layout:
//
//	magic "NYAL" | version u8 | dtype u8 | itype u8 | compression u8 |
//	rows u64 | cols u64 | size u64 | payload length u64 | raw length u64 |
//	payload
//
// The raw payload is ija[:size] at the storage's index width followed by
// a[:size] at the element width. It is compressed as a single block with
// LZ4, S2 or Zstandard; a block that does not shrink is stored as is and the
// header records None.
//
// Decode validates every structural invariant before handing the storage
// back and always re-selects the narrowest index type for the shape.
package codec
