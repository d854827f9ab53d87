// Package ot parses the OpenType tables that text shaping consumes: cmap,
// GSUB, GPOS, GDEF, morx, BASE, MATH, gasp, post, vhea/vmtx/VORG, and the
// shared layout substructures (Coverage, ClassDef, Device).
//
// Tables are parsed once, at font-open time, into an immutable value tree
// that is safely shared by reference across any number of concurrent
// shaping calls.
package ot

import (
	"encoding/binary"
	"errors"
)

// ErrTruncated is returned (wrapped with table/offset context) whenever a
// read would run past the bounds of the underlying byte slice.
var ErrTruncated = errors.New("ot: truncated table")

// reader is a big-endian cursor over a byte slice. It never panics: a read
// past the end of the slice records ErrTruncated, returns a zero value and
// leaves the cursor where it was; every later read also returns zero, so
// callers can keep chaining reads and check the error once at the end of
// a parse function.
type reader struct {
	data []byte
	pos  int
	err  error
}

// newReader returns a reader over b, positioned at offset 0.
func newReader(b []byte) *reader {
	return &reader{data: b}
}

// subReader returns a fresh reader over the sub-slice [offset, offset+length).
// It reports ErrTruncated if that range is not contained in r's current data.
func (r *reader) subReader(offset, length int) (*reader, error) {
	b, err := r.bytesAt(offset, length)
	if err != nil {
		return nil, err
	}
	return newReader(b), nil
}

func (r *reader) bytesAt(offset, length int) ([]byte, error) {
	if offset < 0 || length < 0 || offset+length > len(r.data) || offset+length < offset {
		return nil, ErrTruncated
	}
	return r.data[offset : offset+length], nil
}

// seek repositions the cursor to an absolute offset.
func (r *reader) seek(offset int) {
	if r.err != nil {
		return
	}
	if offset < 0 || offset > len(r.data) {
		r.err = ErrTruncated
		return
	}
	r.pos = offset
}

// skip advances the cursor by n bytes.
func (r *reader) skip(n int) {
	r.seek(r.pos + n)
}

func (r *reader) take(n int) []byte {
	if r.err != nil {
		return nil
	}
	b, err := r.bytesAt(r.pos, n)
	if err != nil {
		r.err = err
		return nil
	}
	r.pos += n
	return b
}

func (r *reader) u8() uint8 {
	b := r.take(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (r *reader) u16() uint16 {
	b := r.take(2)
	if b == nil {
		return 0
	}
	return binary.BigEndian.Uint16(b)
}

func (r *reader) i16() int16 {
	return int16(r.u16())
}

func (r *reader) u24() uint32 {
	b := r.take(3)
	if b == nil {
		return 0
	}
	return uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2])
}

func (r *reader) u32() uint32 {
	b := r.take(4)
	if b == nil {
		return 0
	}
	return binary.BigEndian.Uint32(b)
}

func (r *reader) i32() int32 {
	return int32(r.u32())
}

func (r *reader) tag() Tag {
	return Tag(r.u32())
}

// fword is a signed 16-bit quantity in font design units.
func (r *reader) fword() int16 {
	return r.i16()
}

// ufword is an unsigned 16-bit quantity in font design units.
func (r *reader) ufword() uint16 {
	return r.u16()
}

// fixed is a 32-bit signed fixed-point number with 16 fractional bits.
func (r *reader) fixed() Fixed {
	return Fixed(r.i32())
}

// f2dot14 is a 16-bit signed fixed-point number with 14 fractional bits,
// used for normalized values in the range [-2, 2).
func (r *reader) f2dot14() F2Dot14 {
	return F2Dot14(r.i16())
}

// offset16 reads an offset relative to some parent base; it is the raw
// value, dereferencing is the caller's responsibility (an offset of 0
// conventionally means "absent").
func (r *reader) offset16() int {
	return int(r.u16())
}

func (r *reader) offset32() int {
	return int(r.u32())
}

// u16Array reads n consecutive uint16 values.
func (r *reader) u16Array(n int) []uint16 {
	out := make([]uint16, n)
	for i := range out {
		out[i] = r.u16()
	}
	return out
}

func (r *reader) u8Array(n int) []uint8 {
	b := r.take(n)
	if b == nil {
		return make([]uint8, n)
	}
	out := make([]uint8, n)
	copy(out, b)
	return out
}
