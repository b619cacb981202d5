// Package decoder implements Arista tap-aggregation header decoding.
package decoder

import "github.com/rizard/tapagg/internal/core"

// Cursor is a read-only bounds-checked view over a frame buffer. All
// multi-byte reads are big-endian. A read past the end of the buffer is
// core.ErrOutOfBounds, never a silent short read.
type Cursor struct {
	data []byte
}

// NewCursor wraps data without copying it.
func NewCursor(data []byte) Cursor {
	return Cursor{data: data}
}

// Len returns the total buffer length.
func (c Cursor) Len() int {
	return len(c.data)
}

// Remaining returns the number of bytes from offset to the end of the
// buffer, or 0 if offset is past the end.
func (c Cursor) Remaining(offset int) int {
	if offset >= len(c.data) {
		return 0
	}
	return len(c.data) - offset
}

// Uint reads length bytes at offset as a big-endian unsigned integer.
// length must be between 1 and 8.
func (c Cursor) Uint(offset, length int) (uint64, error) {
	if length < 1 || length > 8 {
		return 0, core.ErrOutOfBounds
	}
	if offset < 0 || offset+length > len(c.data) {
		return 0, core.ErrOutOfBounds
	}
	var v uint64
	for _, b := range c.data[offset : offset+length] {
		v = v<<8 | uint64(b)
	}
	return v, nil
}

// Slice returns the sub-buffer [offset, offset+length).
func (c Cursor) Slice(offset, length int) ([]byte, error) {
	if offset < 0 || length < 0 || offset+length > len(c.data) {
		return nil, core.ErrOutOfBounds
	}
	return c.data[offset : offset+length], nil
}

// From returns the sub-buffer from offset to the end.
func (c Cursor) From(offset int) ([]byte, error) {
	if offset < 0 || offset > len(c.data) {
		return nil, core.ErrOutOfBounds
	}
	return c.data[offset:], nil
}
