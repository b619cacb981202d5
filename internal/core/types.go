// Package core defines core types with zero external dependencies.
package core

import "time"

// Protocol constants for the Arista tap-aggregation header.
const (
	// EtherTypeArista is the Arista-assigned outer EtherType that marks
	// an inserted tap-aggregation header. Some raw captures show the two
	// bytes swapped; the numeric value is 0xd28b.
	EtherTypeArista uint16 = 0xd28b

	// SubtypeTimestamp identifies the TapAgg hardware timestamp sub-header.
	SubtypeTimestamp uint16 = 0x0001
)

// TimestampHeader is a decoded TapAgg timestamp sub-header.
type TimestampHeader struct {
	Version      uint16
	Seconds      uint32 // reconstructed epoch seconds
	Nanoseconds  uint32
	RawSeconds   uint32 // on-wire seconds value before reconstruction
	SecondsWidth int    // 2 or 4, derived from Version
}

// Time returns the reconstructed capture timestamp.
func (h TimestampHeader) Time() time.Time {
	return time.Unix(int64(h.Seconds), int64(h.Nanoseconds)).UTC()
}

// Field is a structured record for one decoded header field, in place of
// a host framework's string-keyed field-tree callbacks.
type Field struct {
	Name   string
	Offset int // byte offset from the start of the Arista header
	Length int
	Value  uint64
}

// DissectResult is the outcome of dissecting one Arista header.
type DissectResult struct {
	// Handled is false only when no Arista marker is present (empty buffer).
	Handled bool

	Subtype   uint16
	Timestamp *TimestampHeader // nil unless Subtype is SubtypeTimestamp
	Fields    []Field

	// HasNextEtherType reports whether enough bytes remained after the
	// sub-header to carry the EtherType of the resumed payload.
	HasNextEtherType bool
	NextEtherType    uint16

	// Payload is the sub-slice of the frame following the next-EtherType
	// field. Nil when HasNextEtherType is false.
	Payload []byte

	// Consumed is the number of bytes this layer advanced past, through
	// the next-EtherType field when one was read. Bytes beyond that are
	// the delegate's concern and are not double-counted.
	Consumed int
}
