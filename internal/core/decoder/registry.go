// Package decoder implements Arista tap-aggregation header decoding.
package decoder

import (
	"time"

	"github.com/rizard/tapagg/internal/core"
)

// InfoSink is the per-frame summary channel owned by the host. SetInfo
// replaces the current summary; FixInfo prevents later handlers in the
// same dissection call from overwriting it.
type InfoSink interface {
	SetInfo(text string)
	FixInfo()
}

// DecodeContext carries per-call collaborators into a sub-type decoder.
type DecodeContext struct {
	// Ambient is the host's approximate capture time for the frame,
	// needed only by the 2-byte-seconds timestamp path.
	Ambient time.Time

	// Info is optional; decoders must tolerate nil.
	Info InfoSink
}

// Decoded is the outcome of one sub-type decoder invocation.
type Decoded struct {
	Fields    []core.Field
	Timestamp *core.TimestampHeader

	// Consumed counts the bytes consumed after the subtype field.
	Consumed int

	// Delegate reports whether the dissector may look for a following
	// EtherType. An unknown sub-type has no known length, so the
	// continuation point of the original frame cannot be located.
	Delegate bool
}

// SubtypeDecoder decodes the sub-header that follows the 2-byte subtype
// field. data starts immediately after that field.
type SubtypeDecoder interface {
	Decode(data []byte, ctx *DecodeContext) (Decoded, error)
}

// unknownDecoder handles unrecognized sub-types: only the subtype field
// itself is accounted for and no structured fields are reported.
type unknownDecoder struct{}

func (unknownDecoder) Decode(data []byte, ctx *DecodeContext) (Decoded, error) {
	return Decoded{}, nil
}

// Registry maps sub-type identifiers to decoders. It is built once at
// process start and read-only during dissection; Register must not be
// called concurrently with Lookup.
type Registry struct {
	decoders map[uint16]SubtypeDecoder
	unknown  SubtypeDecoder
}

// NewRegistry returns a registry with the timestamp sub-type
// pre-registered.
func NewRegistry() *Registry {
	r := &Registry{
		decoders: make(map[uint16]SubtypeDecoder),
		unknown:  unknownDecoder{},
	}
	r.Register(core.SubtypeTimestamp, timestampDecoder{})
	return r
}

// Register binds a decoder to a sub-type identifier, replacing any
// previous binding.
func (r *Registry) Register(subtype uint16, d SubtypeDecoder) {
	r.decoders[subtype] = d
}

// Lookup returns the decoder for subtype, or the generic unknown decoder
// on a miss.
func (r *Registry) Lookup(subtype uint16) SubtypeDecoder {
	if d, ok := r.decoders[subtype]; ok {
		return d
	}
	return r.unknown
}
