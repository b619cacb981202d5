// Package decoder implements Arista tap-aggregation header decoding.
package decoder

import (
	"time"

	"github.com/rizard/tapagg/internal/core"
)

const (
	subtypeLen   = 2
	etherTypeLen = 2
)

// PayloadHandler consumes the original frame payload that resumes after
// the Arista header. It receives only the sub-slice following the
// next-EtherType field and does its own offset accounting from there.
type PayloadHandler func(etherType uint16, payload []byte) error

// NextLayerResolver is the externally-owned dissector table keyed by
// EtherType. Resolve returns nil when no handler is registered.
type NextLayerResolver interface {
	Resolve(etherType uint16) PayloadHandler
}

// Dissector decodes the Arista header stack at the start of a buffer and
// chains into the parser for whatever protocol follows. It holds no
// per-call state; one Dissector may dissect frames from multiple
// goroutines concurrently.
type Dissector struct {
	registry *Registry
	resolver NextLayerResolver
	fallback PayloadHandler
	info     InfoSink
}

// Option configures a Dissector.
type Option func(*Dissector)

// WithResolver installs the externally-owned next-layer dissector table.
func WithResolver(r NextLayerResolver) Option {
	return func(d *Dissector) { d.resolver = r }
}

// WithFallbackHandler installs the generic handler invoked when no
// next-layer parser is registered for the following EtherType.
func WithFallbackHandler(h PayloadHandler) Option {
	return func(d *Dissector) { d.fallback = h }
}

// WithInfoSink installs the per-frame summary channel.
func WithInfoSink(s InfoSink) Option {
	return func(d *Dissector) { d.info = s }
}

// NewDissector builds a Dissector over the given sub-type registry.
func NewDissector(registry *Registry, opts ...Option) *Dissector {
	d := &Dissector{registry: registry}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dissect decodes the Arista header at the start of frame. ambient is
// the host's approximate capture time for this frame.
//
// The returned result is not handled only for an empty buffer. A frame
// too short to carry a following EtherType is a normal terminal state:
// the decoded fields are returned and no delegation happens. An unknown
// sub-type consumes exactly the 2-byte subtype field and never
// delegates, since the continuation point of the original payload is
// unknowable.
func (d *Dissector) Dissect(frame []byte, ambient time.Time) (core.DissectResult, error) {
	if len(frame) == 0 {
		return core.DissectResult{}, nil
	}

	cur := NewCursor(frame)
	subtype, err := cur.Uint(0, subtypeLen)
	if err != nil {
		return core.DissectResult{}, err
	}

	rest, err := cur.From(subtypeLen)
	if err != nil {
		return core.DissectResult{}, err
	}
	decoded, err := d.registry.Lookup(uint16(subtype)).Decode(rest, &DecodeContext{
		Ambient: ambient,
		Info:    d.info,
	})
	if err != nil {
		return core.DissectResult{}, err
	}

	pos := subtypeLen + decoded.Consumed
	result := core.DissectResult{
		Handled:   true,
		Subtype:   uint16(subtype),
		Timestamp: decoded.Timestamp,
		Fields: append([]core.Field{
			{Name: "subtype", Offset: 0, Length: subtypeLen, Value: subtype},
		}, decoded.Fields...),
		Consumed: pos,
	}

	if !decoded.Delegate || cur.Remaining(pos) < etherTypeLen {
		return result, nil
	}

	next, err := cur.Uint(pos, etherTypeLen)
	if err != nil {
		return core.DissectResult{}, err
	}
	pos += etherTypeLen

	result.HasNextEtherType = true
	result.NextEtherType = uint16(next)
	result.Payload = frame[pos:]
	result.Consumed = pos

	if handler := d.resolveHandler(uint16(next)); handler != nil {
		if err := handler(uint16(next), result.Payload); err != nil {
			return result, err
		}
	}
	return result, nil
}

func (d *Dissector) resolveHandler(etherType uint16) PayloadHandler {
	if d.resolver != nil {
		if h := d.resolver.Resolve(etherType); h != nil {
			return h
		}
	}
	return d.fallback
}
