// Package arista integrates the tap-aggregation header decoder with
// gopacket. Importing it hooks EtherType 0xd28b into gopacket's
// Ethernet dispatch, so packets built from tagged frames grow a TapAgg
// layer followed by whatever protocol the inserted header displaced.
package arista

import (
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"

	"github.com/rizard/tapagg/internal/core"
	"github.com/rizard/tapagg/internal/core/decoder"
)

// LayerTypeTapAgg is the gopacket layer type for the Arista
// tap-aggregation header.
var LayerTypeTapAgg = gopacket.RegisterLayerType(1462, gopacket.LayerTypeMetadata{
	Name:    "AristaTapAgg",
	Decoder: gopacket.DecodeFunc(decodeTapAgg),
})

func init() {
	// One-time registration of the outer EtherType with gopacket's
	// demultiplexer. The numeric value is 0xd28b.
	layers.EthernetTypeMetadata[core.EtherTypeArista] = layers.EnumMetadata{
		DecodeWith: gopacket.DecodeFunc(decodeTapAgg),
		Name:       "AristaTapAgg",
		LayerType:  LayerTypeTapAgg,
	}
}

// TapAgg is the Arista header inserted after the source-address field of
// a tapped frame: a 2-byte sub-type, an optional sub-header selected by
// it, and the EtherType of the resumed original payload.
//
// gopacket layer decoding has no channel for the capture timestamp, so
// RawSeconds holds the on-wire value; hosts that know the approximate
// capture time recover the full timestamp with AbsoluteTime.
type TapAgg struct {
	layers.BaseLayer
	Subtype      uint16
	Version      uint16
	RawSeconds   uint32
	SecondsWidth int
	Nanoseconds  uint32

	HasNextEtherType bool
	NextEtherType    uint16
}

// LayerType returns LayerTypeTapAgg.
func (t *TapAgg) LayerType() gopacket.LayerType {
	return LayerTypeTapAgg
}

// CanDecode returns the set of layer types this DecodingLayer can decode.
func (t *TapAgg) CanDecode() gopacket.LayerClass {
	return LayerTypeTapAgg
}

// NextLayerType returns the layer type of the resumed payload, or zero
// when the header did not carry a following EtherType.
func (t *TapAgg) NextLayerType() gopacket.LayerType {
	if !t.HasNextEtherType {
		return gopacket.LayerTypeZero
	}
	if meta := layers.EthernetTypeMetadata[t.NextEtherType]; meta.LayerType != gopacket.LayerTypeZero {
		return meta.LayerType
	}
	return gopacket.LayerTypePayload
}

// DecodeFromBytes decodes the given bytes into this layer.
func (t *TapAgg) DecodeFromBytes(data []byte, df gopacket.DecodeFeedback) error {
	*t = TapAgg{}

	cur := decoder.NewCursor(data)
	subtype, err := cur.Uint(0, 2)
	if err != nil {
		df.SetTruncated()
		return err
	}
	t.Subtype = uint16(subtype)
	pos := 2

	// Only the timestamp sub-header has a known layout. Anything else
	// ends the walk: its length is unknown, so the continuation point of
	// the original frame cannot be located.
	if t.Subtype != core.SubtypeTimestamp {
		t.BaseLayer = layers.BaseLayer{Contents: data[:pos], Payload: nil}
		return nil
	}

	h, consumed, err := decoder.DecodeTimestamp(data[pos:], time.Unix(0, 0))
	if err != nil {
		df.SetTruncated()
		return err
	}
	t.Version = h.Version
	t.RawSeconds = h.RawSeconds
	t.SecondsWidth = h.SecondsWidth
	t.Nanoseconds = h.Nanoseconds
	pos += consumed

	if cur.Remaining(pos) >= 2 {
		next, err := cur.Uint(pos, 2)
		if err != nil {
			return err
		}
		t.HasNextEtherType = true
		t.NextEtherType = uint16(next)
		pos += 2
	}

	t.BaseLayer = layers.BaseLayer{Contents: data[:pos], Payload: data[pos:]}
	return nil
}

// AbsoluteTime reconstructs the full capture timestamp. ambient is the
// host's approximate capture time for the frame; it supplies the high
// 16 bits of the epoch second when the on-wire field is 2 bytes wide,
// and is ignored otherwise. Valid while the true time is within the
// 16-bit rollover window (~±18 hours) of ambient.
func (t *TapAgg) AbsoluteTime(ambient time.Time) time.Time {
	sec := decoder.ReconstructSeconds(t.RawSeconds, t.SecondsWidth, ambient)
	return time.Unix(int64(sec), int64(t.Nanoseconds)).UTC()
}

func decodeTapAgg(data []byte, p gopacket.PacketBuilder) error {
	t := &TapAgg{}
	if err := t.DecodeFromBytes(data, p); err != nil {
		return err
	}
	p.AddLayer(t)

	if !t.HasNextEtherType {
		return nil
	}
	// Chain into the parser registered for the following EtherType, or
	// the generic payload decoder when none is.
	if meta := layers.EthernetTypeMetadata[t.NextEtherType]; meta.LayerType != gopacket.LayerTypeZero {
		return p.NextDecoder(meta.DecodeWith)
	}
	return p.NextDecoder(gopacket.LayerTypePayload)
}
