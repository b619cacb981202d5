// Package decoder implements Arista tap-aggregation header decoding.
package decoder

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/rizard/tapagg/internal/core"
)

const (
	versionLen     = 2
	nanosecondsLen = 4
)

// shortSecondsVersions enumerates the header versions that carry a 2-byte
// seconds field. This is an exact membership set, not a bitmask: any
// version outside it carries 4 bytes.
var shortSecondsVersions = map[uint16]struct{}{
	0x0020: {},
	0x0021: {},
	0x0120: {},
	0x0121: {},
}

// SecondsWidth returns the on-wire width in bytes of the seconds field
// for the given header version.
func SecondsWidth(version uint16) int {
	if _, ok := shortSecondsVersions[version]; ok {
		return 2
	}
	return 4
}

// DecodeTimestamp decodes a TapAgg timestamp sub-header. data starts at
// the version field (the 2-byte subtype has already been consumed).
// Layout: version(2) | seconds(2 or 4, by version) | nanoseconds(4).
//
// When the seconds field is 2 bytes wide the full epoch second is
// reconstructed by splicing the on-wire value into the low 16 bits of
// ambient, the host's approximate capture time. This is correct only
// while the true time is within the 16-bit rollover window (~±18 hours)
// of ambient; drift beyond that aliases silently.
//
// The returned count is the number of bytes consumed from data.
func DecodeTimestamp(data []byte, ambient time.Time) (core.TimestampHeader, int, error) {
	cur := NewCursor(data)

	version, err := cur.Uint(0, versionLen)
	if err != nil {
		return core.TimestampHeader{}, 0, err
	}

	width := SecondsWidth(uint16(version))
	raw, err := cur.Uint(versionLen, width)
	if err != nil {
		return core.TimestampHeader{}, 0, err
	}
	ns, err := cur.Uint(versionLen+width, nanosecondsLen)
	if err != nil {
		return core.TimestampHeader{}, 0, err
	}

	h := core.TimestampHeader{
		Version:      uint16(version),
		Seconds:      ReconstructSeconds(uint32(raw), width, ambient),
		Nanoseconds:  uint32(ns),
		RawSeconds:   uint32(raw),
		SecondsWidth: width,
	}
	return h, versionLen + width + nanosecondsLen, nil
}

// ReconstructSeconds turns the on-wire seconds value into a full epoch
// second. A 2-byte value supplies only the low 16 bits; the high bits
// come from ambient, the host's approximate capture time. A 4-byte value
// is used verbatim.
func ReconstructSeconds(raw uint32, width int, ambient time.Time) uint32 {
	if width == 2 {
		return uint32(ambient.Unix())&0xFFFF0000 | raw&0xFFFF
	}
	return raw
}

// EncodeTimestamp is the inverse of DecodeTimestamp: it serializes the
// raw on-wire form of h (version, raw seconds at the version's width,
// nanoseconds), without the leading subtype field.
func EncodeTimestamp(h core.TimestampHeader) []byte {
	width := SecondsWidth(h.Version)
	buf := make([]byte, 0, versionLen+width+nanosecondsLen)
	buf = binary.BigEndian.AppendUint16(buf, h.Version)
	if width == 2 {
		buf = binary.BigEndian.AppendUint16(buf, uint16(h.RawSeconds))
	} else {
		buf = binary.BigEndian.AppendUint32(buf, h.RawSeconds)
	}
	buf = binary.BigEndian.AppendUint32(buf, h.Nanoseconds)
	return buf
}

// timestampDecoder adapts DecodeTimestamp to the SubtypeDecoder contract.
type timestampDecoder struct{}

func (timestampDecoder) Decode(data []byte, ctx *DecodeContext) (Decoded, error) {
	h, consumed, err := DecodeTimestamp(data, ctx.Ambient)
	if err != nil {
		return Decoded{}, err
	}

	if ctx.Info != nil {
		ctx.Info.SetInfo(fmt.Sprintf("TapAgg Timestamp: %d.%d ", h.Seconds, h.Nanoseconds))
		ctx.Info.FixInfo()
	}

	fields := []core.Field{
		{Name: "version", Offset: subtypeLen, Length: versionLen, Value: uint64(h.Version)},
		{Name: "timestamp", Offset: subtypeLen + versionLen, Length: h.SecondsWidth + nanosecondsLen, Value: uint64(h.Seconds)},
	}
	return Decoded{
		Fields:    fields,
		Timestamp: &h,
		Consumed:  consumed,
		Delegate:  true,
	}, nil
}
