package decoder

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rizard/tapagg/internal/core"
)

func TestSecondsWidth(t *testing.T) {
	// The four short versions are an exact enumeration, not a mask.
	for _, v := range []uint16{0x0020, 0x0021, 0x0120, 0x0121} {
		assert.Equal(t, 2, SecondsWidth(v), "version 0x%04x", v)
	}
	for _, v := range []uint16{0x0000, 0x0022, 0x0024, 0x0030, 0x0100, 0x0122, 0x1020, 0xFFFF} {
		assert.Equal(t, 4, SecondsWidth(v), "version 0x%04x", v)
	}
}

func TestDecodeTimestampShortSeconds(t *testing.T) {
	// version=0x0020, seconds=0x5678, ns=0x00000001
	data := []byte{0x00, 0x20, 0x56, 0x78, 0x00, 0x00, 0x00, 0x01}
	ambient := time.Unix(0x00011234, 0)

	h, consumed, err := DecodeTimestamp(data, ambient)
	require.NoError(t, err)

	assert.Equal(t, 8, consumed)
	assert.Equal(t, uint16(0x0020), h.Version)
	assert.Equal(t, 2, h.SecondsWidth)
	assert.Equal(t, uint32(0x5678), h.RawSeconds)
	// High-order bits come from ambient, low 16 from the wire.
	assert.Equal(t, uint32(0x00015678), h.Seconds)
	assert.Equal(t, uint32(1), h.Nanoseconds)
}

func TestDecodeTimestampFullSeconds(t *testing.T) {
	// version=0x0010 (4-byte seconds), seconds=0x11223344, ns=0x000F4240
	data := []byte{0x00, 0x10, 0x11, 0x22, 0x33, 0x44, 0x00, 0x0F, 0x42, 0x40}

	// Ambient time must not influence the 4-byte path.
	h, consumed, err := DecodeTimestamp(data, time.Unix(0x7FFFFFFF, 0))
	require.NoError(t, err)

	assert.Equal(t, 10, consumed)
	assert.Equal(t, 4, h.SecondsWidth)
	assert.Equal(t, uint32(0x11223344), h.Seconds)
	assert.Equal(t, uint32(0x11223344), h.RawSeconds)
	assert.Equal(t, uint32(1000000), h.Nanoseconds)
}

func TestDecodeTimestampTooShort(t *testing.T) {
	cases := [][]byte{
		{},
		{0x00},
		{0x00, 0x20},
		{0x00, 0x20, 0x56},
		{0x00, 0x20, 0x56, 0x78, 0x00, 0x00, 0x00},       // ns truncated, width 2
		{0x00, 0x10, 0x11, 0x22, 0x33, 0x44, 0x00, 0x0F}, // ns truncated, width 4
	}
	for _, data := range cases {
		_, _, err := DecodeTimestamp(data, time.Unix(0, 0))
		assert.True(t, errors.Is(err, core.ErrOutOfBounds), "len %d: got %v", len(data), err)
	}
}

func TestTimestampRoundTrip(t *testing.T) {
	cases := []core.TimestampHeader{
		{Version: 0x0020, RawSeconds: 0xABCD, Nanoseconds: 42},
		{Version: 0x0121, RawSeconds: 0xFFFF, Nanoseconds: 999999999},
		{Version: 0x0010, RawSeconds: 0x12345678, Nanoseconds: 0},
		{Version: 0xBEEF, RawSeconds: 0xFFFFFFFF, Nanoseconds: 1},
	}
	for _, in := range cases {
		wire := EncodeTimestamp(in)
		out, consumed, err := DecodeTimestamp(wire, time.Unix(0, 0))
		require.NoError(t, err, "version 0x%04x", in.Version)
		assert.Equal(t, len(wire), consumed)
		assert.Equal(t, in.Version, out.Version)
		assert.Equal(t, in.RawSeconds&0xFFFF, out.RawSeconds&0xFFFF)
		if SecondsWidth(in.Version) == 4 {
			assert.Equal(t, in.RawSeconds, out.RawSeconds)
		}
		assert.Equal(t, in.Nanoseconds, out.Nanoseconds)
	}
}

func TestTimestampHeaderTime(t *testing.T) {
	h := core.TimestampHeader{Seconds: 1700000000, Nanoseconds: 500}
	assert.Equal(t, time.Unix(1700000000, 500).UTC(), h.Time())
}

type recordingInfoSink struct {
	text  string
	fixed bool
}

func (s *recordingInfoSink) SetInfo(text string) { s.text = text }
func (s *recordingInfoSink) FixInfo()            { s.fixed = true }

func TestTimestampDecoderInfoSummary(t *testing.T) {
	data := []byte{0x00, 0x20, 0xAB, 0xCD, 0x00, 0x00, 0x00, 0x01}
	sink := &recordingInfoSink{}

	decoded, err := timestampDecoder{}.Decode(data, &DecodeContext{
		Ambient: time.Unix(0x00010000, 0),
		Info:    sink,
	})
	require.NoError(t, err)

	assert.Equal(t, 8, decoded.Consumed)
	assert.True(t, decoded.Delegate)
	require.NotNil(t, decoded.Timestamp)
	assert.Equal(t, uint32(0x0001ABCD), decoded.Timestamp.Seconds)

	assert.Equal(t, "TapAgg Timestamp: 109517.1 ", sink.text)
	assert.True(t, sink.fixed, "summary must be fenced against later overwrites")
}

func TestTimestampDecoderNilInfoSink(t *testing.T) {
	data := []byte{0x00, 0x20, 0xAB, 0xCD, 0x00, 0x00, 0x00, 0x01}
	_, err := timestampDecoder{}.Decode(data, &DecodeContext{Ambient: time.Unix(0, 0)})
	require.NoError(t, err)
}
