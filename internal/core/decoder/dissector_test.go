package decoder

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tableResolver is a minimal externally-owned dissector table.
type tableResolver map[uint16]PayloadHandler

func (r tableResolver) Resolve(etherType uint16) PayloadHandler {
	return r[etherType]
}

func TestDissectTimestampWithIPv4Delegation(t *testing.T) {
	// subtype=0x0001, version=0x0020, seconds=0xABCD, ns=1, next=0x0800
	frame := []byte{
		0x00, 0x01, // subtype: TapAgg timestamp
		0x00, 0x20, // version: 2-byte seconds
		0xAB, 0xCD, // seconds
		0x00, 0x00, 0x00, 0x01, // nanoseconds
		0x08, 0x00, // next EtherType: IPv4
		0x45, 0x00, // resumed payload (start of IP header)
	}

	var gotEtherType uint16
	var gotPayload []byte
	resolver := tableResolver{
		0x0800: func(etherType uint16, payload []byte) error {
			gotEtherType = etherType
			gotPayload = payload
			return nil
		},
	}

	d := NewDissector(NewRegistry(), WithResolver(resolver))
	res, err := d.Dissect(frame, time.Unix(0x00010000, 0))
	require.NoError(t, err)

	assert.True(t, res.Handled)
	assert.Equal(t, uint16(0x0001), res.Subtype)
	require.NotNil(t, res.Timestamp)
	assert.Equal(t, uint32(0x0001ABCD), res.Timestamp.Seconds)
	assert.Equal(t, uint32(1), res.Timestamp.Nanoseconds)

	assert.True(t, res.HasNextEtherType)
	assert.Equal(t, uint16(0x0800), res.NextEtherType)
	assert.Equal(t, 12, res.Consumed)

	assert.Equal(t, uint16(0x0800), gotEtherType)
	assert.Equal(t, []byte{0x45, 0x00}, gotPayload)
}

func TestDissectFullWidthConsumed(t *testing.T) {
	// version 0x0010 carries 4-byte seconds: 2+2+4+4+2 = 14 through the
	// following EtherType.
	frame := []byte{
		0x00, 0x01,
		0x00, 0x10,
		0x11, 0x22, 0x33, 0x44,
		0x00, 0x00, 0x00, 0x02,
		0x86, 0xDD,
	}

	d := NewDissector(NewRegistry())
	res, err := d.Dissect(frame, time.Unix(0, 0))
	require.NoError(t, err)

	require.NotNil(t, res.Timestamp)
	assert.Equal(t, uint32(0x11223344), res.Timestamp.Seconds)
	assert.True(t, res.HasNextEtherType)
	assert.Equal(t, uint16(0x86DD), res.NextEtherType)
	assert.Equal(t, 14, res.Consumed)
	assert.Empty(t, res.Payload)
}

func TestDissectFallbackHandler(t *testing.T) {
	frame := []byte{
		0x00, 0x01,
		0x00, 0x20,
		0xAB, 0xCD,
		0x00, 0x00, 0x00, 0x01,
		0x88, 0xB5, // EtherType with no registered parser
		0xCA, 0xFE,
	}

	var fallbackType uint16
	d := NewDissector(NewRegistry(),
		WithResolver(tableResolver{}),
		WithFallbackHandler(func(etherType uint16, payload []byte) error {
			fallbackType = etherType
			return nil
		}),
	)

	res, err := d.Dissect(frame, time.Unix(0, 0))
	require.NoError(t, err)
	assert.Equal(t, uint16(0x88B5), fallbackType)
	assert.Equal(t, []byte{0xCA, 0xFE}, res.Payload)
}

func TestDissectEmptyFrame(t *testing.T) {
	d := NewDissector(NewRegistry())
	res, err := d.Dissect(nil, time.Unix(0, 0))
	require.NoError(t, err)

	assert.False(t, res.Handled)
	assert.Equal(t, 0, res.Consumed)
}

func TestDissectUnknownSubtype(t *testing.T) {
	// Unknown sub-type with trailing bytes that must not be interpreted
	// as a following EtherType.
	frame := []byte{0x00, 0x02, 0x08, 0x00, 0x45, 0x00}

	delegated := false
	d := NewDissector(NewRegistry(), WithFallbackHandler(func(uint16, []byte) error {
		delegated = true
		return nil
	}))

	res, err := d.Dissect(frame, time.Unix(0, 0))
	require.NoError(t, err)

	assert.True(t, res.Handled)
	assert.Equal(t, uint16(0x0002), res.Subtype)
	assert.Equal(t, 2, res.Consumed)
	assert.False(t, res.HasNextEtherType)
	assert.False(t, delegated, "unknown sub-type must not delegate")
}

func TestDissectUnknownSubtypeBareMarker(t *testing.T) {
	d := NewDissector(NewRegistry())
	res, err := d.Dissect([]byte{0x00, 0x02}, time.Unix(0, 0))
	require.NoError(t, err)

	assert.True(t, res.Handled)
	assert.Equal(t, 2, res.Consumed)
	assert.False(t, res.HasNextEtherType)
}

func TestDissectNoRoomForNextEtherType(t *testing.T) {
	// Header decodes fine but only one byte follows: terminal, not an error.
	frame := []byte{
		0x00, 0x01,
		0x00, 0x20,
		0xAB, 0xCD,
		0x00, 0x00, 0x00, 0x01,
		0x08, // truncated EtherType
	}

	delegated := false
	d := NewDissector(NewRegistry(), WithFallbackHandler(func(uint16, []byte) error {
		delegated = true
		return nil
	}))

	res, err := d.Dissect(frame, time.Unix(0, 0))
	require.NoError(t, err)

	assert.True(t, res.Handled)
	require.NotNil(t, res.Timestamp)
	assert.False(t, res.HasNextEtherType)
	assert.Equal(t, 10, res.Consumed)
	assert.False(t, delegated)
}

func TestDissectTruncatedTimestamp(t *testing.T) {
	frame := []byte{0x00, 0x01, 0x00, 0x20, 0xAB}

	d := NewDissector(NewRegistry())
	_, err := d.Dissect(frame, time.Unix(0, 0))
	assert.Error(t, err)
}

func TestDissectFieldRecords(t *testing.T) {
	frame := []byte{
		0x00, 0x01,
		0x00, 0x20,
		0xAB, 0xCD,
		0x00, 0x00, 0x00, 0x01,
	}

	d := NewDissector(NewRegistry())
	res, err := d.Dissect(frame, time.Unix(0x00010000, 0))
	require.NoError(t, err)

	require.Len(t, res.Fields, 3)
	assert.Equal(t, "subtype", res.Fields[0].Name)
	assert.Equal(t, 0, res.Fields[0].Offset)
	assert.Equal(t, 2, res.Fields[0].Length)
	assert.Equal(t, uint64(0x0001), res.Fields[0].Value)

	assert.Equal(t, "version", res.Fields[1].Name)
	assert.Equal(t, 2, res.Fields[1].Offset)
	assert.Equal(t, uint64(0x0020), res.Fields[1].Value)

	assert.Equal(t, "timestamp", res.Fields[2].Name)
	assert.Equal(t, 4, res.Fields[2].Offset)
	assert.Equal(t, 6, res.Fields[2].Length)
	assert.Equal(t, uint64(0x0001ABCD), res.Fields[2].Value)
}
