// Package decoder implements Arista tap-aggregation header decoding.
package decoder

import (
	"encoding/binary"

	"github.com/rizard/tapagg/internal/core"
)

const (
	ethernetHeaderLen = 14
	vlanHeaderLen     = 4

	etherTypeVLAN = 0x8100
	etherTypeQinQ = 0x88A8
)

// FindAristaHeader walks the outer Ethernet header of a frame, skipping
// VLAN tags (including QinQ nesting), and reports the byte offset at
// which the Arista tap-aggregation header starts. ok is false when the
// frame carries some other EtherType; that frame is simply not ours.
func FindAristaHeader(data []byte) (offset int, ok bool, err error) {
	if len(data) < ethernetHeaderLen {
		return 0, false, core.ErrOutOfBounds
	}

	etherType := binary.BigEndian.Uint16(data[12:14])
	offset = ethernetHeaderLen

	for etherType == etherTypeVLAN || etherType == etherTypeQinQ {
		if len(data) < offset+vlanHeaderLen {
			return 0, false, core.ErrOutOfBounds
		}
		etherType = binary.BigEndian.Uint16(data[offset+2 : offset+4])
		offset += vlanHeaderLen
	}

	if etherType != core.EtherTypeArista {
		return 0, false, nil
	}
	return offset, true, nil
}
