// Package core defines core data structures with zero external dependencies.
package core

import "time"

// RawFrame is one captured Ethernet frame, zero-copy reference into the
// source's buffer. Timestamp is the host capture clock; on the 2-byte
// seconds path it supplies the high-order bits of the reconstructed time.
type RawFrame struct {
	Data       []byte
	Timestamp  time.Time
	CaptureLen uint32
	OrigLen    uint32
}
