// Package file reads frames from a pcap capture file.
package file

import (
	"fmt"

	"github.com/google/gopacket/pcap"

	"github.com/rizard/tapagg/internal/core"
)

// Source replays frames from a capture file, preserving the recorded
// capture timestamps.
type Source struct {
	handle *pcap.Handle
	closed bool
}

// Open opens the pcap file at path.
func Open(path string) (*Source, error) {
	handle, err := pcap.OpenOffline(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open pcap file %s: %w", path, err)
	}
	return &Source{handle: handle}, nil
}

// ReadFrame returns the next frame, or io.EOF at the end of the file.
func (s *Source) ReadFrame() (core.RawFrame, error) {
	if s.closed {
		return core.RawFrame{}, core.ErrSourceClosed
	}
	data, ci, err := s.handle.ReadPacketData()
	if err != nil {
		return core.RawFrame{}, err
	}
	return core.RawFrame{
		Data:       data,
		Timestamp:  ci.Timestamp,
		CaptureLen: uint32(ci.CaptureLength),
		OrigLen:    uint32(ci.Length),
	}, nil
}

func (s *Source) Close() error {
	if !s.closed {
		s.closed = true
		s.handle.Close()
	}
	return nil
}
