// Package afpacket captures frames from a network interface through an
// AF_PACKET ring buffer.
package afpacket

import (
	"errors"
	"os"
	"time"

	"github.com/google/gopacket/afpacket"

	"github.com/rizard/tapagg/internal/core"
	"github.com/rizard/tapagg/internal/utils"
)

// Config describes a live capture on one interface.
type Config struct {
	Device       string
	SnapLen      int
	BufferSizeMB int
	TimeoutMs    int

	// BpfFilter restricts the ring to matching frames, e.g.
	// "ether proto 0xd28b". Empty captures everything.
	BpfFilter string
}

// Source reads frames from an AF_PACKET TPacket v3 ring.
type Source struct {
	handle *afpacket.TPacket
	closed bool
}

// Open sets up the ring buffer and attaches the BPF filter.
func Open(cfg Config) (*Source, error) {
	frameSize, blockSize, numBlocks, err := ringLayout(cfg.BufferSizeMB, cfg.SnapLen, os.Getpagesize())
	if err != nil {
		return nil, err
	}

	handle, err := afpacket.NewTPacket(
		afpacket.OptInterface(cfg.Device),
		afpacket.OptFrameSize(frameSize),
		afpacket.OptBlockSize(blockSize),
		afpacket.OptNumBlocks(numBlocks),
		afpacket.OptPollTimeout(time.Duration(cfg.TimeoutMs)*time.Millisecond),
		afpacket.SocketRaw,
		afpacket.TPacketVersion3,
	)
	if err != nil {
		return nil, err
	}

	if cfg.BpfFilter != "" {
		rawBpf, err := utils.CompileBpf(cfg.BpfFilter, cfg.SnapLen)
		if err != nil {
			handle.Close()
			return nil, err
		}
		if err := handle.SetBPF(rawBpf); err != nil {
			handle.Close()
			return nil, err
		}
	}

	return &Source{handle: handle}, nil
}

// ReadFrame blocks until the next frame arrives or the poll timeout
// elapses.
func (s *Source) ReadFrame() (core.RawFrame, error) {
	if s.closed {
		return core.RawFrame{}, core.ErrSourceClosed
	}
	data, ci, err := s.handle.ReadPacketData()
	if err != nil {
		if errors.Is(err, afpacket.ErrTimeout) {
			return core.RawFrame{}, core.ErrReadTimeout
		}
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
