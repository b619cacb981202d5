// Package source defines the frame source contract shared by the file
// and live capture backends.
package source

import "github.com/rizard/tapagg/internal/core"

// Source yields captured Ethernet frames one at a time. ReadFrame
// returns io.EOF when a capture file is exhausted and
// core.ErrSourceClosed after Close.
type Source interface {
	ReadFrame() (core.RawFrame, error)
	Close() error
}
