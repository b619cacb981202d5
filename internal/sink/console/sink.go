// Package console prints dissection results to a writer, one frame per
// line plus an indented record per decoded field.
package console

import (
	"fmt"
	"io"
	"time"

	"github.com/rizard/tapagg/internal/core"
)

type Sink struct {
	w       io.Writer
	verbose bool
}

// NewSink writes to w. With verbose set, individual field records are
// printed under each frame line.
func NewSink(w io.Writer, verbose bool) *Sink {
	return &Sink{w: w, verbose: verbose}
}

// Send prints one dissected frame. index is the 1-based frame number in
// the capture.
func (s *Sink) Send(index int, res core.DissectResult) error {
	var err error
	switch {
	case res.Timestamp != nil:
		next := "none"
		if res.HasNextEtherType {
			next = fmt.Sprintf("0x%04x", res.NextEtherType)
		}
		_, err = fmt.Fprintf(s.w, "frame %d: tapagg timestamp %s (version 0x%04x, width %d), next ethertype %s\n",
			index, res.Timestamp.Time().Format(time.RFC3339Nano), res.Timestamp.Version,
			res.Timestamp.SecondsWidth, next)
	default:
		_, err = fmt.Fprintf(s.w, "frame %d: unknown subtype 0x%04x, %d bytes consumed\n",
			index, res.Subtype, res.Consumed)
	}
	if err != nil {
		return err
	}

	if s.verbose {
		for _, f := range res.Fields {
			if _, err := fmt.Fprintf(s.w, "  %-10s offset=%d len=%d value=0x%x\n",
				f.Name, f.Offset, f.Length, f.Value); err != nil {
				return err
			}
		}
	}
	return nil
}
