package cmd

import (
	"context"
	"errors"
	"io"

	"github.com/rizard/tapagg/internal/core"
	"github.com/rizard/tapagg/internal/core/decoder"
	"github.com/rizard/tapagg/internal/log"
	"github.com/rizard/tapagg/internal/metrics"
	"github.com/rizard/tapagg/internal/sink/console"
	"github.com/rizard/tapagg/internal/source"
)

type runStats struct {
	frames  int
	tagged  int
	unknown int
	errors  int
}

// dissectLoop pumps frames from src through the dissector until the
// source drains or ctx is cancelled. label tags the metrics series.
func dissectLoop(ctx context.Context, src source.Source, label string, out *console.Sink) (runStats, error) {
	d := decoder.NewDissector(decoder.NewRegistry())
	logger := log.GetLogger().WithField("source", label)

	var stats runStats
	for {
		select {
		case <-ctx.Done():
			return stats, nil
		default:
		}

		frame, err := src.ReadFrame()
		switch {
		case errors.Is(err, io.EOF):
			return stats, nil
		case errors.Is(err, core.ErrReadTimeout):
			continue
		case err != nil:
			return stats, err
		}

		stats.frames++
		metrics.FramesTotal.WithLabelValues(label).Inc()

		offset, ok, err := decoder.FindAristaHeader(frame.Data)
		if err != nil {
			stats.errors++
			metrics.DecodeErrorsTotal.Inc()
			logger.WithError(err).Debugf("frame %d: runt ethernet header", stats.frames)
			continue
		}
		if !ok {
			continue
		}

		stats.tagged++
		metrics.TaggedFramesTotal.WithLabelValues(label).Inc()

		res, err := d.Dissect(frame.Data[offset:], frame.Timestamp)
		if err != nil {
			stats.errors++
			metrics.DecodeErrorsTotal.Inc()
			logger.WithError(err).Warnf("frame %d: truncated tapagg header", stats.frames)
			continue
		}
		if !res.Handled {
			continue
		}

		if res.Timestamp != nil {
			metrics.TimestampHeadersTotal.Inc()
		} else {
			stats.unknown++
			metrics.UnknownSubtypesTotal.Inc()
		}

		if err := out.Send(stats.frames, res); err != nil {
			return stats, err
		}
	}
}
