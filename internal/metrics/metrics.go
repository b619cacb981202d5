// Package metrics implements Prometheus metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// FramesTotal counts frames read from a source
	FramesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tapagg_frames_total",
			Help: "Total number of frames read from the capture source",
		},
		[]string{"source"},
	)

	// TaggedFramesTotal counts frames carrying the Arista EtherType
	TaggedFramesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tapagg_tagged_frames_total",
			Help: "Total number of frames carrying an Arista tap-aggregation header",
		},
		[]string{"source"},
	)

	// TimestampHeadersTotal counts decoded TapAgg timestamp sub-headers
	TimestampHeadersTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tapagg_timestamp_headers_total",
			Help: "Total number of decoded TapAgg timestamp sub-headers",
		},
	)

	// UnknownSubtypesTotal counts headers with an unrecognized sub-type
	UnknownSubtypesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tapagg_unknown_subtypes_total",
			Help: "Total number of Arista headers with an unrecognized sub-type",
		},
	)

	// DecodeErrorsTotal counts frames whose header could not be decoded
	DecodeErrorsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tapagg_decode_errors_total",
			Help: "Total number of frames whose tap-aggregation header was truncated or malformed",
		},
	)
)
