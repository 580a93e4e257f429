// Package metrics implements Prometheus metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// FramesTotal counts frames that reached the admission pipeline, by verdict.
	FramesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "strix_ingress_frames_total",
			Help: "Total number of frames processed by the admission pipeline",
		},
		[]string{"verdict"},
	)

	// DiscardsTotal counts discarded frames by reason.
	DiscardsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "strix_ingress_discards_total",
			Help: "Total number of frames discarded by the admission pipeline",
		},
		[]string{"reason"},
	)

	// OptionsStrippedTotal counts frames whose IP options were removed in place.
	OptionsStrippedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "strix_ingress_options_stripped_total",
			Help: "Total number of frames whose IP options were stripped",
		},
	)

	// DiagnosticsSuppressedTotal counts rate-limited diagnostic messages.
	DiagnosticsSuppressedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "strix_ingress_diagnostics_suppressed_total",
			Help: "Total number of rejection diagnostics suppressed by rate limiting",
		},
	)

	// CaptureFramesTotal counts frames delivered by the capture front-end.
	CaptureFramesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "strix_capture_frames_total",
			Help: "Total number of frames delivered by the capture source",
		},
		[]string{"source"},
	)

	// CaptureOversizeTotal counts frames too large for the buffer pool.
	CaptureOversizeTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "strix_capture_oversize_total",
			Help: "Total number of frames dropped because they exceed the pool buffer size",
		},
	)
)
