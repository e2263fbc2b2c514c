// Package metrics holds the Prometheus collectors of the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	UploadRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ser_upload_requests_total",
		Help: "Upload requests by outcome and file extension.",
	}, []string{"status", "ext"})

	StageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ser_stage_duration_seconds",
		Help:    "Time spent per pipeline stage.",
		Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60, 120, 300},
	}, []string{"stage"})

	AudioDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "ser_audio_duration_seconds",
		Help:    "Duration of analyzed audio.",
		Buckets: prometheus.ExponentialBuckets(1, 2, 12),
	})

	Segments = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ser_segments_total",
		Help: "Transcript segments classified.",
	})
)
