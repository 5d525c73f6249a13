// Package metrics exposes Prometheus collectors for syncs and streaming.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// SyncRunsTotal counts finished sync runs by kind and status.
	SyncRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "driveflix_sync_runs_total",
		Help: "Finished catalog sync runs.",
	}, []string{"kind", "status"})

	// SyncItemsTotal counts reconciled items by kind and result (added, updated, skipped).
	SyncItemsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "driveflix_sync_items_total",
		Help: "Items reconciled by catalog syncs.",
	}, []string{"kind", "result"})

	SyncDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "driveflix_sync_duration_seconds",
		Help:    "Wall time of catalog sync runs.",
		Buckets: []float64{0.5, 1, 5, 15, 30, 60, 120, 300, 600},
	}, []string{"kind"})

	// StreamsTotal counts video responses by delivery mode (passthrough, transcode).
	StreamsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "driveflix_streams_total",
		Help: "Video stream requests by delivery mode.",
	}, []string{"mode"})

	TranscodesActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "driveflix_transcodes_active",
		Help: "Transcoding processes currently running.",
	})

	// TranscodeExitsTotal counts finished transcodes by result
	// (ok, client_gone, source_error, exit_error, spawn_error).
	TranscodeExitsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "driveflix_transcode_exits_total",
		Help: "Finished transcoding processes by result.",
	}, []string{"result"})

	SubtitlesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "driveflix_subtitles_total",
		Help: "Subtitle responses by detected source charset.",
	}, []string{"charset"})

	EventsDroppedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "driveflix_events_dropped_total",
		Help: "Events not delivered because a subscriber buffer was full.",
	}, []string{"type"})
)

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
