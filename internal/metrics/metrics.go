// Package metrics defines and registers the Prometheus metrics exposed by
// long-running client modes (the watch dashboard). It is the single source
// of truth for metric names, labels, and help strings.
//
// Metrics register with the default registry at init; the watch command
// decides whether an exposition endpoint is served at all.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "civicportal"

// StreamFramesTotal counts frames read from the push channel.
// Label:
//   - result: "ok" (decoded into a known event), "decode_error", or
//     "unknown_type"
var StreamFramesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stream_frames_total",
		Help:      "Total number of frames read from the live event stream, by decode result.",
	},
	[]string{"result"},
)

// EventsMergedTotal counts live events merged into the report mirror.
// Labels:
//   - type: report_created, report_updated, report_deleted
//   - result: "applied" or "duplicate" (created event for a known id)
var EventsMergedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_merged_total",
		Help:      "Total number of live events merged into the local report collection.",
	},
	[]string{"type", "result"},
)

// StreamDisconnectsTotal counts stream terminations. There is no automatic
// reconnect, so each increment corresponds to live updates stopping.
var StreamDisconnectsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stream_disconnects_total",
		Help:      "Total number of times the live event stream ended.",
	},
)
