package metrics

import (
	"github.com/ledvelvet/doorcheck/internal/domain/model"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(
		checkinsTotal,
		doorScanLatencyMs,
	)
}

var (
	checkinsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "doorcheck_checkins_total",
			Help: "Door decisions by result, reason and resolution method.",
		},
		[]string{"result", "reason", "method"},
	)

	doorScanLatencyMs = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "doorcheck_scan_latency_ms",
			Help:    "End-to-end door scan latency distribution in milliseconds.",
			Buckets: []float64{10, 25, 50, 100, 200, 400, 800, 1600, 3000, 5000},
		},
	)
)

func IncCheckin(result model.CheckinResult, reason model.CheckinReason, method model.CheckinMethod) {
	checkinsTotal.WithLabelValues(string(result), string(reason), string(method)).Inc()
}

func ObserveScanLatency(ms float64) {
	doorScanLatencyMs.Observe(ms)
}
