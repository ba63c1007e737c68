package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Each file in this package queues its collectors from init; MustRegister
// flushes the queue into the default registry once, when cmd/app is about
// to expose /metrics.
var (
	registerOnce sync.Once
	pending      []prometheus.Collector
)

func register(cs ...prometheus.Collector) {
	pending = append(pending, cs...)
}

func MustRegister() {
	registerOnce.Do(func() {
		if len(pending) > 0 {
			prometheus.MustRegister(pending...)
		}
	})
}
