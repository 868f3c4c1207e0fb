// Package metrics exposes counters of the save decoding pipeline.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace = "rks"

	// Entry outcomes.
	OutcomeDecoded     = "decoded"
	OutcomePassthrough = "passthrough"
	OutcomeCipherError = "cipher_error"
	OutcomeDecodeError = "decode_error"
)

var (
	decodeEntries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "decode",
			Name:      "entries_total",
			Help:      "The number of archive entries processed. Broken down by entry name and outcome.",
		},
		[]string{"entry", "outcome"},
	)

	chartLoads = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "chart",
			Name:      "loads_total",
			Help:      "The number of chart index loads. Broken down by result.",
		},
		[]string{"result"},
	)

	chartLoadDuration = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "chart",
			Name:      "load_duration_seconds_total",
			Help:      "The total time spent loading the chart index.",
		},
	)
)

var register sync.Once

// Registry holds the collectors once Register has been called.
var Registry *prometheus.Registry

// Register registers the collectors. Only the first call has an effect.
func Register() {
	register.Do(func() {
		Registry = prometheus.NewRegistry()
		Registry.MustRegister(decodeEntries, chartLoads, chartLoadDuration)
	})
}

// Export writes the registry in text format to path.
func Export(path string) error {
	Register()
	return prometheus.WriteToTextfile(path, Registry)
}

// DecodedEntry counts one processed archive entry.
func DecodedEntry(entry, outcome string) {
	decodeEntries.WithLabelValues(entry, outcome).Inc()
}

// ChartLoad counts one chart index load attempt.
func ChartLoad(err error, start time.Time) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	chartLoads.WithLabelValues(result).Inc()
	chartLoadDuration.Add(time.Since(start).Seconds())
}
