package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "runecheck",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests.",
		},
		[]string{"node", "method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "runecheck",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"node", "method", "path", "status"},
	)
	decodeRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "runecheck",
			Subsystem: "decode",
			Name:      "requests_total",
			Help:      "Decode calls by input source and result.",
		},
		[]string{"source", "result"},
	)
	decodeErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "runecheck",
			Subsystem: "decode",
			Name:      "errors_total",
			Help:      "Rejected inputs by reason.",
		},
		[]string{"reason"},
	)
	decodeBytes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "runecheck",
			Subsystem: "decode",
			Name:      "bytes_total",
			Help:      "Input bytes examined.",
		},
		[]string{"source"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(httpRequests, httpDuration, decodeRequests, decodeErrors, decodeBytes)
	})
}

func RecordHTTPRequest(node, method, path string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(node, method, path, statusLabel).Inc()
	httpDuration.WithLabelValues(node, method, path, statusLabel).Observe(duration.Seconds())
}

// RecordDecode counts one decode call. reason is empty on success.
func RecordDecode(source string, size int, reason string) {
	RegisterMetrics()
	decodeBytes.WithLabelValues(source).Add(float64(size))
	if reason == "" {
		decodeRequests.WithLabelValues(source, "ok").Inc()
		return
	}
	decodeRequests.WithLabelValues(source, "invalid").Inc()
	decodeErrors.WithLabelValues(reason).Inc()
}
