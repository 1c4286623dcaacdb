package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	gatewayFrames = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gale",
			Subsystem: "gateway",
			Name:      "frames_received_total",
			Help:      "Inbound gateway frames by decoded type.",
		},
		[]string{"type"},
	)
	gatewayDecodeFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "gale",
			Subsystem: "gateway",
			Name:      "decode_failures_total",
			Help:      "Inbound payloads dropped because they failed to decode.",
		},
	)
	gatewayCommands = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gale",
			Subsystem: "gateway",
			Name:      "commands_sent_total",
			Help:      "Outbound gateway commands by kind.",
		},
		[]string{"command"},
	)
	gatewayReconnects = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gale",
			Subsystem: "gateway",
			Name:      "reconnects_total",
			Help:      "Connection reopen requests by triggering reason.",
		},
		[]string{"reason"},
	)
	heartbeatRTT = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "gale",
			Subsystem: "gateway",
			Name:      "heartbeat_rtt_seconds",
			Help:      "Round trip between a heartbeat send and its ack.",
			Buckets:   prometheus.DefBuckets,
		},
	)
	sessionLastSeq = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "gale",
			Subsystem: "session",
			Name:      "last_sequence",
			Help:      "Highest dispatch sequence observed on the session.",
		},
	)
	adminRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gale",
			Subsystem: "admin_http",
			Name:      "requests_total",
			Help:      "Total admin HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)
	adminDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "gale",
			Subsystem: "admin_http",
			Name:      "request_duration_seconds",
			Help:      "Admin HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			gatewayFrames, gatewayDecodeFailures, gatewayCommands,
			gatewayReconnects, heartbeatRTT, sessionLastSeq,
			adminRequests, adminDuration,
		)
	})
}

func RecordFrame(frameType string) {
	RegisterMetrics()
	gatewayFrames.WithLabelValues(frameType).Inc()
}

func RecordDecodeFailure() {
	RegisterMetrics()
	gatewayDecodeFailures.Inc()
}

func RecordCommand(command string) {
	RegisterMetrics()
	gatewayCommands.WithLabelValues(command).Inc()
}

func RecordReconnect(reason string) {
	RegisterMetrics()
	gatewayReconnects.WithLabelValues(reason).Inc()
}

func RecordHeartbeatRTT(rtt time.Duration) {
	RegisterMetrics()
	heartbeatRTT.Observe(rtt.Seconds())
}

func SetLastSequence(seq int64) {
	RegisterMetrics()
	sessionLastSeq.Set(float64(seq))
}

func RecordAdminRequest(method, path string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	adminRequests.WithLabelValues(method, path, statusLabel).Inc()
	adminDuration.WithLabelValues(method, path, statusLabel).Observe(duration.Seconds())
}
