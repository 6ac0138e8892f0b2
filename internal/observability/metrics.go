package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	framesReceived = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mavlink",
			Subsystem: "link",
			Name:      "frames_received_total",
			Help:      "Frames accepted and decoded, by message.",
		},
		[]string{"link", "version", "message"},
	)
	framesDropped = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mavlink",
			Subsystem: "link",
			Name:      "frames_dropped_total",
			Help:      "Frames discarded before delivery, by reason.",
		},
		[]string{"link", "reason"},
	)
	framesSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mavlink",
			Subsystem: "link",
			Name:      "frames_sent_total",
			Help:      "Frames written to the transport, by message.",
		},
		[]string{"link", "version", "message"},
	)
	relayPublishes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mavlink",
			Subsystem: "relay",
			Name:      "publishes_total",
			Help:      "Uplink publishes to the message bus.",
		},
		[]string{"link", "success"},
	)
	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mavlink",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests.",
		},
		[]string{"component", "method", "route", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "mavlink",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"component", "method", "route", "status"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(framesReceived, framesDropped, framesSent, relayPublishes, httpRequests, httpDuration)
	})
}

func RecordFrameReceived(link, version, message string) {
	RegisterMetrics()
	framesReceived.WithLabelValues(link, version, message).Inc()
}

func RecordFrameDropped(link, reason string) {
	RegisterMetrics()
	framesDropped.WithLabelValues(link, reason).Inc()
}

func RecordFrameSent(link, version, message string) {
	RegisterMetrics()
	framesSent.WithLabelValues(link, version, message).Inc()
}

func RecordRelayPublish(link string, success bool) {
	RegisterMetrics()
	relayPublishes.WithLabelValues(link, strconv.FormatBool(success)).Inc()
}

func RecordHTTPRequest(component, method, route string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(component, method, route, statusLabel).Inc()
	httpDuration.WithLabelValues(component, method, route, statusLabel).Observe(duration.Seconds())
}
