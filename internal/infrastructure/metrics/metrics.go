package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "jan"
	subsystem = "voicebot_api"
)

// Voicebot-API Metrics
var (
	// Request counters
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// Request duration histogram
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	// Status polls by the resolved status
	StatusPollsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "status_polls_total",
			Help:      "Public status reads by outcome",
		},
		[]string{"outcome"},
	)

	// Pending to activating transitions by trigger
	ActivationsTriggeredTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "activations_triggered_total",
			Help:      "Pending to activating transitions by trigger",
		},
		[]string{"trigger"},
	)

	ProvisioningTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "provisioning_total",
			Help:      "Assistant provisioning attempts by result",
		},
		[]string{"result"},
	)

	ProvisioningDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "provisioning_duration_seconds",
			Help:      "Assistant provisioning duration in seconds",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 30, 60},
		},
	)

	ActivationQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "activation_queue_depth",
			Help:      "Activation tasks waiting for a worker",
		},
	)

	NavigationEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "navigation_events_total",
			Help:      "Navigation events reported by widgets",
		},
		[]string{"intent", "success"},
	)

	StatusCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "status_cache_total",
			Help:      "Status cache lookups by backend and result",
		},
		[]string{"backend", "result"},
	)

	DocumentUploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "document_uploads_total",
			Help:      "Document uploads by result",
		},
		[]string{"status"},
	)

	SweepRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "activation_sweeps_total",
			Help:      "Activation sweeper runs by result",
		},
		[]string{"result"},
	)
)

// RecordRequest records an HTTP request
func RecordRequest(method, endpoint, status string, durationSec float64) {
	RequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	RequestDuration.WithLabelValues(method, endpoint).Observe(durationSec)
}

// RecordStatusPoll records a public status read.
func RecordStatusPoll(outcome string) {
	StatusPollsTotal.WithLabelValues(outcome).Inc()
}

func RecordActivationTriggered(trigger string, count int) {
	if count <= 0 {
		return
	}
	ActivationsTriggeredTotal.WithLabelValues(trigger).Add(float64(count))
}

// RecordProvisioning records one provisioning run.
func RecordProvisioning(result string, durationSec float64) {
	ProvisioningTotal.WithLabelValues(result).Inc()
	ProvisioningDuration.Observe(durationSec)
}

func RecordNavigationEvent(intent string, success bool) {
	label := "false"
	if success {
		label = "true"
	}
	NavigationEventsTotal.WithLabelValues(intent, label).Inc()
}

func RecordStatusCache(backend string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	StatusCacheTotal.WithLabelValues(backend, result).Inc()
}

func RecordDocumentUpload(status string) {
	DocumentUploadsTotal.WithLabelValues(status).Inc()
}

func RecordSweep(result string) {
	SweepRunsTotal.WithLabelValues(result).Inc()
}
