package metrics

import (
	"errors"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kirillkom/retail-insights/internal/core/domain"
)

// BackendMetrics records outbound model-service calls and dashboard action outcomes.
type BackendMetrics struct {
	service string

	callTotal      *prometheus.CounterVec
	callDuration   *prometheus.HistogramVec
	actionTotal    *prometheus.CounterVec
	actionDuration *prometheus.HistogramVec
}

func NewBackendMetrics(service string, registerer prometheus.Registerer) *BackendMetrics {
	callTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "retail",
			Subsystem: "backend",
			Name:      "calls_total",
			Help:      "Total calls to model services by outcome.",
		},
		[]string{"service", "backend", "operation", "status", "result"},
	)
	callDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "retail",
			Subsystem: "backend",
			Name:      "call_duration_seconds",
			Help:      "Model service call duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"service", "backend", "operation"},
	)
	actionTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "retail",
			Subsystem: "dashboard",
			Name:      "actions_total",
			Help:      "Total dashboard actions by final phase and error class.",
		},
		[]string{"service", "action", "phase", "error_class"},
	)
	actionDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "retail",
			Subsystem: "dashboard",
			Name:      "action_duration_seconds",
			Help:      "Dashboard action duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "action"},
	)

	registerer.MustRegister(callTotal, callDuration, actionTotal, actionDuration)

	return &BackendMetrics{
		service:        service,
		callTotal:      callTotal,
		callDuration:   callDuration,
		actionTotal:    actionTotal,
		actionDuration: actionDuration,
	}
}

func (m *BackendMetrics) ObserveBackendCall(backend, operation string, status int, err error, duration time.Duration) {
	result := "success"
	if err != nil {
		result = "error"
		var apiErr *domain.APIError
		if errors.As(err, &apiErr) && apiErr.IsTransport() {
			result = "transport_error"
		}
	}
	statusLabel := "none"
	if status > 0 {
		statusLabel = strconv.Itoa(status)
	}

	m.callTotal.WithLabelValues(m.service, backend, operation, statusLabel, result).Inc()
	m.callDuration.WithLabelValues(m.service, backend, operation).Observe(duration.Seconds())
}

func (m *BackendMetrics) ObserveAction(action string, phase domain.Phase, class domain.ErrorClass, duration time.Duration) {
	classLabel := string(class)
	if classLabel == "" {
		classLabel = "none"
	}
	m.actionTotal.WithLabelValues(m.service, action, string(phase), classLabel).Inc()
	m.actionDuration.WithLabelValues(m.service, action).Observe(duration.Seconds())
}
