package metrics

import (
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal *prometheus.CounterVec
	eventsTotal       *prometheus.CounterVec
	rejectionsTotal   *prometheus.CounterVec
	persistFailures   prometheus.Counter
	pollStatus        prometheus.Gauge
	registerOnce      sync.Once
)

// Register initializes Prometheus metrics on the default registry.
func Register() {
	registerOnce.Do(func() {
		httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "polling",
			Name:      "http_requests_total",
			Help:      "Total HTTP requests processed by the polling API.",
		}, []string{"method", "path", "status"})
		eventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "polling",
			Name:      "events_total",
			Help:      "Poll domain events delivered by the relay.",
		}, []string{"type"})
		rejectionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "polling",
			Name:      "rejections_total",
			Help:      "Poll operations rejected by the engine.",
		}, []string{"operation", "code"})
		persistFailures = promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "polling",
			Name:      "persist_failures_total",
			Help:      "Poll state snapshots that could not be saved.",
		})
		pollStatus = promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: "polling",
			Name:      "poll_status",
			Help:      "Current poll status: 0 not started, 1 active, 2 ended.",
		})
	})
}

// IncRequest increments the http_requests_total counter with the given labels.
func IncRequest(method, path string, status int) {
	if httpRequestsTotal == nil {
		return
	}
	httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
}

func IncEvent(eventType string) {
	if eventsTotal == nil {
		return
	}
	eventsTotal.WithLabelValues(eventType).Inc()
}

func IncRejection(operation, code string) {
	if rejectionsTotal == nil {
		return
	}
	rejectionsTotal.WithLabelValues(operation, code).Inc()
}

func IncPersistFailure() {
	if persistFailures == nil {
		return
	}
	persistFailures.Inc()
}

func SetPollStatus(status int) {
	if pollStatus == nil {
		return
	}
	pollStatus.Set(float64(status))
}
