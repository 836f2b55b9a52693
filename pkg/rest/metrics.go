package rest

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics collects node client request and transaction counters. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	requests     *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	submitted    prometheus.Counter
	transactions *prometheus.CounterVec
}

// NewMetrics registers the client metrics with registerer. A nil registerer
// creates unregistered collectors.
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	factory := promauto.With(registerer)

	return &Metrics{
		requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "coinswap",
				Subsystem: "rest",
				Name:      "requests_total",
				Help:      "Total number of node and faucet requests",
			},
			[]string{"endpoint", "method", "status"},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "coinswap",
				Subsystem: "rest",
				Name:      "request_duration_seconds",
				Help:      "Node and faucet request duration in seconds",
				Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10},
			},
			[]string{"endpoint", "method"},
		),
		submitted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "coinswap",
			Subsystem: "rest",
			Name:      "transactions_submitted_total",
			Help:      "Total number of submitted transactions",
		}),
		transactions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "coinswap",
				Subsystem: "rest",
				Name:      "transactions_committed_total",
				Help:      "Total number of waited-on transactions by outcome",
			},
			[]string{"result"},
		),
	}
}

// ObserveRequest records one HTTP exchange. A zero status means the request
// failed before a response was received.
func (m *Metrics) ObserveRequest(endpoint string, method string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	statusLabel := "error"
	if status > 0 {
		statusLabel = strconv.Itoa(status)
	}
	m.requests.WithLabelValues(endpoint, method, statusLabel).Inc()
	m.duration.WithLabelValues(endpoint, method).Observe(elapsed.Seconds())
}

func (m *Metrics) observeSubmitted() {
	if m == nil {
		return
	}
	m.submitted.Inc()
}

func (m *Metrics) observeCommitted(result string) {
	if m == nil {
		return
	}
	m.transactions.WithLabelValues(result).Inc()
}
