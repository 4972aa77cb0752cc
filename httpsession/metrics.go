package httpsession

import (
	"errors"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// sessionMetrics counts requests by method and status, synthetic statuses
// included.
type sessionMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func newSessionMetrics(registerer prometheus.Registerer) (*sessionMetrics, error) {
	if registerer == nil {
		return nil, nil // Metrics disabled
	}
	m := &sessionMetrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rosrs",
			Subsystem: "session",
			Name:      "requests_total",
			Help:      "Total requests issued, by method and status code",
		}, []string{"method", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "rosrs",
			Subsystem: "session",
			Name:      "request_duration_seconds",
			Help:      "Request round-trip time in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
	}
	var err error
	if m.requests, err = register(registerer, m.requests); err != nil {
		return nil, err
	}
	if m.duration, err = register(registerer, m.duration); err != nil {
		return nil, err
	}
	return m, nil
}

// register adds c to the registry, reusing an identical collector that a
// previous session already registered.
func register[C prometheus.Collector](registerer prometheus.Registerer, c C) (C, error) {
	if err := registerer.Register(c); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

func (m *sessionMetrics) observe(method string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, strconv.Itoa(status)).Inc()
	m.duration.WithLabelValues(method).Observe(elapsed.Seconds())
}
