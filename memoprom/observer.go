// Package memoprom exports memo cache operations as Prometheus metrics.
package memoprom

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/goforj/memo"
)

// DefaultNamespace prefixes metric names when none is given.
const DefaultNamespace = "memo"

const (
	resultHit   = "hit"
	resultMiss  = "miss"
	resultError = "error"
)

// Observer implements memo.Observer by recording Prometheus metrics.
type Observer struct {
	// Operations counts completed operations by op, driver and result
	// (hit, miss or error).
	Operations *prometheus.CounterVec

	// Duration observes operation latency, compute time included.
	Duration *prometheus.HistogramVec
}

var _ memo.Observer = (*Observer)(nil)

// NewObserver registers the cache metrics with reg under namespace.
// A nil reg uses prometheus.DefaultRegisterer.
func NewObserver(reg prometheus.Registerer, namespace string) (*Observer, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	ops, dur := metricOpts(namespace)
	o := &Observer{
		Operations: prometheus.NewCounterVec(ops, operationLabels),
		Duration:   prometheus.NewHistogramVec(dur, durationLabels),
	}
	for _, c := range []prometheus.Collector{o.Operations, o.Duration} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register memo metrics: %w", err)
		}
	}
	return o, nil
}

// MustNewObserver is like NewObserver but registers through promauto and
// panics on registration errors.
func MustNewObserver(reg prometheus.Registerer, namespace string) *Observer {
	ops, dur := metricOpts(namespace)
	factory := promauto.With(reg)
	return &Observer{
		Operations: factory.NewCounterVec(ops, operationLabels),
		Duration:   factory.NewHistogramVec(dur, durationLabels),
	}
}

var (
	operationLabels = []string{"op", "driver", "result"}
	durationLabels  = []string{"op", "driver"}
)

func metricOpts(namespace string) (prometheus.CounterOpts, prometheus.HistogramOpts) {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Total number of memo cache operations",
		}, prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Memo cache operation latency in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
		}
}

// OnMemoOp implements memo.Observer. Keys are never used as label values.
func (o *Observer) OnMemoOp(_ context.Context, op string, _ any, hit bool, err error, dur time.Duration, driver memo.Driver) {
	result := resultMiss
	switch {
	case err != nil:
		result = resultError
	case hit:
		result = resultHit
	}
	o.Operations.WithLabelValues(op, string(driver), result).Inc()
	o.Duration.WithLabelValues(op, string(driver)).Observe(dur.Seconds())
}
