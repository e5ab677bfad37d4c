package server

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/abhisek/worksheetz/internal/validate"
)

// Metrics holds the collectors updated by the validate endpoint.
type Metrics struct {
	validations *prometheus.CounterVec
	issues      *prometheus.CounterVec
	batchSize   prometheus.Histogram
}

// NewMetrics creates the collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		validations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "worksheetz_validations_total",
			Help: "Validated batches by subject and verdict.",
		}, []string{"subject", "valid"}),
		issues: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "worksheetz_issues_total",
			Help: "Reported issues by code.",
		}, []string{"code"}),
		batchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "worksheetz_batch_size",
			Help:    "Number of tasks per validated batch.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 8),
		}),
	}
	reg.MustRegister(m.validations, m.issues, m.batchSize)
	return m
}

// Observe records one verdict.
func (m *Metrics) Observe(subject validate.Subject, taskCount int, res *validate.Result) {
	m.validations.WithLabelValues(string(subject), strconv.FormatBool(res.Valid)).Inc()
	m.batchSize.Observe(float64(taskCount))
	for code, n := range res.CountByCode() {
		m.issues.WithLabelValues(string(code)).Add(float64(n))
	}
}
