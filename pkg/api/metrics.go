package api

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	outcomeOK       = "ok"
	outcomeInvalid  = "invalid"
	outcomeNotFound = "not_found"
	outcomeError    = "error"
)

// Operation names used as metric labels.
const (
	opQuery         = "query"
	opUpdate        = "update"
	opCreateTable   = "create_table"
	opDropTable     = "drop_table"
	opListTables    = "list_tables"
	opDescribeTable = "describe_table"
	opDescribeAll   = "describe_all_tables"
)

var latencyBuckets = []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

type metrics struct {
	registry   *prometheus.Registry
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

func newMetrics(pool *sql.DB) *metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	registry.MustRegister(collectors.NewGoCollector())
	if pool != nil {
		registry.MustRegister(collectors.NewDBStatsCollector(pool, "sqladmin"))
	}

	m := &metrics{
		registry: registry,
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sqladmin",
			Name:      "operations_total",
			Help:      "Admin operations by outcome.",
		}, []string{"operation", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "sqladmin",
			Name:      "operation_duration_seconds",
			Help:      "Admin operation latency, including rejected requests.",
			Buckets:   latencyBuckets,
		}, []string{"operation"}),
	}

	registry.MustRegister(m.operations, m.duration)
	return m
}

func (m *metrics) observe(operation, outcome string, start time.Time) {
	m.operations.WithLabelValues(operation, outcome).Inc()
	m.duration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
