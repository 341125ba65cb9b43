package monitoring

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type nodePromMetrics struct {
	nodeUpUnixSeconds prometheus.Gauge
	operationCount    *prometheus.CounterVec
	rejectedOpCount   *prometheus.CounterVec
	executeBatchSize  prometheus.Histogram
	accountsCreated   prometheus.Counter
	accountsLocked    prometheus.Counter
	panicCount        prometheus.Counter
}

func newNodePromMetrics() *nodePromMetrics {
	return &nodePromMetrics{
		nodeUpUnixSeconds: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "tba_node_up_timestamp_unix_seconds",
				Help: "Unix timestamp of the node",
			},
		),
		operationCount: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tba_node_operation_total",
				Help: "Number of account operations served, by method",
			},
			[]string{"method"},
		),
		rejectedOpCount: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tba_node_rejected_operation_total",
				Help: "Number of rejected account operations, by error code",
			},
			[]string{"reason"},
		),
		executeBatchSize: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "tba_node_execute_batch_size",
				Help:    "Number of calls per execute batch",
				Buckets: []float64{1, 2, 4, 8, 16, 32, 64},
			},
		),
		accountsCreated: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "tba_node_accounts_created_total",
				Help: "Number of token-bound accounts created",
			},
		),
		accountsLocked: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "tba_node_accounts_locked_total",
				Help: "Number of lock operations that succeeded",
			},
		),
		panicCount: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "tba_node_panic_total",
				Help: "Number of recovered panics",
			},
		),
	}
}

var nodeMetrics *nodePromMetrics

// InitMetrics initializes metrics for the node but does not expose them yet
func InitMetrics() {
	nodeMetrics = newNodePromMetrics()
	nodeMetrics.nodeUpUnixSeconds.SetToCurrentTime()
}

func RegisterMetrics(mux *http.ServeMux) {
	mux.Handle("/metrics", promhttp.Handler())
}

func RecordOperation(method string) {
	if nodeMetrics == nil {
		return
	}
	nodeMetrics.operationCount.With(prometheus.Labels{"method": method}).Inc()
}

func RecordRejectedOperation(reason string) {
	if nodeMetrics == nil {
		return
	}
	nodeMetrics.rejectedOpCount.With(prometheus.Labels{"reason": reason}).Inc()
}

func RecordExecuteBatchSize(calls int) {
	if nodeMetrics == nil {
		return
	}
	nodeMetrics.executeBatchSize.Observe(float64(calls))
}

func IncreaseAccountsCreated() {
	if nodeMetrics == nil {
		return
	}
	nodeMetrics.accountsCreated.Inc()
}

func IncreaseAccountsLocked() {
	if nodeMetrics == nil {
		return
	}
	nodeMetrics.accountsLocked.Inc()
}

func IncreasePanicCount() {
	if nodeMetrics == nil {
		return
	}
	nodeMetrics.panicCount.Inc()
}
