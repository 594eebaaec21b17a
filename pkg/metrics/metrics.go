package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Scenario metrics
	ScenariosTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "havoc_scenarios_total",
			Help: "Total number of scenarios executed by type and verdict",
		},
		[]string{"scenario_type", "verdict"},
	)

	ScenarioDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "havoc_scenario_duration_seconds",
			Help:    "Scenario execution duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"scenario_type"},
	)

	// Rollback journal metrics
	RollbacksRegistered = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "havoc_rollbacks_registered_total",
			Help: "Total number of compensating actions written to the journal",
		},
		[]string{"scenario_type"},
	)

	RollbacksExecuted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "havoc_rollbacks_executed_total",
			Help: "Total number of compensating actions executed",
		},
		[]string{"scenario_type"},
	)

	RollbacksFailed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "havoc_rollbacks_failed_total",
			Help: "Total number of compensating actions that returned an error",
		},
		[]string{"scenario_type"},
	)

	RollbacksPurged = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "havoc_rollbacks_purged_total",
			Help: "Total number of journal entries deleted after scenario success",
		},
	)

	RollbackExecutionDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "havoc_rollback_execution_duration_seconds",
			Help:    "Time taken to execute one compensating action in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Signal metrics
	SignalsHandled = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "havoc_signals_handled_total",
			Help: "Total number of OS signals that triggered rollback handling",
		},
		[]string{"signal"},
	)
)

func init() {
	// Register all metrics
	prometheus.MustRegister(ScenariosTotal)
	prometheus.MustRegister(ScenarioDuration)
	prometheus.MustRegister(RollbacksRegistered)
	prometheus.MustRegister(RollbacksExecuted)
	prometheus.MustRegister(RollbacksFailed)
	prometheus.MustRegister(RollbacksPurged)
	prometheus.MustRegister(RollbackExecutionDuration)
	prometheus.MustRegister(SignalsHandled)
}

// Handler returns the Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// Serve starts a metrics endpoint on addr in a background goroutine.
// Errors after startup are reported on the returned channel.
func Serve(addr string) <-chan error {
	errCh := make(chan error, 1)
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())
	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			errCh <- err
		}
	}()
	return errCh
}
