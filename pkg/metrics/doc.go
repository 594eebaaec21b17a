/*
Package metrics exposes Prometheus metrics for the havoc harness.

Counters cover scenario executions and the full lifecycle of journal
entries (registered, executed, failed, purged); histograms track scenario
and per-compensation durations. The /metrics endpoint is served for the
duration of `havoc run` when metricsAddr is configured.

Metrics are best-effort observability: nothing in the rollback path
depends on a metric write succeeding.
*/
package metrics
