/*
Package log provides structured logging for havoc using zerolog.

The log package wraps zerolog to provide JSON-structured logging with
component-specific child loggers and configurable levels. Chaos runs are
long-lived and mostly unattended, so every log line carries a timestamp
and, where available, the run_uuid and scenario_type fields so a single
run's trail can be filtered out of interleaved output.

Usage:

	log.Init(log.Config{Level: log.InfoLevel, JSONOutput: true})
	logger := log.WithComponent("rollback-engine")
	logger.Info().Str("run_uuid", runUUID).Msg("executing journal entries")
*/
package log
