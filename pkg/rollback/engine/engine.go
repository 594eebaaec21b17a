package engine

import (
	"context"
	"fmt"
	"os"

	"github.com/havochq/havoc/pkg/log"
	"github.com/havochq/havoc/pkg/metrics"
	"github.com/havochq/havoc/pkg/rollback/journal"
	"github.com/havochq/havoc/pkg/rollback/serialize"
	"github.com/havochq/havoc/pkg/telemetry"
	"github.com/havochq/havoc/pkg/types"
)

// ExecutedSuffix marks an artifact as permanently consumed. Renamed
// artifacts no longer match the journal's entry-file pattern, so a
// second execution pass cannot find them.
const ExecutedSuffix = ".executed"

// Engine loads and runs journal entries for a chaos run, or purges them
// when the scenario succeeded and no rollback is needed.
type Engine struct {
	cfg *types.RollbackConfig
}

// New creates an engine bound to the injected rollback configuration.
func New(cfg *types.RollbackConfig) *Engine {
	return &Engine{cfg: cfg}
}

// Execute runs every pending compensating action for the run (optionally
// narrowed to one scenario type), in directory-listing order, each
// at most once.
//
// Unless ignoreAutoConfig is set, the configured auto flag gates the
// whole operation before any filesystem access: automatic rollback is
// opt-in. A malformed artifact or a failing compensation halts the pass
// immediately with the artifact left pending; a later Execute call is
// the retry mechanism.
func (e *Engine) Execute(ctx context.Context, tel *telemetry.Handle, runUUID, scenarioType string, ignoreAutoConfig bool) error {
	logger := log.WithComponent("rollback-engine")
	if !ignoreAutoConfig && !e.cfg.Auto {
		logger.Debug().
			Str("run_uuid", runUUID).
			Msg("automatic rollback disabled, skipping execution")
		return nil
	}

	paths, err := journal.Search(e.cfg.VersionsDirectory, runUUID, scenarioType)
	if err != nil {
		return fmt.Errorf("failed to search journal: %w", err)
	}
	if len(paths) == 0 {
		logger.Debug().
			Str("run_uuid", runUUID).
			Str("scenario_type", scenarioType).
			Msg("no pending rollback entries")
		return nil
	}

	logger.Info().
		Str("run_uuid", runUUID).
		Int("entries", len(paths)).
		Msg("executing rollback entries")

	for _, path := range paths {
		fn, content, err := serialize.Load(path)
		if err != nil {
			// A journal entry this process cannot parse means the
			// serializer is broken; surface it rather than skip it.
			return err
		}

		timer := metrics.NewTimer()
		if err := fn(ctx, content, tel); err != nil {
			metrics.RollbacksFailed.WithLabelValues(scenarioTypeLabel(scenarioType)).Inc()
			// Leave the artifact pending so a subsequent Execute call
			// retries it.
			return fmt.Errorf("rollback action %s failed: %w", path, err)
		}
		timer.ObserveDuration(metrics.RollbackExecutionDuration)
		metrics.RollbacksExecuted.WithLabelValues(scenarioTypeLabel(scenarioType)).Inc()

		if err := os.Rename(path, path+ExecutedSuffix); err != nil {
			return fmt.Errorf("failed to mark rollback entry executed: %w", err)
		}
		logger.Info().Str("path", path).Msg("rollback entry executed")
	}
	return nil
}

// Cleanup deletes every pending entry for the run; it is called after a
// scenario succeeds and its compensations are moot. Deleting nothing is
// not an error; failing to delete something is.
func (e *Engine) Cleanup(runUUID, scenarioType string) error {
	paths, err := journal.Search(e.cfg.VersionsDirectory, runUUID, scenarioType)
	if err != nil {
		return fmt.Errorf("failed to search journal: %w", err)
	}

	logger := log.WithComponent("rollback-engine")
	for _, path := range paths {
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("failed to remove rollback entry: %w", err)
		}
		metrics.RollbacksPurged.Inc()
		logger.Debug().Str("path", path).Msg("rollback entry purged")
	}
	if len(paths) > 0 {
		logger.Info().
			Str("run_uuid", runUUID).
			Int("entries", len(paths)).
			Msg("rollback entries purged")
	}
	return nil
}

func scenarioTypeLabel(scenarioType string) string {
	if scenarioType == "" {
		return "all"
	}
	return scenarioType
}
