package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/havochq/havoc/pkg/config"
	"github.com/havochq/havoc/pkg/events"
	"github.com/havochq/havoc/pkg/log"
	"github.com/havochq/havoc/pkg/metrics"
	"github.com/havochq/havoc/pkg/rollback/engine"
	"github.com/havochq/havoc/pkg/rollback/handler"
	"github.com/havochq/havoc/pkg/rollback/sigctx"
	"github.com/havochq/havoc/pkg/scenario"
	"github.com/havochq/havoc/pkg/store"
	"github.com/havochq/havoc/pkg/telemetry"
	"github.com/havochq/havoc/pkg/types"
)

// Runner wraps scenario invocations with the rollback bookkeeping the
// journal requires: context set/clear on every exit path, signal-context
// registration for the scenario's duration, and the purge-or-execute
// decision once the verdict is known.
type Runner struct {
	cfg    *types.RollbackConfig
	engine *engine.Engine
	coord  *sigctx.Coordinator
	store  store.Store
	broker *events.Broker
}

// New creates a runner. The store may be nil when run history is not
// wanted (tests, one-off invocations).
func New(cfg *types.RollbackConfig, st store.Store, broker *events.Broker) *Runner {
	eng := engine.New(cfg)
	return &Runner{
		cfg:    cfg,
		engine: eng,
		coord:  sigctx.New(eng),
		store:  st,
		broker: broker,
	}
}

// Engine exposes the underlying execution engine, mainly for the CLI's
// explicit rollback commands.
func (r *Runner) Engine() *engine.Engine {
	return r.engine
}

// RunScenario executes one scenario end to end and returns its record.
// The returned error is the scenario's own failure, if any; rollback and
// cleanup problems are logged and folded into the record.
func (r *Runner) RunScenario(ctx context.Context, plugin scenario.Plugin, runUUID string, params map[string]string, tel *telemetry.Handle) *types.ScenarioRecord {
	scenarioType := plugin.Type()
	logger := log.WithScenario(scenarioType)

	rb := handler.New(scenarioType, r.cfg)
	rb.SetContext(runUUID)
	defer rb.ClearContext()

	release := r.coord.Enter(runUUID, scenarioType, tel)
	defer release()

	record := &types.ScenarioRecord{
		ScenarioType: scenarioType,
		StartedAt:    time.Now(),
	}
	r.emit(events.EventScenarioStarted, scenarioType, runUUID, "")

	timer := metrics.NewTimer()
	err := runPlugin(ctx, plugin, runUUID, params, tel, rb)
	timer.ObserveDurationVec(metrics.ScenarioDuration, scenarioType)

	record.FinishedAt = time.Now()
	record.Rollbacks = rb.Registered()

	if err == nil {
		record.Verdict = types.VerdictSuccess
		logger.Info().Str("run_uuid", runUUID).Msg("scenario succeeded, purging journal")
		if cerr := r.engine.Cleanup(runUUID, scenarioType); cerr != nil {
			// Bookkeeping failure only; the verdict stands.
			logger.Error().Err(cerr).Msg("journal cleanup failed")
			record.Error = cerr.Error()
		}
		r.emit(events.EventScenarioFinished, scenarioType, runUUID, "")
	} else {
		record.Verdict = types.VerdictFailure
		record.Error = err.Error()
		logger.Error().Err(err).Str("run_uuid", runUUID).Msg("scenario failed")
		r.emit(events.EventScenarioFailed, scenarioType, runUUID, err.Error())
		if rerr := r.engine.Execute(ctx, tel, runUUID, scenarioType, false); rerr != nil {
			logger.Error().Err(rerr).Msg("automatic rollback failed, entries left pending")
			r.emit(events.EventRollbackFailed, scenarioType, runUUID, rerr.Error())
		}
	}

	metrics.ScenariosTotal.WithLabelValues(scenarioType, string(record.Verdict)).Inc()
	return record
}

// runPlugin invokes the plugin, converting a panic into a failure
// verdict so deferred context clearing still runs in the caller.
func runPlugin(ctx context.Context, plugin scenario.Plugin, runUUID string, params map[string]string, tel *telemetry.Handle, rb *handler.Handler) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("scenario panicked: %v", rec)
		}
	}()
	return plugin.Run(ctx, runUUID, params, tel, rb)
}

// RunAll executes the configured scenarios sequentially under one run
// UUID, persisting the run record as it progresses. An unknown scenario
// type is recorded as skipped and does not abort the run.
func (r *Runner) RunAll(ctx context.Context, specs []config.ScenarioSpec, runUUID string, tel *telemetry.Handle) (*types.Run, error) {
	run := &types.Run{
		UUID:      runUUID,
		StartedAt: time.Now(),
	}
	r.emit(events.EventRunStarted, "", runUUID, "")

	for _, spec := range specs {
		plugin, err := scenario.New(spec.Type)
		if err != nil {
			logger := log.WithRunID(runUUID)
			logger.Error().Err(err).Msg("skipping unknown scenario type")
			run.Scenarios = append(run.Scenarios, &types.ScenarioRecord{
				ScenarioType: spec.Type,
				Verdict:      types.VerdictSkipped,
				Error:        err.Error(),
			})
			continue
		}

		record := r.RunScenario(ctx, plugin, runUUID, spec.Parameters, tel)
		run.Scenarios = append(run.Scenarios, record)
		r.persist(run)
	}

	run.FinishedAt = time.Now()
	r.persist(run)
	r.emit(events.EventRunFinished, "", runUUID, "")
	return run, nil
}

func (r *Runner) persist(run *types.Run) {
	if r.store == nil {
		return
	}
	if err := r.store.SaveRun(run); err != nil {
		logger := log.WithRunID(run.UUID)
		logger.Error().Err(err).Msg("failed to persist run record")
	}
}

func (r *Runner) emit(t events.EventType, scenarioType, runUUID, msg string) {
	if r.broker == nil {
		return
	}
	md := map[string]string{"run_uuid": runUUID}
	if scenarioType != "" {
		md["scenario_type"] = scenarioType
	}
	r.broker.Emit(t, msg, md)
}
