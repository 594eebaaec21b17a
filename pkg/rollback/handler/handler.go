package handler

import (
	"sync"

	"github.com/havochq/havoc/pkg/log"
	"github.com/havochq/havoc/pkg/metrics"
	"github.com/havochq/havoc/pkg/rollback/journal"
	"github.com/havochq/havoc/pkg/rollback/serialize"
	"github.com/havochq/havoc/pkg/types"
)

// Handler is the per-scenario-type registration surface a fault-injection
// plugin owns. The plugin calls RegisterRollback the instant each
// destructive step completes; the handler journals the compensation
// under the run context set by the scenario runner.
//
// Registration bookkeeping must never break a scenario in progress:
// every failure path here logs and returns rather than propagating.
type Handler struct {
	scenarioType string
	cfg          *types.RollbackConfig

	mu         sync.Mutex
	ctx        journal.Context
	registered int
}

// New creates a handler for one scenario type.
func New(scenarioType string, cfg *types.RollbackConfig) *Handler {
	return &Handler{scenarioType: scenarioType, cfg: cfg}
}

// ScenarioType returns the scenario type this handler serves.
func (h *Handler) ScenarioType() string {
	return h.scenarioType
}

// SetContext derives and stores a fresh rollback context for the run.
// Calling it again always replaces the previous context.
func (h *Handler) SetContext(runUUID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.ctx = journal.NewContext(runUUID)
	h.registered = 0
	logger := log.WithScenario(h.scenarioType)
	logger.Info().
		Str("run_uuid", runUUID).
		Msg("rollback context set")
}

// ClearContext discards the stored context. On-disk artifacts persist.
func (h *Handler) ClearContext() {
	h.mu.Lock()
	defer h.mu.Unlock()
	logger := log.WithScenario(h.scenarioType)
	logger.Debug().
		Str("context", string(h.ctx)).
		Msg("rollback context cleared")
	h.ctx = ""
}

// Context returns the current rollback context, if one is set.
func (h *Handler) Context() (journal.Context, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.ctx, h.ctx != ""
}

// Registered returns the number of compensating actions journaled since
// the context was last set.
func (h *Handler) Registered() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.registered
}

// RegisterRollback journals one compensating action. Without a context
// it logs and no-ops; a serialization failure is logged and swallowed so
// the destructive step the plugin just performed is not undone by an
// unrelated bookkeeping fault.
func (h *Handler) RegisterRollback(kind string, content types.RollbackContent) {
	h.mu.Lock()
	ctx := h.ctx
	h.mu.Unlock()

	logger := log.WithScenario(h.scenarioType)
	if ctx == "" {
		logger.Warn().
			Str("kind", kind).
			Msg("rollback registration without context, skipping")
		return
	}

	entry, err := journal.NewEntry(h.scenarioType, ctx)
	if err != nil {
		logger.Error().Err(err).Msg("failed to create journal entry")
		return
	}

	path, err := serialize.Write(h.cfg.VersionsDirectory, entry, kind, content)
	if err != nil {
		logger.Error().Err(err).
			Str("kind", kind).
			Msg("failed to serialize rollback action")
		return
	}

	h.mu.Lock()
	h.registered++
	h.mu.Unlock()
	metrics.RollbacksRegistered.WithLabelValues(h.scenarioType).Inc()
	logger.Info().
		Str("kind", kind).
		Str("path", path).
		Msg("rollback action registered")
}
