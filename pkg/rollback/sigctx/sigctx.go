package sigctx

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/havochq/havoc/pkg/log"
	"github.com/havochq/havoc/pkg/metrics"
	"github.com/havochq/havoc/pkg/rollback/engine"
	"github.com/havochq/havoc/pkg/telemetry"
)

// handledSignals are the deliveries that trigger rollback before the
// process is allowed to terminate.
var handledSignals = []os.Signal{syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP}

type activeContext struct {
	runUUID      string
	scenarioType string
	tel          *telemetry.Handle
}

// Coordinator owns process-wide signal handling for the rollback
// journal. Handlers are installed exactly once for the process lifetime,
// on the first Enter call.
//
// Signal delivery in Go is funneled through a single channel regardless
// of which goroutine is running a scenario, so the coordinator keeps a
// set of every currently-active context rather than a per-thread slot:
// on signal receipt, rollback is attempted for all of them.
type Coordinator struct {
	engine *engine.Engine

	mu        sync.Mutex
	installed bool
	sigCh     chan os.Signal
	active    map[uint64]activeContext
	nextToken uint64
}

// New creates a coordinator that triggers the given engine on signals.
func New(eng *engine.Engine) *Coordinator {
	return &Coordinator{
		engine: eng,
		active: make(map[uint64]activeContext),
	}
}

// Enter registers the scenario's context for signal-triggered rollback
// and returns a release func. The caller must defer the release so the
// context is removed on every exit path; releasing twice is harmless.
func (c *Coordinator) Enter(runUUID, scenarioType string, tel *telemetry.Handle) func() {
	c.mu.Lock()
	c.installLocked()
	token := c.nextToken
	c.nextToken++
	c.active[token] = activeContext{runUUID: runUUID, scenarioType: scenarioType, tel: tel}
	c.mu.Unlock()

	logger := log.WithScenario(scenarioType)
	logger.Debug().
		Str("run_uuid", runUUID).
		Msg("signal rollback context registered")

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.active, token)
			c.mu.Unlock()
		})
	}
}

// installLocked installs the process signal handlers once. Caller holds
// c.mu.
func (c *Coordinator) installLocked() {
	if c.installed {
		return
	}
	c.sigCh = make(chan os.Signal, 1)
	signal.Notify(c.sigCh, handledSignals...)
	go c.dispatch()
	c.installed = true
	logger := log.WithComponent("sigctx")
	logger.Info().Msg("signal handlers installed")
}

func (c *Coordinator) dispatch() {
	for sig := range c.sigCh {
		c.handleSignal(sig)
		c.chain(sig)
	}
}

// handleSignal performs rollback for every active context. The set is
// snapshotted and cleared before any rollback runs, so a second delivery
// of the same signal mid-rollback finds nothing to re-trigger.
func (c *Coordinator) handleSignal(sig os.Signal) {
	logger := log.WithComponent("sigctx")
	metrics.SignalsHandled.WithLabelValues(sig.String()).Inc()

	c.mu.Lock()
	snapshot := make([]activeContext, 0, len(c.active))
	for _, ac := range c.active {
		snapshot = append(snapshot, ac)
	}
	c.active = make(map[uint64]activeContext)
	c.mu.Unlock()

	if len(snapshot) == 0 {
		logger.Warn().
			Str("signal", sig.String()).
			Msg("signal received without active rollback context, skipping rollback")
		return
	}

	for _, ac := range snapshot {
		logger.Info().
			Str("signal", sig.String()).
			Str("run_uuid", ac.runUUID).
			Str("scenario_type", ac.scenarioType).
			Msg("performing signal-triggered rollback")
		if err := c.engine.Execute(context.Background(), ac.tel, ac.runUUID, ac.scenarioType, false); err != nil {
			// Rollback failure must not keep the process alive; the
			// pending artifacts remain on disk for execute-rollback.
			logger.Error().Err(err).
				Str("run_uuid", ac.runUUID).
				Msg("signal-triggered rollback failed")
		}
	}
}

// chain restores the default disposition and re-raises the signal so
// termination proceeds as if the coordinator had never been installed.
// Other os/signal subscribers in the process received the original
// delivery independently.
func (c *Coordinator) chain(sig os.Signal) {
	signal.Stop(c.sigCh)
	signal.Reset(sig)
	if s, ok := sig.(syscall.Signal); ok {
		if err := syscall.Kill(os.Getpid(), s); err != nil {
			logger := log.WithComponent("sigctx")
			logger.Error().Err(err).Msg("failed to re-raise signal, exiting")
			os.Exit(1)
		}
	}
}
