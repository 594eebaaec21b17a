package netfilter

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/havochq/havoc/pkg/events"
	"github.com/havochq/havoc/pkg/log"
	"github.com/havochq/havoc/pkg/rollback/handler"
	"github.com/havochq/havoc/pkg/rollback/registry"
	"github.com/havochq/havoc/pkg/scenario"
	"github.com/havochq/havoc/pkg/telemetry"
	"github.com/havochq/havoc/pkg/types"
)

const (
	// ScenarioType identifies this plugin in configs and journal entries.
	ScenarioType = "network-filter"

	// RemoveKind is the compensating action that removes a traffic
	// filter left behind by an interrupted scenario.
	RemoveKind = "netfilter.remove"

	defaultHold = 30 * time.Second
)

func init() {
	scenario.Register(ScenarioType, func() scenario.Plugin { return &Scenario{} })
	registry.Register(RemoveKind, removeFilter)
}

// Scenario blocks a namespace's traffic with a deny-all network policy,
// holds the outage for the configured duration, then lifts it. Each
// created policy is journaled individually the moment it exists, so an
// interrupted hold still gets cleaned up.
type Scenario struct{}

func (s *Scenario) Type() string { return ScenarioType }

func (s *Scenario) Run(ctx context.Context, runUUID string, params map[string]string, tel *telemetry.Handle, rb *handler.Handler) error {
	ns := params["namespace"]
	if ns == "" {
		return fmt.Errorf("network-filter: parameter %q is required", "namespace")
	}

	hold := defaultHold
	if v := params["duration"]; v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("network-filter: invalid duration %q: %w", v, err)
		}
		hold = d
	}

	logger := log.WithScenario(ScenarioType)
	name := "havoc-deny-" + uuid.NewString()[:8]

	identifier, err := tel.Cluster.ApplyTrafficFilter(ctx, ns, name)
	if err != nil {
		return fmt.Errorf("failed to apply traffic filter in %s: %w", ns, err)
	}
	logger.Info().
		Str("namespace", ns).
		Str("filter", identifier).
		Msg("traffic filter applied")

	rb.RegisterRollback(RemoveKind, types.RollbackContent{
		Namespace:          ns,
		ResourceIdentifier: identifier,
	})

	select {
	case <-time.After(hold):
	case <-ctx.Done():
		return fmt.Errorf("network-filter: interrupted during hold: %w", ctx.Err())
	}

	if err := tel.Cluster.DeleteTrafficFilter(ctx, ns, identifier); err != nil {
		return fmt.Errorf("failed to lift traffic filter %s: %w", identifier, err)
	}
	logger.Info().
		Str("namespace", ns).
		Str("filter", identifier).
		Msg("traffic filter lifted")
	return nil
}

// removeFilter deletes a traffic filter recorded in the journal. The
// filter may already be gone when the scenario lifted it before failing
// elsewhere; the cluster boundary treats that as success.
func removeFilter(ctx context.Context, content types.RollbackContent, tel *telemetry.Handle) error {
	if err := tel.Cluster.DeleteTrafficFilter(ctx, content.Namespace, content.ResourceIdentifier); err != nil {
		return fmt.Errorf("failed to remove traffic filter %s: %w", content.ResourceIdentifier, err)
	}
	logger := log.WithScenario(ScenarioType)
	logger.Info().
		Str("namespace", content.Namespace).
		Str("filter", content.ResourceIdentifier).
		Msg("traffic filter removed")
	tel.Emit(events.EventRollbackExecuted, "traffic filter removed", map[string]string{
		"namespace": content.Namespace,
		"filter":    content.ResourceIdentifier,
	})
	return nil
}
