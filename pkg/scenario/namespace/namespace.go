package namespace

import (
	"context"
	"fmt"

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
	ScenarioType = "namespace-outage"

	// RestoreKind is the compensating action that recreates a deleted
	// namespace from its captured manifest.
	RestoreKind = "namespace.restore"
)

func init() {
	scenario.Register(ScenarioType, func() scenario.Plugin { return &Scenario{} })
	registry.Register(RestoreKind, restoreNamespace)
}

// Scenario deletes a namespace to simulate the loss of everything
// running in it. The namespace manifest is captured before deletion and
// journaled so the namespace can be recreated if the scenario fails or
// the harness is interrupted.
type Scenario struct{}

func (s *Scenario) Type() string { return ScenarioType }

func (s *Scenario) Run(ctx context.Context, runUUID string, params map[string]string, tel *telemetry.Handle, rb *handler.Handler) error {
	ns := params["namespace"]
	if ns == "" {
		return fmt.Errorf("namespace-outage: parameter %q is required", "namespace")
	}

	logger := log.WithScenario(ScenarioType)

	manifest, err := tel.Cluster.GetNamespaceManifest(ctx, ns)
	if err != nil {
		return fmt.Errorf("failed to capture namespace manifest: %w", err)
	}

	if err := tel.Cluster.DeleteNamespace(ctx, ns); err != nil {
		return fmt.Errorf("failed to delete namespace %s: %w", ns, err)
	}
	logger.Info().Str("namespace", ns).Msg("namespace deleted")

	// The destructive step succeeded; journal its compensation before
	// doing anything else.
	rb.RegisterRollback(RestoreKind, types.RollbackContent{
		Namespace: ns,
		Manifest:  manifest,
	})

	return nil
}

// restoreNamespace recreates a deleted namespace from the manifest
// captured at injection time.
func restoreNamespace(ctx context.Context, content types.RollbackContent, tel *telemetry.Handle) error {
	if err := tel.Cluster.CreateNamespace(ctx, content.Manifest); err != nil {
		return fmt.Errorf("failed to restore namespace %s: %w", content.Namespace, err)
	}
	logger := log.WithScenario(ScenarioType)
	logger.Info().
		Str("namespace", content.Namespace).
		Msg("namespace restored")
	tel.Emit(events.EventRollbackExecuted, "namespace restored", map[string]string{
		"namespace": content.Namespace,
	})
	return nil
}
