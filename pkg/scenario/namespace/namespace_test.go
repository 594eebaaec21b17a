package namespace

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/havochq/havoc/pkg/cluster"
	"github.com/havochq/havoc/pkg/rollback/engine"
	"github.com/havochq/havoc/pkg/rollback/handler"
	"github.com/havochq/havoc/pkg/rollback/journal"
	"github.com/havochq/havoc/pkg/telemetry"
	"github.com/havochq/havoc/pkg/types"
)

func newFixture(t *testing.T) (*cluster.Fake, *telemetry.Handle, *handler.Handler, *types.RollbackConfig) {
	t.Helper()
	fake := cluster.NewFake()
	tel := telemetry.NewHandle(fake, nil)
	cfg := &types.RollbackConfig{Auto: true, VersionsDirectory: t.TempDir()}
	rb := handler.New(ScenarioType, cfg)
	rb.SetContext("run-1")
	return fake, tel, rb, cfg
}

func TestRunDeletesNamespaceAndJournals(t *testing.T) {
	fake, tel, rb, cfg := newFixture(t)
	fake.Namespaces["payments"] = []byte("payments")

	s := &Scenario{}
	err := s.Run(context.Background(), "run-1", map[string]string{"namespace": "payments"}, tel, rb)
	require.NoError(t, err)

	assert.NotContains(t, fake.Namespaces, "payments")
	assert.Contains(t, fake.DeletedNamespaces, "payments")
	assert.Equal(t, 1, rb.Registered())

	paths, err := journal.Search(cfg.VersionsDirectory, "run-1", ScenarioType)
	require.NoError(t, err)
	assert.Len(t, paths, 1)
}

func TestRollbackRestoresNamespace(t *testing.T) {
	fake, tel, rb, cfg := newFixture(t)
	fake.Namespaces["payments"] = []byte("payments")

	s := &Scenario{}
	require.NoError(t, s.Run(context.Background(), "run-1", map[string]string{"namespace": "payments"}, tel, rb))

	eng := engine.New(cfg)
	require.NoError(t, eng.Execute(context.Background(), tel, "run-1", ScenarioType, false))

	assert.Contains(t, fake.Namespaces, "payments")
	assert.NotContains(t, fake.DeletedNamespaces, "payments")
}

func TestRunRequiresNamespaceParameter(t *testing.T) {
	_, tel, rb, _ := newFixture(t)

	s := &Scenario{}
	err := s.Run(context.Background(), "run-1", nil, tel, rb)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required")
	assert.Equal(t, 0, rb.Registered())
}

func TestRunCapturesManifestBeforeDeleting(t *testing.T) {
	fake, tel, rb, _ := newFixture(t)
	// Unknown namespace: the capture step fails, so nothing is deleted
	// and nothing is journaled.
	s := &Scenario{}
	err := s.Run(context.Background(), "run-1", map[string]string{"namespace": "ghost"}, tel, rb)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "capture")
	assert.Equal(t, 0, rb.Registered())
	assert.Equal(t, []string{"get-namespace ghost"}, fake.Calls)
}

func TestRunClusterFailureJournalsNothing(t *testing.T) {
	fake, tel, rb, cfg := newFixture(t)
	fake.Namespaces["payments"] = []byte("payments")
	fake.FailNext = true

	s := &Scenario{}
	err := s.Run(context.Background(), "run-1", map[string]string{"namespace": "payments"}, tel, rb)
	require.Error(t, err)
	assert.Equal(t, 0, rb.Registered())
	assert.Contains(t, fake.Namespaces, "payments")

	paths, err := journal.Search(cfg.VersionsDirectory, "run-1", ScenarioType)
	require.NoError(t, err)
	assert.Empty(t, paths)
}
