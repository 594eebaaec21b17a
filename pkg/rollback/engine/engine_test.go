package engine

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/havochq/havoc/pkg/rollback/journal"
	"github.com/havochq/havoc/pkg/rollback/registry"
	"github.com/havochq/havoc/pkg/rollback/serialize"
	"github.com/havochq/havoc/pkg/telemetry"
	"github.com/havochq/havoc/pkg/types"
)

var (
	invocations []types.RollbackContent
	failNow     bool
)

func init() {
	registry.Register("enginetest.count", func(_ context.Context, content types.RollbackContent, _ *telemetry.Handle) error {
		invocations = append(invocations, content)
		return nil
	})
	registry.Register("enginetest.fail", func(_ context.Context, _ types.RollbackContent, _ *telemetry.Handle) error {
		if failNow {
			return errors.New("compensation exploded")
		}
		invocations = append(invocations, types.RollbackContent{})
		return nil
	})
}

// writeArtifact journals an artifact with a fixed timestamp and suffix
// so listing order is deterministic across tests.
func writeArtifact(t *testing.T, versionsDir string, ctx journal.Context, scenarioType string, ts int64, suffix, kind string, content types.RollbackContent) string {
	t.Helper()
	entry := journal.Entry{
		ScenarioType: scenarioType,
		Context:      ctx,
		Timestamp:    ts,
		Suffix:       suffix,
	}
	path, err := serialize.Write(versionsDir, entry, kind, content)
	require.NoError(t, err)
	return path
}

func newEngine(t *testing.T, auto bool) (*Engine, string) {
	t.Helper()
	dir := t.TempDir()
	return New(&types.RollbackConfig{Auto: auto, VersionsDirectory: dir}), dir
}

func TestExecuteAtMostOnce(t *testing.T) {
	eng, dir := newEngine(t, true)
	ctx := journal.Context("100-run-1")
	path := writeArtifact(t, dir, ctx, "scenario", 1, "aaaaaaaa", "enginetest.count", types.RollbackContent{Namespace: "ns"})

	invocations = nil
	require.NoError(t, eng.Execute(context.Background(), nil, "run-1", "scenario", false))
	require.Len(t, invocations, 1)

	// The artifact is renamed and excluded from every later pass.
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(path + ExecutedSuffix)
	assert.NoError(t, err)

	require.NoError(t, eng.Execute(context.Background(), nil, "run-1", "scenario", false))
	assert.Len(t, invocations, 1, "second execute must not re-invoke the compensation")

	paths, err := journal.Search(dir, "run-1", "scenario")
	require.NoError(t, err)
	assert.Empty(t, paths)
}

func TestExecuteProcessesAllEntries(t *testing.T) {
	eng, dir := newEngine(t, true)
	ctx := journal.Context("100-run-1")
	writeArtifact(t, dir, ctx, "scenario", 1, "aaaaaaaa", "enginetest.count", types.RollbackContent{Namespace: "first"})
	writeArtifact(t, dir, ctx, "scenario", 2, "bbbbbbbb", "enginetest.count", types.RollbackContent{Namespace: "second"})

	invocations = nil
	require.NoError(t, eng.Execute(context.Background(), nil, "run-1", "scenario", false))
	require.Len(t, invocations, 2)
	assert.Equal(t, "first", invocations[0].Namespace)
	assert.Equal(t, "second", invocations[1].Namespace)
}

func TestExecuteAutoGating(t *testing.T) {
	// Point the engine at a versions "directory" that is actually a
	// file: any search would fail loudly, proving the auto gate short-
	// circuits before touching the filesystem.
	dir := t.TempDir()
	bogus := filepath.Join(dir, "versions")
	require.NoError(t, os.WriteFile(bogus, []byte("x"), 0644))
	eng := New(&types.RollbackConfig{Auto: false, VersionsDirectory: bogus})

	require.NoError(t, eng.Execute(context.Background(), nil, "run-1", "", false))

	err := eng.Execute(context.Background(), nil, "run-1", "", true)
	require.Error(t, err, "ignoreAutoConfig must search regardless of the auto flag")
}

func TestExecuteFailureHaltsAndLeavesPending(t *testing.T) {
	eng, dir := newEngine(t, true)
	ctx := journal.Context("100-run-1")
	first := writeArtifact(t, dir, ctx, "scenario", 1, "aaaaaaaa", "enginetest.fail", types.RollbackContent{})
	second := writeArtifact(t, dir, ctx, "scenario", 2, "bbbbbbbb", "enginetest.count", types.RollbackContent{})

	invocations = nil
	failNow = true
	err := eng.Execute(context.Background(), nil, "run-1", "scenario", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "compensation exploded")

	// The failing artifact stays pending for a retry; the one behind it
	// was never reached.
	_, statErr := os.Stat(first)
	assert.NoError(t, statErr)
	_, statErr = os.Stat(second)
	assert.NoError(t, statErr)
	assert.Empty(t, invocations)

	// A later call is the retry mechanism.
	failNow = false
	require.NoError(t, eng.Execute(context.Background(), nil, "run-1", "scenario", false))
	assert.Len(t, invocations, 2)
}

func TestExecuteMalformedArtifact(t *testing.T) {
	eng, dir := newEngine(t, true)
	ctxDir := filepath.Join(dir, "100-run-1")
	require.NoError(t, os.MkdirAll(ctxDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(ctxDir, "scenario_1_aaaaaaaa.json"), []byte("not json"), 0644))

	err := eng.Execute(context.Background(), nil, "run-1", "scenario", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed")
}

func TestExecuteNoEntries(t *testing.T) {
	eng, _ := newEngine(t, true)
	assert.NoError(t, eng.Execute(context.Background(), nil, "run-x", "", false))
}

func TestCleanup(t *testing.T) {
	eng, dir := newEngine(t, true)
	ctx := journal.Context("100-run-1")
	first := writeArtifact(t, dir, ctx, "scenario", 1, "aaaaaaaa", "enginetest.count", types.RollbackContent{})
	second := writeArtifact(t, dir, ctx, "scenario", 2, "bbbbbbbb", "enginetest.count", types.RollbackContent{})

	require.NoError(t, eng.Cleanup("run-1", "scenario"))

	for _, p := range []string{first, second} {
		_, err := os.Stat(p)
		assert.True(t, os.IsNotExist(err))
	}
}

func TestCleanupIdempotent(t *testing.T) {
	eng, _ := newEngine(t, true)
	require.NoError(t, eng.Cleanup("run-1", "scenario"))
	require.NoError(t, eng.Cleanup("run-1", "scenario"))
}

func TestCleanupKeepsExecutedArtifacts(t *testing.T) {
	eng, dir := newEngine(t, true)
	ctx := journal.Context("100-run-1")
	path := writeArtifact(t, dir, ctx, "scenario", 1, "aaaaaaaa", "enginetest.count", types.RollbackContent{})

	invocations = nil
	require.NoError(t, eng.Execute(context.Background(), nil, "run-1", "scenario", false))
	require.NoError(t, eng.Cleanup("run-1", "scenario"))

	// Executed artifacts are an audit trail; cleanup only purges
	// pending ones.
	_, err := os.Stat(path + ExecutedSuffix)
	assert.NoError(t, err)
}
