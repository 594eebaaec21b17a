package serialize

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/havochq/havoc/pkg/log"
	"github.com/havochq/havoc/pkg/rollback/journal"
	"github.com/havochq/havoc/pkg/rollback/registry"
	"github.com/havochq/havoc/pkg/types"
)

// Artifact is the on-disk representation of one compensating action: a
// self-contained unit holding the action kind (resolved against the
// compiled-in registry at execution time) and the content captured at
// the moment the destructive step completed.
type Artifact struct {
	Kind         string                `json:"kind"`
	ScenarioType string                `json:"scenario_type"`
	RegisteredAt time.Time             `json:"registered_at"`
	Content      types.RollbackContent `json:"content"`
}

// Write persists a compensating action as a journal artifact and returns
// its path. The context directory is created on first write. Writing
// fails if the kind is not registered, since an artifact that cannot be
// resolved later is worse than an immediate error.
func Write(versionsDir string, entry journal.Entry, kind string, content types.RollbackContent) (string, error) {
	if _, err := registry.Lookup(kind); err != nil {
		return "", fmt.Errorf("refusing to serialize: %w", err)
	}

	artifact := Artifact{
		Kind:         kind,
		ScenarioType: entry.ScenarioType,
		RegisteredAt: time.Now().UTC(),
		Content:      content,
	}
	data, err := json.MarshalIndent(&artifact, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode rollback artifact: %w", err)
	}

	path := entry.Path(versionsDir)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("failed to create context directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write rollback artifact: %w", err)
	}

	logger := log.WithComponent("rollback-serialize")
	logger.Debug().
		Str("path", path).
		Str("kind", kind).
		Msg("journal artifact written")
	return path, nil
}

// Load reads an artifact back and resolves its handler. Any malformed
// document or unknown kind is an error for the caller to surface: it
// indicates a serialization bug, not an expected runtime condition.
func Load(path string) (registry.Func, types.RollbackContent, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, types.RollbackContent{}, fmt.Errorf("failed to read rollback artifact: %w", err)
	}

	var artifact Artifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, types.RollbackContent{}, fmt.Errorf("malformed rollback artifact %s: %w", path, err)
	}
	if artifact.Kind == "" {
		return nil, types.RollbackContent{}, fmt.Errorf("malformed rollback artifact %s: missing kind", path)
	}

	fn, err := registry.Lookup(artifact.Kind)
	if err != nil {
		return nil, types.RollbackContent{}, fmt.Errorf("artifact %s: %w", path, err)
	}
	return fn, artifact.Content, nil
}
