package journal

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// Context is the naming scope under which one scenario execution's
// compensating actions are grouped on disk. Its textual form is
// "<registration-epoch-nanos>-<run_uuid>"; the suffix after the first
// '-' must equal the run UUID exactly for lookups to match, which keeps
// runs whose UUIDs are substrings of one another apart.
type Context string

// NewContext derives a fresh context for a run at the moment a scenario
// begins execution.
func NewContext(runUUID string) Context {
	return Context(fmt.Sprintf("%d-%s", time.Now().UnixNano(), runUUID))
}

// RunUUID returns the run identifier portion of the context.
func (c Context) RunUUID() string {
	_, uuid, found := strings.Cut(string(c), "-")
	if !found {
		return ""
	}
	return uuid
}

// Dir returns the on-disk directory for this context.
func (c Context) Dir(versionsDir string) string {
	return filepath.Join(versionsDir, string(c))
}

// suffixBytes is the length of the random entry-name suffix before hex
// encoding; 4 bytes encode to the 8-character identifier.
const suffixBytes = 4

// Entry identifies one journal artifact: a pending compensating action
// belonging to a context. Its file name is
// "<scenario_type>_<epoch-nanos>_<8-char-id>.json"; executed artifacts
// carry an additional ".executed" suffix and are never matched again.
type Entry struct {
	ScenarioType string
	Context      Context
	Timestamp    int64
	Suffix       string
}

// NewEntry creates an entry named for the current instant. The suffix is
// random rather than a counter because registrations may race across
// goroutines and across harness processes sharing a journal directory.
func NewEntry(scenarioType string, ctx Context) (Entry, error) {
	buf := make([]byte, suffixBytes)
	if _, err := rand.Read(buf); err != nil {
		return Entry{}, fmt.Errorf("failed to generate entry suffix: %w", err)
	}
	return Entry{
		ScenarioType: scenarioType,
		Context:      ctx,
		Timestamp:    time.Now().UnixNano(),
		Suffix:       hex.EncodeToString(buf),
	}, nil
}

// FileName returns the artifact file name for this entry.
func (e Entry) FileName() string {
	return fmt.Sprintf("%s_%d_%s.json", e.ScenarioType, e.Timestamp, e.Suffix)
}

// Path returns the artifact's full path under the versions directory.
func (e Entry) Path(versionsDir string) string {
	return filepath.Join(e.Context.Dir(versionsDir), e.FileName())
}

var (
	contextDirPattern = regexp.MustCompile(`^[0-9]+-.+$`)
	entryFilePattern  = regexp.MustCompile(`^[A-Za-z0-9-]+_[0-9]+_[A-Za-z0-9]{8}\.json$`)
)

// IsContextDir reports whether name is a context directory. With a
// non-empty runUUID, the portion after the first '-' must equal it
// exactly; containment is not enough.
func IsContextDir(name, runUUID string) bool {
	if !contextDirPattern.MatchString(name) {
		return false
	}
	if runUUID == "" {
		return true
	}
	_, uuid, _ := strings.Cut(name, "-")
	return uuid == runUUID
}

// IsEntryFile reports whether name is a pending journal artifact.
// Executed artifacts (".json.executed") do not match by construction.
func IsEntryFile(name string) bool {
	return entryFilePattern.MatchString(name)
}

// Search returns the pending artifacts for a run in directory-listing
// order, optionally narrowed to one scenario type. A missing versions
// directory yields an empty result, not an error.
func Search(versionsDir, runUUID, scenarioType string) ([]string, error) {
	dirs, err := os.ReadDir(versionsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list versions directory: %w", err)
	}

	var paths []string
	for _, d := range dirs {
		if !d.IsDir() || !IsContextDir(d.Name(), runUUID) {
			continue
		}
		ctxDir := filepath.Join(versionsDir, d.Name())
		files, err := os.ReadDir(ctxDir)
		if err != nil {
			return nil, fmt.Errorf("failed to list context directory %s: %w", d.Name(), err)
		}
		for _, f := range files {
			if f.IsDir() || !IsEntryFile(f.Name()) {
				continue
			}
			if scenarioType != "" && !strings.HasPrefix(f.Name(), scenarioType+"_") {
				continue
			}
			paths = append(paths, filepath.Join(ctxDir, f.Name()))
		}
	}
	return paths, nil
}
