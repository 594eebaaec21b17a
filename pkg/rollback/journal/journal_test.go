package journal

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewContext(t *testing.T) {
	ctx := NewContext("test-uuid-123")

	assert.True(t, IsContextDir(string(ctx), "test-uuid-123"))
	assert.Equal(t, "test-uuid-123", ctx.RunUUID())
}

func TestContextRunUUIDWithDashes(t *testing.T) {
	// Run UUIDs contain dashes themselves; only the first separator
	// splits epoch from UUID.
	ctx := NewContext("aaaa-bbbb-cccc")
	assert.Equal(t, "aaaa-bbbb-cccc", ctx.RunUUID())
}

func TestIsContextDir(t *testing.T) {
	tests := []struct {
		name     string
		dir      string
		runUUID  string
		expected bool
	}{
		{"match without uuid filter", "123-abcdefgh", "", true},
		{"exact suffix match", "123-abcdefgh", "abcdefgh", true},
		{"suffix is superstring", "123-abcdefgh-ijklmnop", "abcdefgh", false},
		{"different uuid", "123-abcdefgh", "ijklmnop", false},
		{"missing epoch", "abcdefgh", "abcdefgh", false},
		{"missing separator", "123abcdefgh", "", false},
		{"empty name", "", "", false},
		{"uuid containing dashes", "1699-aaaa-bbbb", "aaaa-bbbb", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsContextDir(tt.dir, tt.runUUID))
		})
	}
}

func TestIsEntryFile(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		expected bool
	}{
		{"valid entry", "scenario_123_abcdefgh.json", true},
		{"valid entry with hyphenated type", "network-filter_456_a1b2c3d4.json", true},
		{"executed entry excluded", "scenario_123_abcdefgh.json.executed", false},
		{"identifier too short", "scenario_123_abc.json", false},
		{"identifier too long", "scenario_123_abcdefgh1.json", false},
		{"missing timestamp", "scenario__abcdefgh.json", false},
		{"wrong extension", "scenario_123_abcdefgh.txt", false},
		{"no scenario type", "_123_abcdefgh.json", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsEntryFile(tt.file))
		})
	}
}

func TestNewEntryFileName(t *testing.T) {
	ctx := NewContext("run-1")
	entry, err := NewEntry("namespace-outage", ctx)
	require.NoError(t, err)

	assert.True(t, IsEntryFile(entry.FileName()), "generated name %q must match the entry pattern", entry.FileName())
	assert.True(t, strings.HasPrefix(entry.FileName(), "namespace-outage_"))
	assert.Len(t, entry.Suffix, 8)
}

func TestNewEntrySuffixesDiffer(t *testing.T) {
	ctx := NewContext("run-1")
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		entry, err := NewEntry("scenario", ctx)
		require.NoError(t, err)
		assert.False(t, seen[entry.Suffix], "duplicate suffix %s", entry.Suffix)
		seen[entry.Suffix] = true
	}
}

func TestSearch(t *testing.T) {
	versionsDir := t.TempDir()

	mkEntry := func(dir, name string) {
		full := filepath.Join(versionsDir, dir)
		require.NoError(t, os.MkdirAll(full, 0755))
		require.NoError(t, os.WriteFile(filepath.Join(full, name), []byte("{}"), 0644))
	}

	mkEntry("100-run-a", "scenario_1_aaaaaaaa.json")
	mkEntry("100-run-a", "scenario_2_bbbbbbbb.json")
	mkEntry("100-run-a", "other_3_cccccccc.json")
	mkEntry("100-run-a", "scenario_4_dddddddd.json.executed")
	mkEntry("200-run-a-extra", "scenario_5_eeeeeeee.json")
	mkEntry("300-run-b", "scenario_6_ffffffff.json")
	mkEntry("not-a-context", "scenario_7_gggggggg.json")

	t.Run("all entries for run", func(t *testing.T) {
		paths, err := Search(versionsDir, "run-a", "")
		require.NoError(t, err)
		assert.Len(t, paths, 3)
	})

	t.Run("scenario type filter", func(t *testing.T) {
		paths, err := Search(versionsDir, "run-a", "scenario")
		require.NoError(t, err)
		assert.Len(t, paths, 2)
	})

	t.Run("scenario type is not a prefix match on other types", func(t *testing.T) {
		paths, err := Search(versionsDir, "run-a", "scen")
		require.NoError(t, err)
		assert.Empty(t, paths)
	})

	t.Run("other run", func(t *testing.T) {
		paths, err := Search(versionsDir, "run-b", "")
		require.NoError(t, err)
		assert.Len(t, paths, 1)
	})

	t.Run("unknown run", func(t *testing.T) {
		paths, err := Search(versionsDir, "run-c", "")
		require.NoError(t, err)
		assert.Empty(t, paths)
	})

	t.Run("missing versions directory", func(t *testing.T) {
		paths, err := Search(filepath.Join(versionsDir, "nope"), "run-a", "")
		require.NoError(t, err)
		assert.Empty(t, paths)
	})
}
