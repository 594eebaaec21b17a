package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/havochq/havoc/pkg/types"
)

const (
	// DefaultVersionsDirectory is where journal entries live unless
	// overridden in the harness config.
	DefaultVersionsDirectory = "/var/lib/havoc/rollback-versions"

	// DefaultDataDir holds the run-history database.
	DefaultDataDir = "/var/lib/havoc"
)

// Config is the top-level harness configuration loaded from YAML.
type Config struct {
	LogLevel    string         `yaml:"logLevel"`
	JSONLogs    bool           `yaml:"jsonLogs"`
	DataDir     string         `yaml:"dataDir"`
	MetricsAddr string         `yaml:"metricsAddr"`
	Rollback    RollbackSpec   `yaml:"rollback"`
	Scenarios   []ScenarioSpec `yaml:"scenarios"`
}

// RollbackSpec is the rollback section of the harness config.
type RollbackSpec struct {
	Auto              bool   `yaml:"auto"`
	VersionsDirectory string `yaml:"versionsDirectory"`
}

// ScenarioSpec names one scenario to execute plus its free-form
// parameters, which are interpreted by the scenario plugin itself.
type ScenarioSpec struct {
	Type       string            `yaml:"type"`
	Parameters map[string]string `yaml:"parameters,omitempty"`
}

// Load reads and validates a harness configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.DataDir == "" {
		c.DataDir = DefaultDataDir
	}
	if c.Rollback.VersionsDirectory == "" {
		c.Rollback.VersionsDirectory = DefaultVersionsDirectory
	}
}

func (c *Config) validate() error {
	for i, s := range c.Scenarios {
		if s.Type == "" {
			return fmt.Errorf("scenario %d: type is required", i)
		}
	}
	if !filepath.IsAbs(c.Rollback.VersionsDirectory) {
		// Relative journal paths break the execute-rollback CLI, which
		// typically runs from a different working directory.
		abs, err := filepath.Abs(c.Rollback.VersionsDirectory)
		if err != nil {
			return fmt.Errorf("failed to resolve versions directory: %w", err)
		}
		c.Rollback.VersionsDirectory = abs
	}
	return nil
}

// RollbackConfig converts the YAML rollback section into the injected
// runtime configuration object.
func (c *Config) RollbackConfig() *types.RollbackConfig {
	return &types.RollbackConfig{
		Auto:              c.Rollback.Auto,
		VersionsDirectory: c.Rollback.VersionsDirectory,
	}
}
