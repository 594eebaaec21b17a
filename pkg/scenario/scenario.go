package scenario

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/havochq/havoc/pkg/rollback/handler"
	"github.com/havochq/havoc/pkg/telemetry"
)

// Plugin is one fault-injection unit with a single success/failure
// verdict. Run performs the destructive action against the cluster
// reachable through tel, registering one compensating action with rb per
// destructive sub-step the moment that step succeeds.
type Plugin interface {
	// Type is the scenario type, used in journal entry names and run
	// records. It must be stable across releases.
	Type() string

	// Run executes the scenario. A nil return is a success verdict; an
	// error is a failure verdict and (configuration permitting) triggers
	// rollback of whatever was registered.
	Run(ctx context.Context, runUUID string, params map[string]string, tel *telemetry.Handle, rb *handler.Handler) error
}

var (
	mu      sync.RWMutex
	plugins = make(map[string]func() Plugin)
)

// Register adds a plugin constructor to the factory. Called from plugin
// package init(); duplicate types panic.
func Register(scenarioType string, ctor func() Plugin) {
	mu.Lock()
	defer mu.Unlock()
	if _, dup := plugins[scenarioType]; dup {
		panic("scenario factory: duplicate registration of type " + scenarioType)
	}
	plugins[scenarioType] = ctor
}

// New constructs a plugin for the given scenario type.
func New(scenarioType string) (Plugin, error) {
	mu.RLock()
	ctor, ok := plugins[scenarioType]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown scenario type: %q (known: %v)", scenarioType, Types())
	}
	return ctor(), nil
}

// Types returns the registered scenario types in sorted order.
func Types() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(plugins))
	for t := range plugins {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
