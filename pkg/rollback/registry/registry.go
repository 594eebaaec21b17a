package registry

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/havochq/havoc/pkg/telemetry"
	"github.com/havochq/havoc/pkg/types"
)

// Func is the compensating-action contract: it receives the content
// captured at registration time and the opaque telemetry handle. It is
// expected to swallow failure modes it considers routine (logging them)
// and to return an error only for genuinely unexpected conditions; a
// returned error halts the surrounding execution pass.
type Func func(ctx context.Context, content types.RollbackContent, tel *telemetry.Handle) error

var (
	mu    sync.RWMutex
	kinds = make(map[string]Func)
)

// Register binds a compensating-action kind to its compiled-in handler.
// Plugins call this from init(); a duplicate or empty kind is a
// programming error and panics, mirroring database/sql driver
// registration.
func Register(kind string, fn Func) {
	mu.Lock()
	defer mu.Unlock()
	if kind == "" {
		panic("rollback registry: empty action kind")
	}
	if fn == nil {
		panic("rollback registry: nil handler for kind " + kind)
	}
	if _, dup := kinds[kind]; dup {
		panic("rollback registry: duplicate registration of kind " + kind)
	}
	kinds[kind] = fn
}

// Lookup resolves a kind recorded in a journal artifact. An unknown kind
// means the artifact was written by a build that knew more kinds than
// this one, or the artifact is corrupt; either way the caller must
// surface it.
func Lookup(kind string) (Func, error) {
	mu.RLock()
	defer mu.RUnlock()
	fn, ok := kinds[kind]
	if !ok {
		return nil, fmt.Errorf("unknown rollback action kind: %q", kind)
	}
	return fn, nil
}

// Kinds returns the registered kinds in sorted order.
func Kinds() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(kinds))
	for k := range kinds {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
