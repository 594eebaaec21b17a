package cluster

import (
	"context"
	"fmt"
	"sync"
)

// Fake is an in-memory Client used by tests and by `havoc run --dry-run`.
// It records every call so tests can assert that a compensation undid
// exactly what its scenario did.
type Fake struct {
	mu sync.Mutex

	// Namespaces maps namespace name to manifest. Deleted namespaces are
	// moved to DeletedNamespaces until recreated.
	Namespaces        map[string][]byte
	DeletedNamespaces map[string][]byte
	// Filters maps "namespace/name" to true while the policy exists.
	Filters map[string]bool

	// Calls is the ordered list of operations performed.
	Calls []string

	// FailNext makes the next operation return an error, then resets.
	FailNext bool
}

// NewFake creates an empty fake cluster
func NewFake() *Fake {
	return &Fake{
		Namespaces:        make(map[string][]byte),
		DeletedNamespaces: make(map[string][]byte),
		Filters:           make(map[string]bool),
	}
}

func (f *Fake) record(call string) error {
	f.Calls = append(f.Calls, call)
	if f.FailNext {
		f.FailNext = false
		return fmt.Errorf("fake cluster: injected failure on %s", call)
	}
	return nil
}

func (f *Fake) GetNamespaceManifest(_ context.Context, namespace string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("get-namespace " + namespace); err != nil {
		return nil, err
	}
	manifest, ok := f.Namespaces[namespace]
	if !ok {
		return nil, fmt.Errorf("fake cluster: namespace not found: %s", namespace)
	}
	return manifest, nil
}

func (f *Fake) DeleteNamespace(_ context.Context, namespace string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("delete-namespace " + namespace); err != nil {
		return err
	}
	manifest, ok := f.Namespaces[namespace]
	if !ok {
		return fmt.Errorf("fake cluster: namespace not found: %s", namespace)
	}
	delete(f.Namespaces, namespace)
	f.DeletedNamespaces[namespace] = manifest
	return nil
}

func (f *Fake) CreateNamespace(_ context.Context, manifest []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	name := string(manifest) // fake manifests are just the namespace name
	if err := f.record("create-namespace " + name); err != nil {
		return err
	}
	delete(f.DeletedNamespaces, name)
	f.Namespaces[name] = manifest
	return nil
}

func (f *Fake) ApplyTrafficFilter(_ context.Context, namespace, name string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := namespace + "/" + name
	if err := f.record("apply-filter " + key); err != nil {
		return "", err
	}
	f.Filters[key] = true
	return name, nil
}

func (f *Fake) DeleteTrafficFilter(_ context.Context, namespace, identifier string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := namespace + "/" + identifier
	if err := f.record("delete-filter " + key); err != nil {
		return err
	}
	delete(f.Filters, key)
	return nil
}
