package cluster

import (
	"context"
)

// Client is the boundary between the harness and the cluster under test.
// Fault-injection plugins and compensating actions speak to the cluster
// exclusively through this interface; the rollback core never imports
// it directly.
type Client interface {
	// GetNamespaceManifest returns the namespace object encoded as JSON,
	// suitable for later recreation.
	GetNamespaceManifest(ctx context.Context, namespace string) ([]byte, error)

	// DeleteNamespace deletes a namespace and everything in it.
	DeleteNamespace(ctx context.Context, namespace string) error

	// CreateNamespace recreates a namespace from a manifest previously
	// captured with GetNamespaceManifest.
	CreateNamespace(ctx context.Context, manifest []byte) error

	// ApplyTrafficFilter creates a deny-all network policy in the
	// namespace and returns its resource identifier.
	ApplyTrafficFilter(ctx context.Context, namespace, name string) (string, error)

	// DeleteTrafficFilter removes a network policy created by
	// ApplyTrafficFilter.
	DeleteTrafficFilter(ctx context.Context, namespace, identifier string) error
}
