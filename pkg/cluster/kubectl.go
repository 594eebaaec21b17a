package cluster

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"

	"github.com/havochq/havoc/pkg/log"
)

// KubectlClient implements Client by shelling out to kubectl. It keeps
// the harness free of a heavyweight API machinery dependency and works
// against any cluster the operator's kubeconfig can reach.
type KubectlClient struct {
	// Kubeconfig overrides the default kubeconfig resolution when set.
	Kubeconfig string
}

// NewKubectlClient creates a kubectl-backed cluster client
func NewKubectlClient(kubeconfig string) *KubectlClient {
	return &KubectlClient{Kubeconfig: kubeconfig}
}

func (c *KubectlClient) run(ctx context.Context, stdin []byte, args ...string) ([]byte, error) {
	if c.Kubeconfig != "" {
		args = append([]string{"--kubeconfig", c.Kubeconfig}, args...)
	}
	cmd := exec.CommandContext(ctx, "kubectl", args...)
	if stdin != nil {
		cmd.Stdin = bytes.NewReader(stdin)
	}
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		logger := log.WithComponent("cluster")
		logger.Debug().
			Strs("args", args).
			Str("stderr", stderr.String()).
			Msg("kubectl command failed")
		return nil, fmt.Errorf("kubectl %v: %w: %s", args, err, stderr.String())
	}
	return out, nil
}

// GetNamespaceManifest returns the namespace encoded as JSON
func (c *KubectlClient) GetNamespaceManifest(ctx context.Context, namespace string) ([]byte, error) {
	return c.run(ctx, nil, "get", "namespace", namespace, "-o", "json")
}

// DeleteNamespace deletes a namespace and waits for it to disappear
func (c *KubectlClient) DeleteNamespace(ctx context.Context, namespace string) error {
	_, err := c.run(ctx, nil, "delete", "namespace", namespace, "--wait=true")
	return err
}

// CreateNamespace recreates a namespace from a captured manifest
func (c *KubectlClient) CreateNamespace(ctx context.Context, manifest []byte) error {
	_, err := c.run(ctx, manifest, "apply", "-f", "-")
	return err
}

// ApplyTrafficFilter creates a deny-all NetworkPolicy in the namespace
func (c *KubectlClient) ApplyTrafficFilter(ctx context.Context, namespace, name string) (string, error) {
	policy := fmt.Sprintf(`{
  "apiVersion": "networking.k8s.io/v1",
  "kind": "NetworkPolicy",
  "metadata": {"name": %q, "namespace": %q},
  "spec": {"podSelector": {}, "policyTypes": ["Ingress", "Egress"]}
}`, name, namespace)
	if _, err := c.run(ctx, []byte(policy), "apply", "-f", "-"); err != nil {
		return "", err
	}
	return name, nil
}

// DeleteTrafficFilter removes a NetworkPolicy by name
func (c *KubectlClient) DeleteTrafficFilter(ctx context.Context, namespace, identifier string) error {
	_, err := c.run(ctx, nil, "delete", "networkpolicy", identifier, "-n", namespace, "--ignore-not-found=true")
	return err
}
