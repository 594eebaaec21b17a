/*
Package cluster defines the boundary between havoc and the cluster under
test.

Fault-injection plugins and compensating actions reach the cluster only
through the Client interface. The default implementation shells out to
kubectl, which keeps the harness a single static binary with no API
machinery dependency; Fake provides an in-memory cluster for tests and
dry runs.
*/
package cluster
