package telemetry

import (
	"github.com/havochq/havoc/pkg/cluster"
	"github.com/havochq/havoc/pkg/events"
)

// Handle is passed opaquely through the rollback journal to every
// compensating action. The journal core never inspects it; it exists so
// a compensation executed minutes (or a process lifetime) after its
// registration still has access to the cluster and to the event broker.
type Handle struct {
	Cluster cluster.Client
	Events  *events.Broker
}

// NewHandle creates a telemetry handle
func NewHandle(c cluster.Client, broker *events.Broker) *Handle {
	return &Handle{Cluster: c, Events: broker}
}

// Emit publishes an event if a broker is attached. Compensations run in
// contexts (signal handling, standalone CLI) where no broker exists, so
// a nil broker is tolerated.
func (h *Handle) Emit(t events.EventType, msg string, metadata map[string]string) {
	if h == nil || h.Events == nil {
		return
	}
	h.Events.Emit(t, msg, metadata)
}
