// Package telemetry carries the collaborator handle forwarded to
// compensating actions. The rollback core treats it as opaque.
package telemetry
