package types

import (
	"time"
)

// Run represents one end-to-end chaos run. A run executes one or more
// scenarios, each with its own success/failure verdict.
type Run struct {
	UUID       string
	StartedAt  time.Time
	FinishedAt time.Time
	Scenarios  []*ScenarioRecord
}

// ScenarioRecord is the per-scenario slice of a run's history.
type ScenarioRecord struct {
	ScenarioType string
	Verdict      Verdict
	Error        string
	StartedAt    time.Time
	FinishedAt   time.Time
	Rollbacks    int // compensating actions registered during the scenario
}

// Verdict is the final outcome of one scenario invocation.
type Verdict string

const (
	VerdictSuccess Verdict = "success"
	VerdictFailure Verdict = "failure"
	VerdictSkipped Verdict = "skipped"
)

// RollbackContent is the opaque bag of data a compensating action needs.
// It is owned by the fault-injection plugin that registered it, passed by
// value into the journal, and never mutated after creation.
//
// Two shapes are in use today: a bare resource identifier plus namespace
// (network filters), and a namespace plus an encoded manifest blob
// (namespace restoration).
type RollbackContent struct {
	Namespace          string `json:"namespace,omitempty"`
	ResourceIdentifier string `json:"resource_identifier,omitempty"`
	Manifest           []byte `json:"manifest,omitempty"`
}

// RollbackConfig is the process-wide rollback configuration, constructed
// once at startup from the harness config and injected by reference into
// every component that reads it. Auto gates whether a failed scenario
// triggers rollback execution automatically; VersionsDirectory is the
// root of the on-disk journal.
type RollbackConfig struct {
	Auto              bool
	VersionsDirectory string
}
