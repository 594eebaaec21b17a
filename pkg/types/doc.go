/*
Package types defines the shared domain types for havoc.

A chaos Run is identified by an opaque run UUID supplied by the
orchestrator and threaded through every scenario invocation. Each
scenario produces a Verdict; destructive steps taken along the way
register RollbackContent with the journal so they can be compensated
after a failure, an operator command, or an OS signal.

Types here have no behavior and no dependencies on other havoc packages,
so every layer (journal, engine, plugins, CLI) can share them without
import cycles.
*/
package types
