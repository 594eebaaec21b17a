/*
Package runner orchestrates scenario execution around the rollback
journal.

For each scenario invocation the runner sets the rollback handler's
context and registers the run with the signal coordinator before calling
the plugin, and clears both on every exit path including plugin panics.
After the plugin returns, a success verdict purges the scenario's
journal entries; a failure verdict hands them to the execution engine,
subject to the auto-rollback opt-in.
*/
package runner
