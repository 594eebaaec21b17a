/*
Package scenario defines the fault-injection plugin contract and the
factory that maps scenario types to plugins.

Plugins are deliberately thin wrappers around the cluster boundary; the
engineering weight lives in the rollback journal they register
compensating actions with. Plugin packages self-register from init(),
so importing a plugin package (see cmd/havoc) is what makes its type
available to `havoc run`.
*/
package scenario
