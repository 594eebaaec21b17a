/*
Package store persists chaos run history in an embedded BoltDB database.

Each run is one JSON record keyed by its run UUID: scenario list,
verdicts, timestamps, and the number of compensating actions registered.
The store backs the `havoc runs` command and gives operators a durable
record linking a run UUID (as used by `havoc rollback execute`) to what
that run actually did.
*/
package store
