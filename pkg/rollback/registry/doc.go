/*
Package registry maps compensating-action kinds to compiled-in handler
functions.

A journal artifact persists the kind string and the action's content,
never code; at execution time the kind is resolved here. This keeps
artifacts durable, independently loadable, and replay-safe across
process restarts without any runtime code loading.
*/
package registry
