/*
Package sigctx coordinates OS-signal-triggered rollback.

Receipt of SIGINT, SIGTERM, or SIGHUP is the harness's cancellation
signal: rollback for every currently-active scenario context is
attempted before the process is allowed to terminate via the default
disposition. The active-context set is cleared before rollback starts so
a repeated delivery cannot double-execute, and rollback failures are
logged without blocking termination.
*/
package sigctx
