/*
Package events provides an in-process pub/sub broker for harness events.

Scenario lifecycle transitions and rollback journal activity are
published as events so observers (the console sink during a run, tests)
can follow a chaos run without coupling to the runner. Delivery is
best-effort: a subscriber whose buffer is full misses the event rather
than blocking the publisher, since the publisher may be a signal-path
rollback that must not stall.
*/
package events
