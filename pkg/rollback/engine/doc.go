/*
Package engine executes or purges journal entries for a chaos run.

An artifact is in exactly one of three states: absent, pending (.json),
or executed (.json.executed). Execution renames each artifact after its
compensation returns, so a repeated Execute call over the same run finds
nothing left to do. A compensation error leaves its artifact pending and
stops the pass; retry is caller-driven via another Execute call.
*/
package engine
