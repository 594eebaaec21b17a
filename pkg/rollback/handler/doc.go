/*
Package handler provides the per-scenario-type rollback registration
surface used by fault-injection plugins.

A plugin registers one compensating action per destructive sub-step:
once per created network policy, once per deleted namespace, and so on.
A single scenario may register zero, one, or many. Registration never
fails the scenario; losing a rollback entry is preferable to aborting a
chaos experiment mid-injection without observing its effect.
*/
package handler
