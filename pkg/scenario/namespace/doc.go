// Package namespace implements the namespace-outage fault scenario.
package namespace
