// Package netfilter implements the network-filter fault scenario.
package netfilter
