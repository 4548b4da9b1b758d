// Package daemon wires the catalog, archive, and recorder supervisor
// into a single long-running service with single-instance enforcement.
package daemon
