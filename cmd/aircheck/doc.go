// Command aircheck is the operator CLI for the aircheck recording daemon.
// It manages the stream directory, inspects archived recordings, and
// reports host readiness, all through the shared catalog database.
package main
