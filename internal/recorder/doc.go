// Package recorder contains the stream recording supervisor: one control
// loop reconciling the active stream directory against a set of capture
// workers, each owning at most one ffmpeg subprocess and at most one
// in-flight chunk at a time.
//
// All worker state transitions happen on the supervisor's loop goroutine;
// the subprocesses themselves run concurrently and are observed through
// their capture handles only. Failures inside a single worker never stop
// supervision of the others.
package recorder
