// Package preflight provides readiness checks for the binaries,
// directories, and disk capacity that recording depends on.
//
// The daemon runs RunAll once at startup and refuses to start when a
// required check fails, so a misconfigured host is caught before any
// capture is attempted. The CLI "aircheck status" command reuses the
// individual check functions to display host health on demand.
package preflight
