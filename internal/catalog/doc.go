// Package catalog manages aircheck's SQLite-backed stream directory and
// recording metadata. The daemon reads the active stream set from here on
// every reconciliation pass and inserts one recording row per finalized
// chunk; the CLI uses the same store for operator-facing stream and
// recording management.
package catalog
