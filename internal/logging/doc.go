// Package logging assembles the structured slog loggers and formatting
// helpers used across aircheck services.
//
// It owns the configurable console/JSON handlers, centralizes level and
// output plumbing, and exposes standardized field keys so recorder code
// tags log lines with stream identity and chunk time ranges consistently.
// The package also provides a no-op logger for tests and wiring code that
// cannot fail.
//
// Prefer these constructors over hand-rolled slog setup so new components
// emit data with the same shape as the rest of the system.
package logging
