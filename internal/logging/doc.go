// Package logging assembles structured slog loggers and formatting helpers used
// across voxtract.
//
// It owns the console and JSON handlers, centralizes level and output plumbing,
// and exposes context-aware helpers so extraction code automatically tags log
// lines with the run ID, feature family and recording name. A no-op logger is
// provided for tests and wiring code that cannot fail.
package logging
