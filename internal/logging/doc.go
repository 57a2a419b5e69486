// Package logging assembles structured slog loggers and formatting helpers
// used across Lectern services.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so delivery code can
// automatically tag log lines with worksheet IDs, requester identities, and
// correlation IDs. The package also provides a no-op logger for tests and
// wiring code that cannot fail.
package logging
