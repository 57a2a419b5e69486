// Package logs tails the daemon log file and exposes the same view over the
// HTTP API, so `lectern logs` shows identical output whether the daemon is
// reachable or the CLI has to read the file directly.
//
// Negative offsets mean "last N lines"; non-negative offsets resume a prior
// read, and follow mode polls with bounded memory until the caller's context
// is cancelled.
package logs
