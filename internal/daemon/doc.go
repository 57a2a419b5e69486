// Package daemon coordinates the long-running Lectern process.
//
// It wires configuration, the worksheet store, and the HTTP server into a
// single lifecycle with flock-based locking to prevent multiple instances.
// Startup runs preflight checks and refuses to serve when a fatal check
// fails; missing secrets merely degrade features.
//
// Keep orchestration logic here: content protection, metadata resolution,
// and playback live in their respective packages while the daemon focuses on
// startup, shutdown, and high level coordination.
package daemon
