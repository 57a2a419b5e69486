// Package main hosts the Lectern CLI entrypoint and command graph.
//
// The Cobra-based command tree covers worksheet inspection and import, key
// generation, encrypt/decrypt verification, daemon status, notification
// testing, and configuration scaffolding. It centralizes configuration
// resolution so subcommands can focus on user experience instead of wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
