// Package server exposes the daemon's HTTP surface: encrypted content
// delivery, worksheet metadata, signed asset downloads, narration audio, and
// a live websocket event feed. Handlers translate the service error taxonomy
// into HTTP statuses and carry no domain logic of their own.
package server
