// Package services defines shared utilities consumed by the content delivery
// handlers and the playback engine.
//
// Key responsibilities:
//   - Context helpers that stamp worksheet IDs, requester identities, and
//     correlation identifiers for logging and auditing.
//   - Structured error markers plus the Wrap helper that classify failures
//     into the delivery error taxonomy (configuration, not-found, integrity,
//     network, playback, validation).
//
// Use these helpers when wiring new components so operational behaviour
// (error handling, observability, retries) stays uniform across the system.
package services
