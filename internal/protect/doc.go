// Package protect implements the content protection pipeline: dual-path asset
// resolution, AES-256-GCM encryption for transport, and the decrypt-only
// client path that turns a transported payload back into a scoped in-memory
// asset.
//
// The scheme ships the shared key to the client, so it is transport
// protection plus tamper evidence, not access control. IVs are random per
// request and never reused under a key; the GCM tag means a flipped bit in
// ciphertext or IV surfaces as an integrity error instead of corrupt output.
package protect
