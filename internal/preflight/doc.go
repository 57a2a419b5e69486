// Package preflight provides readiness checks for the filesystem paths and
// secrets that Lectern depends on.
//
// These checks run in two contexts:
//   - The daemon calls RunAll at startup and refuses to serve when a fatal
//     check fails (missing directories, exhausted disk).
//   - The CLI "lectern status" command renders individual results so an
//     operator can see which features are degraded.
//
// Missing secrets degrade features rather than block startup: a daemon with
// no content key still serves metadata and audio.
package preflight
