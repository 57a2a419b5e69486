// Package worksheet owns worksheet metadata: the interactive regions placed
// on scanned pages, their narration scripts, and document protection flags.
//
// Metadata lives in a SQLite store; a static JSON directory serves as a
// fallback for worksheets that predate the database. The two historical file
// shapes decode through an explicit tagged union rather than field sniffing
// at use sites.
package worksheet
