// Package signing mints and verifies the short-lived tokens that gate raw
// asset downloads.
package signing
