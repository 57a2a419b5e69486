// Package playback drives the interactive narration experience: a per-page
// session state machine (which region is active, which step is shown, which
// view mode) and a synchronizer that keeps one audio element and one
// two-segment avatar video in lock-step.
//
// The design is event-driven and single-goroutine, mirroring a cooperative UI
// loop. Asynchronous work (audio loads, fallback timers) is tagged with a
// monotonically increasing generation; only results matching the latest
// generation ever reach visible state, so rapid clicks, mode flips, and page
// navigation resolve deterministically.
package playback
