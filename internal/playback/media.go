package playback

import "time"

// AudioPort is the narration audio element as the synchronizer sees it. The
// host environment calls back into the synchronizer (HandleAudioReady,
// HandleAudioPlaying, ...) when the underlying element emits events.
type AudioPort interface {
	Load(src string)
	Play()
	Pause()
	SetCurrentTime(seconds float64)
	CurrentTime() float64
}

// VideoPort is the avatar loop video element. Position updates arrive through
// HandleVideoTick.
type VideoPort interface {
	Play()
	Pause()
	Paused() bool
	SetCurrentTime(seconds float64)
	CurrentTime() float64
}

// Timers is the injectable time source behind scheduled fallback work. The
// returned cancel function stops the callback if it has not fired yet.
type Timers interface {
	AfterFunc(d time.Duration, fn func()) (cancel func())
}

// RealTimers backs Timers with the runtime clock.
type RealTimers struct{}

func (RealTimers) AfterFunc(d time.Duration, fn func()) func() {
	timer := time.AfterFunc(d, fn)
	return func() { timer.Stop() }
}
