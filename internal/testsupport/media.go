package testsupport

import (
	"sync"
	"time"
)

// FakeAudio is a scripted stand-in for the narration audio element. It
// records every command so tests can assert ordering, and exposes state the
// synchronizer reads back.
type FakeAudio struct {
	Calls   []string
	Sources []string
	Pos     float64
	Playing bool
}

func (a *FakeAudio) Load(src string) {
	a.Calls = append(a.Calls, "load:"+src)
	a.Sources = append(a.Sources, src)
	a.Playing = false
}

func (a *FakeAudio) Play() {
	a.Calls = append(a.Calls, "play")
	a.Playing = true
}

func (a *FakeAudio) Pause() {
	a.Calls = append(a.Calls, "pause")
	a.Playing = false
}

func (a *FakeAudio) SetCurrentTime(seconds float64) {
	a.Calls = append(a.Calls, "seek")
	a.Pos = seconds
}

func (a *FakeAudio) CurrentTime() float64 { return a.Pos }

// CurrentSource returns the most recently loaded clip path.
func (a *FakeAudio) CurrentSource() string {
	if len(a.Sources) == 0 {
		return ""
	}
	return a.Sources[len(a.Sources)-1]
}

// FakeVideo is a scripted stand-in for the avatar loop video element.
type FakeVideo struct {
	Calls     []string
	Pos       float64
	IsPaused  bool
	SeekCount int
}

func (v *FakeVideo) Play() {
	v.Calls = append(v.Calls, "play")
	v.IsPaused = false
}

func (v *FakeVideo) Pause() {
	v.Calls = append(v.Calls, "pause")
	v.IsPaused = true
}

func (v *FakeVideo) Paused() bool { return v.IsPaused }

func (v *FakeVideo) SetCurrentTime(seconds float64) {
	v.Calls = append(v.Calls, "seek")
	v.Pos = seconds
	v.SeekCount++
}

func (v *FakeVideo) CurrentTime() float64 { return v.Pos }

// ManualTimers implements playback.Timers with explicit firing so tests stay
// deterministic without sleeping.
type ManualTimers struct {
	mu      sync.Mutex
	pending []*manualTimer
}

type manualTimer struct {
	delay     time.Duration
	fn        func()
	cancelled bool
}

func (m *ManualTimers) AfterFunc(d time.Duration, fn func()) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry := &manualTimer{delay: d, fn: fn}
	m.pending = append(m.pending, entry)
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		entry.cancelled = true
	}
}

// FireAll runs every pending, uncancelled callback in scheduling order.
func (m *ManualTimers) FireAll() {
	m.mu.Lock()
	pending := m.pending
	m.pending = nil
	m.mu.Unlock()
	for _, entry := range pending {
		if !entry.cancelled {
			entry.fn()
		}
	}
}

// PendingCount reports how many callbacks have been scheduled and not fired.
func (m *ManualTimers) PendingCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, entry := range m.pending {
		if !entry.cancelled {
			n++
		}
	}
	return n
}
