package playback

import (
	"sync"
	"time"
)

// Scheduler runs delayed callbacks keyed by a session generation. Advancing
// the generation makes every previously scheduled callback inert, which
// replaces chains of fire-and-forget timers with one provable cancellation
// point.
type Scheduler struct {
	mu      sync.Mutex
	gen     uint64
	timers  Timers
	cancels map[uint64][]func()
}

// NewScheduler builds a scheduler on the given time source. A nil source
// falls back to the runtime clock.
func NewScheduler(timers Timers) *Scheduler {
	if timers == nil {
		timers = RealTimers{}
	}
	return &Scheduler{timers: timers, cancels: make(map[uint64][]func())}
}

// Advance moves the scheduler to a new generation. Callbacks scheduled under
// older generations never run; their timers are stopped eagerly where
// possible.
func (s *Scheduler) Advance(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen <= s.gen {
		return
	}
	for old, cancels := range s.cancels {
		if old < gen {
			for _, cancel := range cancels {
				cancel()
			}
			delete(s.cancels, old)
		}
	}
	s.gen = gen
}

// Schedule queues fn to run after d, tagged with gen. The callback is dropped
// if the scheduler has advanced past gen by the time it fires.
func (s *Scheduler) Schedule(gen uint64, d time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen < s.gen {
		return
	}
	cancel := s.timers.AfterFunc(d, func() {
		s.mu.Lock()
		stale := gen != s.gen
		s.mu.Unlock()
		if !stale {
			fn()
		}
	})
	s.cancels[gen] = append(s.cancels[gen], cancel)
}

// Generation returns the current generation, useful for diagnostics.
func (s *Scheduler) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen
}
