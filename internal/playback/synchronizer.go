package playback

import (
	"log/slog"
	"time"

	"lectern/internal/config"
	"lectern/internal/logging"
	"lectern/internal/services"
)

// Segments describes the two disjoint time ranges inside the avatar loop
// video: Idle = [0, IdleEnd) and Talking = [TalkStart, Duration). Epsilon is
// the loop-seam tolerance near segment boundaries.
type Segments struct {
	IdleEnd   float64
	TalkStart float64
	Duration  float64
	Epsilon   float64
}

// SegmentsFromConfig lifts the configured avatar timing into a Segments value.
func SegmentsFromConfig(cfg *config.Config) Segments {
	return Segments{
		IdleEnd:   cfg.Playback.IdleSegmentEnd,
		TalkStart: cfg.Playback.TalkSegmentStart,
		Duration:  cfg.Playback.VideoDuration,
		Epsilon:   cfg.Playback.LoopEpsilon,
	}
}

// SynchronizerOptions configures a Synchronizer.
type SynchronizerOptions struct {
	Audio        AudioPort
	Video        VideoPort
	Segments     Segments
	ReadyTimeout time.Duration
	Timers       Timers
	Logger       *slog.Logger
	// OnError receives recoverable playback failures. The session stays
	// active with silent narration; advancing a step retries a fresh load.
	OnError func(error)
}

// Synchronizer keeps the narration audio and the avatar video mutually
// consistent. Audio is the source of truth: the video is forced into the
// talking segment the instant audio plays and drifts back to the idle
// segment once it stops.
//
// All methods must be called from the single goroutine that owns the
// playback session; only scheduled callbacks cross goroutines, and those are
// neutralized by generation before they touch state.
type Synchronizer struct {
	audio    AudioPort
	video    VideoPort
	segments Segments
	sched    *Scheduler
	logger   *slog.Logger
	onError  func(error)

	readyTimeout time.Duration
	gen          uint64
	audioPlaying bool
	stopped      bool
	backgrounded bool
}

// NewSynchronizer wires the media ports. Audio and video are exclusively
// owned by one synchronizer at a time.
func NewSynchronizer(opts SynchronizerOptions) *Synchronizer {
	readyTimeout := opts.ReadyTimeout
	if readyTimeout <= 0 {
		readyTimeout = 3 * time.Second
	}
	onError := opts.OnError
	if onError == nil {
		onError = func(error) {}
	}
	return &Synchronizer{
		audio:        opts.Audio,
		video:        opts.Video,
		segments:     opts.Segments,
		sched:        NewScheduler(opts.Timers),
		logger:       logging.NewComponentLogger(opts.Logger, "playback"),
		onError:      onError,
		readyTimeout: readyTimeout,
		stopped:      true,
	}
}

// SetBackgrounded records whether the viewing surface is hidden. Background
// surfaces skip the buffering wait because no frame will be painted anyway.
func (s *Synchronizer) SetBackgrounded(hidden bool) {
	s.backgrounded = hidden
}

// StartNarration begins loading the narration clip for the given generation
// and plays it once ready. If the ready signal never arrives within the
// bounded timeout, a play attempt is forced anyway.
func (s *Synchronizer) StartNarration(gen uint64, src string) {
	s.gen = gen
	s.sched.Advance(gen)
	s.audioPlaying = false
	s.stopped = false

	s.audio.Load(src)
	if s.backgrounded {
		s.audio.Play()
		return
	}
	s.sched.Schedule(gen, s.readyTimeout, func() {
		s.logger.Warn("audio ready signal missed, forcing playback",
			logging.String("src", src), logging.Uint64("generation", gen))
		s.audio.Play()
	})
}

// Stop synchronously halts and zeroes both media elements and supersedes any
// in-flight load or scheduled fallback. Nothing started under an older
// generation can touch state afterwards.
func (s *Synchronizer) Stop(gen uint64) {
	s.gen = gen
	s.sched.Advance(gen)
	s.audioPlaying = false
	s.stopped = true

	s.audio.Pause()
	s.audio.SetCurrentTime(0)
	s.video.Pause()
	s.video.SetCurrentTime(0)
}

// Suspend halts narration without resetting media positions, used when the
// session switches into presentation mode. Like Stop it supersedes the
// generation, so a pending ready event or forced-play fallback from the
// suspended step can never restart audio.
func (s *Synchronizer) Suspend(gen uint64) {
	s.gen = gen
	s.sched.Advance(gen)
	s.audioPlaying = false
	s.stopped = true

	s.audio.Pause()
}

// HandleAudioReady reacts to the audio element reporting enough buffered data.
// Stale generations are discarded even if they resolve later.
func (s *Synchronizer) HandleAudioReady(gen uint64) {
	if gen != s.gen || s.stopped {
		return
	}
	s.audio.Play()
}

// HandleAudioPlaying reacts to audio actually starting: the avatar video is
// forced into the talking segment regardless of its prior position.
func (s *Synchronizer) HandleAudioPlaying(gen uint64) {
	if gen != s.gen || s.stopped {
		return
	}
	s.audioPlaying = true
	s.video.SetCurrentTime(s.segments.TalkStart)
	s.video.Play()
}

// HandleAudioPaused reacts to audio pausing or ending. The video is not
// touched here; subsequent ticks walk it back to the idle segment so
// time-to-idle stays bounded without a seek storm.
func (s *Synchronizer) HandleAudioPaused(gen uint64) {
	if gen != s.gen {
		return
	}
	s.audioPlaying = false
}

// HandleAudioError surfaces a recoverable playback failure. The session stays
// active with silent narration.
func (s *Synchronizer) HandleAudioError(gen uint64, cause error) {
	if gen != s.gen || s.stopped {
		return
	}
	s.audioPlaying = false
	err := services.Wrap(services.ErrPlayback, "playback", "audio load", "narration unavailable", cause)
	s.logger.Warn("narration audio failed", logging.Error(err), logging.Uint64("generation", gen))
	s.onError(err)
}

// HandleVideoTick runs the segment policy for one video time update. Drift
// into the wrong segment is a detected state mismatch and is corrected within
// the same tick.
func (s *Synchronizer) HandleVideoTick() {
	if s.stopped {
		return
	}
	pos := s.video.CurrentTime()
	seg := s.segments

	if s.audioPlaying {
		switch {
		case pos < seg.IdleEnd:
			// Video slipped back into the idle loop while narration runs.
			s.video.SetCurrentTime(seg.TalkStart)
		case pos >= seg.Duration-seg.Epsilon:
			// Seamless talking loop.
			s.video.SetCurrentTime(seg.TalkStart)
		}
	} else {
		if pos >= seg.TalkStart || pos >= seg.IdleEnd-seg.Epsilon {
			s.video.SetCurrentTime(0)
		}
	}

	// Browsers throttle background media; a loop that should be visible but
	// sits paused gets restarted.
	if s.video.Paused() {
		s.video.Play()
	}
}

// AudioPlaying reports whether narration audio is currently the source of
// truth for the talking segment.
func (s *Synchronizer) AudioPlaying() bool {
	return s.audioPlaying
}

// Segment returns which avatar segment the given video position belongs to.
func (s Segments) Segment(pos float64) string {
	if pos >= s.TalkStart {
		return "talking"
	}
	return "idle"
}
