package playback_test

import (
	"errors"
	"testing"
	"time"

	"lectern/internal/playback"
	"lectern/internal/services"
	"lectern/internal/testsupport"
)

var testSegments = playback.Segments{
	IdleEnd:   4,
	TalkStart: 5,
	Duration:  12,
	Epsilon:   0.3,
}

type harness struct {
	audio  *testsupport.FakeAudio
	video  *testsupport.FakeVideo
	timers *testsupport.ManualTimers
	sync   *playback.Synchronizer
	errs   []error
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		audio:  &testsupport.FakeAudio{},
		video:  &testsupport.FakeVideo{},
		timers: &testsupport.ManualTimers{},
	}
	h.sync = playback.NewSynchronizer(playback.SynchronizerOptions{
		Audio:        h.audio,
		Video:        h.video,
		Segments:     testSegments,
		ReadyTimeout: 3 * time.Second,
		Timers:       h.timers,
		OnError:      func(err error) { h.errs = append(h.errs, err) },
	})
	return h
}

func TestAudioPlayingForcesTalkingSegmentImmediately(t *testing.T) {
	h := newHarness(t)
	h.sync.StartNarration(1, "/audio/ws/intro_1.mp3")

	h.video.Pos = 3 // inside the idle segment
	h.sync.HandleAudioReady(1)
	h.sync.HandleAudioPlaying(1)

	if h.video.Pos != testSegments.TalkStart {
		t.Fatalf("video position = %v, want %v", h.video.Pos, testSegments.TalkStart)
	}
	if h.video.IsPaused {
		t.Fatal("video should be playing")
	}
	if !h.audio.Playing {
		t.Fatal("audio should be playing")
	}
}

func TestTickCorrectsDriftIntoIdleWhileAudioPlays(t *testing.T) {
	h := newHarness(t)
	h.sync.StartNarration(1, "clip")
	h.sync.HandleAudioPlaying(1)

	h.video.Pos = 2.5 // drifted back into idle
	h.sync.HandleVideoTick()
	if h.video.Pos != testSegments.TalkStart {
		t.Fatalf("drift not corrected: pos = %v", h.video.Pos)
	}
}

func TestTickLoopsTalkingSegmentNearEnd(t *testing.T) {
	h := newHarness(t)
	h.sync.StartNarration(1, "clip")
	h.sync.HandleAudioPlaying(1)

	h.video.Pos = testSegments.Duration - 0.1
	h.sync.HandleVideoTick()
	if h.video.Pos != testSegments.TalkStart {
		t.Fatalf("talking loop not applied: pos = %v", h.video.Pos)
	}
}

func TestTicksReturnVideoToIdleAfterAudioStops(t *testing.T) {
	h := newHarness(t)
	h.sync.StartNarration(1, "clip")
	h.sync.HandleAudioPlaying(1)
	h.sync.HandleAudioPaused(1)

	h.video.Pos = 7 // still in talking
	h.sync.HandleVideoTick()
	if h.video.Pos != 0 {
		t.Fatalf("video should rewind to idle start, pos = %v", h.video.Pos)
	}

	// Near the idle boundary the loop also snaps home.
	h.video.Pos = testSegments.IdleEnd - 0.1
	h.sync.HandleVideoTick()
	if h.video.Pos != 0 {
		t.Fatalf("idle boundary loop not applied, pos = %v", h.video.Pos)
	}

	// Mid-idle positions are left alone.
	h.video.Pos = 1.5
	h.sync.HandleVideoTick()
	if h.video.Pos != 1.5 {
		t.Fatalf("mid-idle position should be untouched, pos = %v", h.video.Pos)
	}
}

func TestTickRestartsThrottledVideo(t *testing.T) {
	h := newHarness(t)
	h.sync.StartNarration(1, "clip")
	h.sync.HandleAudioPlaying(1)

	h.video.IsPaused = true
	h.video.Pos = 6
	h.sync.HandleVideoTick()
	if h.video.IsPaused {
		t.Fatal("paused visible video should be restarted")
	}
}

func TestStaleAudioEventsAreDiscarded(t *testing.T) {
	h := newHarness(t)
	h.sync.StartNarration(1, "step1")
	h.sync.StartNarration(2, "step2")

	// Step 1 resolves late: its events must not start playback.
	h.sync.HandleAudioReady(1)
	if h.audio.Playing {
		t.Fatal("stale ready event must be discarded")
	}
	h.sync.HandleAudioPlaying(1)
	if h.sync.AudioPlaying() {
		t.Fatal("stale playing event must be discarded")
	}

	h.sync.HandleAudioReady(2)
	if !h.audio.Playing {
		t.Fatal("current generation must play")
	}
	if h.audio.CurrentSource() != "step2" {
		t.Fatalf("current source = %q", h.audio.CurrentSource())
	}
}

func TestReadyTimeoutForcesPlayback(t *testing.T) {
	h := newHarness(t)
	h.sync.StartNarration(1, "clip")
	if h.audio.Playing {
		t.Fatal("playback should wait for the ready signal")
	}

	h.timers.FireAll()
	if !h.audio.Playing {
		t.Fatal("fallback should force a play attempt")
	}
}

func TestReadyTimeoutInertAfterStop(t *testing.T) {
	h := newHarness(t)
	h.sync.StartNarration(1, "clip")
	h.sync.Stop(2)

	h.timers.FireAll()
	if h.audio.Playing {
		t.Fatal("fallback from a superseded generation must be inert")
	}
}

func TestSuspendKeepsPositionsAndSilencesPendingWork(t *testing.T) {
	h := newHarness(t)
	h.sync.StartNarration(1, "clip")
	h.sync.HandleAudioReady(1)
	h.sync.HandleAudioPlaying(1)
	h.audio.Pos = 2.2
	h.video.Pos = 8.8

	h.sync.Suspend(2)

	if h.audio.Playing {
		t.Fatal("suspend must pause audio")
	}
	if h.audio.Pos != 2.2 || h.video.Pos != 8.8 {
		t.Fatalf("suspend must not reset positions: audio=%v video=%v", h.audio.Pos, h.video.Pos)
	}

	h.sync.HandleAudioReady(1)
	h.sync.HandleAudioReady(2)
	h.timers.FireAll()
	if h.audio.Playing {
		t.Fatal("no event may restart audio while suspended")
	}
}

func TestBackgroundedSurfacePlaysImmediately(t *testing.T) {
	h := newHarness(t)
	h.sync.SetBackgrounded(true)
	h.sync.StartNarration(1, "clip")
	if !h.audio.Playing {
		t.Fatal("backgrounded surfaces skip the buffering wait")
	}
	if h.timers.PendingCount() != 0 {
		t.Fatal("no fallback timer should be scheduled when backgrounded")
	}
}

func TestStopZeroesBothElements(t *testing.T) {
	h := newHarness(t)
	h.sync.StartNarration(1, "clip")
	h.sync.HandleAudioPlaying(1)
	h.audio.Pos = 2.2
	h.video.Pos = 8.8

	h.sync.Stop(2)

	if h.audio.Playing || h.audio.Pos != 0 {
		t.Fatalf("audio not zeroed: playing=%v pos=%v", h.audio.Playing, h.audio.Pos)
	}
	if !h.video.IsPaused || h.video.Pos != 0 {
		t.Fatalf("video not zeroed: paused=%v pos=%v", h.video.IsPaused, h.video.Pos)
	}

	// Ticks after stop must not resurrect the loop.
	h.sync.HandleVideoTick()
	if !h.video.IsPaused {
		t.Fatal("stopped video must stay paused")
	}
}

func TestAudioErrorIsRecoverable(t *testing.T) {
	h := newHarness(t)
	h.sync.StartNarration(1, "clip")
	h.sync.HandleAudioError(1, errors.New("404"))

	if len(h.errs) != 1 {
		t.Fatalf("expected one surfaced error, got %d", len(h.errs))
	}
	if !errors.Is(h.errs[0], services.ErrPlayback) {
		t.Fatalf("expected playback error, got %v", h.errs[0])
	}
	if h.sync.AudioPlaying() {
		t.Fatal("audio must not be marked playing after a load failure")
	}
}

func TestSegmentClassification(t *testing.T) {
	if testSegments.Segment(1) != "idle" {
		t.Fatal("position 1 is idle")
	}
	if testSegments.Segment(6) != "talking" {
		t.Fatal("position 6 is talking")
	}
}
