package playback_test

import (
	"testing"

	"lectern/internal/playback"
	"lectern/internal/worksheet"
)

func newSessionHarness(t *testing.T) (*playback.Session, *harness) {
	t.Helper()
	h := newHarness(t)
	session := playback.NewSession("ws-9", h.sync, nil)
	return session, h
}

func regionA() worksheet.Region {
	return worksheet.Region{
		ID: "a", Page: 1, Name: "intro",
		Steps: []string{"Step one.", "Step two.", "Step three."},
	}
}

func regionB() worksheet.Region {
	return worksheet.Region{
		ID: "b", Page: 1, Name: "hint_one",
		Steps: []string{"Only step."},
	}
}

func TestClickActivatesAtStepZeroTextMode(t *testing.T) {
	session, h := newSessionHarness(t)
	session.Click(regionA())

	if !session.Active() || session.StepIndex() != 0 || session.Mode() != playback.ModeText {
		t.Fatalf("unexpected state: active=%v step=%d mode=%v", session.Active(), session.StepIndex(), session.Mode())
	}
	transcript := session.Transcript()
	if len(transcript) != 1 || transcript[0].Text != "Step one." {
		t.Fatalf("transcript = %+v", transcript)
	}
	if h.audio.CurrentSource() != "/audio/ws-9/intro_1.mp3" {
		t.Fatalf("audio source = %q", h.audio.CurrentSource())
	}
}

func TestReclickRestartsNarration(t *testing.T) {
	session, h := newSessionHarness(t)
	a := regionA()

	session.Click(a)
	session.AdvanceStep()
	session.Click(regionB())
	session.Click(a)

	// Click A, B, A: the third click restarts A, so the transcript holds
	// exactly the first step again.
	transcript := session.Transcript()
	if len(transcript) != 1 {
		t.Fatalf("transcript length = %d, want 1", len(transcript))
	}
	if transcript[0].RegionID != "a" || transcript[0].StepIndex != 0 {
		t.Fatalf("transcript = %+v", transcript)
	}
	if session.StepIndex() != 0 {
		t.Fatalf("step index = %d, want 0", session.StepIndex())
	}
	if h.audio.CurrentSource() != "/audio/ws-9/intro_1.mp3" {
		t.Fatalf("audio source = %q", h.audio.CurrentSource())
	}
}

func TestAdvanceStepAppendsAndStopsAtEnd(t *testing.T) {
	session, h := newSessionHarness(t)
	session.Click(regionA())

	session.AdvanceStep()
	session.AdvanceStep()
	if session.StepIndex() != 2 {
		t.Fatalf("step index = %d, want 2", session.StepIndex())
	}
	if got := len(session.Transcript()); got != 3 {
		t.Fatalf("transcript length = %d, want 3", got)
	}
	if h.audio.CurrentSource() != "/audio/ws-9/intro_3.mp3" {
		t.Fatalf("audio source = %q", h.audio.CurrentSource())
	}

	// At the last step another advance is a no-op.
	before := session.Generation()
	session.AdvanceStep()
	if session.StepIndex() != 2 || len(session.Transcript()) != 3 {
		t.Fatal("advance at last step must not change state")
	}
	if session.Generation() != before {
		t.Fatal("no-op advance must not supersede playback")
	}
}

func TestAdvanceStepIdleIsNoop(t *testing.T) {
	session, h := newSessionHarness(t)
	session.AdvanceStep()
	if session.Active() || len(h.audio.Sources) != 0 {
		t.Fatal("advancing an idle session must do nothing")
	}
}

func TestToggleModeStopsAndReplaysAudio(t *testing.T) {
	session, h := newSessionHarness(t)
	session.Click(regionA())
	session.AdvanceStep()
	h.sync.HandleAudioReady(session.Generation())
	h.sync.HandleAudioPlaying(session.Generation())

	session.ToggleMode()
	if session.Mode() != playback.ModePresentation {
		t.Fatal("expected presentation mode")
	}
	if h.audio.Playing {
		t.Fatal("entering presentation must stop audio immediately")
	}
	if session.StepIndex() != 1 {
		t.Fatal("mode toggle must not touch the step index")
	}

	loadsBefore := len(h.audio.Sources)
	session.ToggleMode()
	if session.Mode() != playback.ModeText {
		t.Fatal("expected text mode")
	}
	if len(h.audio.Sources) != loadsBefore+1 {
		t.Fatal("returning to text must reload the current step's audio")
	}
	if h.audio.CurrentSource() != "/audio/ws-9/intro_2.mp3" {
		t.Fatalf("replayed source = %q", h.audio.CurrentSource())
	}
}

func TestPresentationModeSilencesLateAudioEvents(t *testing.T) {
	session, h := newSessionHarness(t)
	session.Click(regionA())

	// The click scheduled a forced-play fallback that is still pending when
	// the user switches modes.
	session.ToggleMode()
	if session.Mode() != playback.ModePresentation {
		t.Fatal("expected presentation mode")
	}

	h.sync.HandleAudioReady(session.Generation())
	if h.audio.Playing {
		t.Fatal("ready event must not start audio in presentation mode")
	}

	h.timers.FireAll()
	if h.audio.Playing {
		t.Fatal("forced-play fallback must not start audio in presentation mode")
	}
}

func TestNavigateAwayStopsMediaSynchronously(t *testing.T) {
	session, h := newSessionHarness(t)
	session.Click(regionA())
	h.sync.HandleAudioReady(session.Generation())
	h.sync.HandleAudioPlaying(session.Generation())
	h.audio.Pos = 1.7
	h.video.Pos = 6.4

	session.NavigateAway()

	if session.Active() || session.StepIndex() != 0 {
		t.Fatalf("session not reset: active=%v step=%d", session.Active(), session.StepIndex())
	}
	if len(session.Transcript()) != 0 {
		t.Fatal("transcript must be cleared")
	}
	if h.audio.Playing || h.audio.Pos != 0 {
		t.Fatalf("audio not zeroed: playing=%v pos=%v", h.audio.Playing, h.audio.Pos)
	}
	if !h.video.IsPaused || h.video.Pos != 0 {
		t.Fatalf("video not zeroed: paused=%v pos=%v", h.video.IsPaused, h.video.Pos)
	}
}

func TestRapidReclickSupersedesInFlightLoad(t *testing.T) {
	session, h := newSessionHarness(t)
	session.Click(regionA())
	firstGen := session.Generation()

	session.Click(regionB())
	secondGen := session.Generation()

	// The first click's load resolves late and must be dropped.
	h.sync.HandleAudioReady(firstGen)
	if h.audio.Playing {
		t.Fatal("superseded load must not start playback")
	}

	h.sync.HandleAudioReady(secondGen)
	if !h.audio.Playing {
		t.Fatal("latest click's load must win")
	}
	if h.audio.CurrentSource() != "/audio/ws-9/hint_one_1.mp3" {
		t.Fatalf("audio source = %q", h.audio.CurrentSource())
	}
}

func TestAudioFailureKeepsSessionActiveAndAdvanceRetries(t *testing.T) {
	session, h := newSessionHarness(t)
	session.Click(regionA())
	h.sync.HandleAudioError(session.Generation(), errTest)

	if !session.Active() {
		t.Fatal("session must stay active with silent narration")
	}
	if len(h.errs) != 1 {
		t.Fatalf("expected one surfaced error, got %d", len(h.errs))
	}

	session.AdvanceStep()
	if h.audio.CurrentSource() != "/audio/ws-9/intro_2.mp3" {
		t.Fatal("advancing must retry a fresh load")
	}
}

var errTest = errorString("load failed")

type errorString string

func (e errorString) Error() string { return string(e) }
